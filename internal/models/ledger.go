package models

import (
	"time"

	"github.com/sinthiyatelecom/backoffice/internal/ledger"
)

// CustomerTransaction is a customer ledger row as shown to staff.
type CustomerTransaction struct {
	ID           string    `json:"id" csv:"-"`
	Date         string    `json:"date" csv:"Date"`
	Given        float64   `json:"given" csv:"Given"`       // goods or cash handed over on credit
	Received     float64   `json:"received" csv:"Received"` // payment taken from the customer
	Comment      string    `json:"comment" csv:"Details"`
	BalanceAfter float64   `json:"balanceAfter" csv:"Balance"`
	CreatedAt    time.Time `json:"createdAt" csv:"-"`
}

// LoanInstallment is a loan ledger row as shown to staff.
type LoanInstallment struct {
	ID           string    `json:"id" csv:"-"`
	Date         string    `json:"date" csv:"Date"`
	Deposit      float64   `json:"deposit" csv:"Deposit"`
	Savings      float64   `json:"savings" csv:"Savings"`
	Comment      string    `json:"comment" csv:"Comment"`
	BalanceAfter float64   `json:"balanceAfter" csv:"Due After"`
	CreatedAt    time.Time `json:"createdAt" csv:"-"`
}

// CustomerEntryRequest adds or edits one customer ledger row.
type CustomerEntryRequest struct {
	Date     string  `json:"date" validate:"required" example:"08-11-2025"`
	Given    float64 `json:"given" validate:"gte=0" example:"500"`
	Received float64 `json:"received" validate:"gte=0" example:"0"`
	Comment  string  `json:"comment" validate:"max=200" example:"Flexiload 500"`
}

// LoanEntryRequest adds or edits one loan installment.
type LoanEntryRequest struct {
	Date    string  `json:"date" validate:"required" example:"2025-11-08"`
	Deposit float64 `json:"deposit" validate:"gte=0" example:"1200"`
	Savings float64 `json:"savings" validate:"gte=0" example:"100"`
	Comment string  `json:"comment" validate:"max=200"`
}

// LedgerImportRequest carries pasted ledger text.
type LedgerImportRequest struct {
	Text string `json:"text" validate:"required"`
}

// CustomerTransactions converts engine entries (newest first) for display.
func CustomerTransactions(entries []ledger.Entry) []CustomerTransaction {
	out := make([]CustomerTransaction, 0, len(entries))
	for _, e := range ledger.NewestFirst(entries) {
		out = append(out, CustomerTransaction{
			ID:           e.ID,
			Date:         e.Date,
			Given:        e.Debit,
			Received:     e.Credit,
			Comment:      e.Comment,
			BalanceAfter: e.BalanceAfter,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}

// LoanInstallments converts engine entries (newest first) for display.
func LoanInstallments(entries []ledger.Entry) []LoanInstallment {
	out := make([]LoanInstallment, 0, len(entries))
	for _, e := range ledger.NewestFirst(entries) {
		out = append(out, LoanInstallment{
			ID:           e.ID,
			Date:         e.Date,
			Deposit:      e.Debit,
			Savings:      e.Credit,
			Comment:      e.Comment,
			BalanceAfter: e.BalanceAfter,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
