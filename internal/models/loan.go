package models

import "time"

const (
	LoanActive = "Active"
	LoanClosed = "Closed"
	LoanTaken  = "Taken"
)

// Loan is an NGO loan taken by the shop.
type Loan struct {
	ID             string    `json:"id" db:"id"`
	NGOName        string    `json:"ngoName" db:"ngo_name"`
	LoanRef        string    `json:"loanId" db:"loan_ref"`
	Date           string    `json:"date" db:"date"`
	Type           string    `json:"type" db:"type"`
	Principal      float64   `json:"principal" db:"principal"`
	Interest       float64   `json:"interest" db:"interest"`
	InitialSavings float64   `json:"initialSavings" db:"initial_savings"`
	CurrentDue     float64   `json:"currentDue" db:"current_due"`
	TotalSavings   float64   `json:"totalSavings" db:"total_savings"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// TotalPayable is principal plus interest.
func (l Loan) TotalPayable() float64 {
	return l.Principal + l.Interest
}

// LoanDetail is a loan with its installments, newest first.
type LoanDetail struct {
	Loan
	Installments []LoanInstallment `json:"installments"`
	TotalDeposit float64           `json:"totalDeposit"`
}

type LoanRequest struct {
	NGOName        string  `json:"ngoName" validate:"required,max=100" example:"BRAC"`
	LoanRef        string  `json:"loanId" validate:"max=50" example:"L-2025-11"`
	Date           string  `json:"date" validate:"required" example:"2025-01-01"`
	Principal      float64 `json:"principal" validate:"gte=0" example:"100000"`
	Interest       float64 `json:"interest" validate:"gte=0" example:"12000"`
	InitialSavings float64 `json:"initialSavings" validate:"gte=0" example:"2000"`
}

type LoanTotals struct {
	Count        int     `json:"count"`
	ActiveCount  int     `json:"activeCount"`
	TotalDue     float64 `json:"totalDue"`
	TotalSavings float64 `json:"totalSavings"`
}
