package models

import "time"

// Customer is a market customer who buys on credit.
type Customer struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Number     string    `json:"number" db:"number"`
	Address    string    `json:"address" db:"address"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	CurrentDue float64   `json:"currentDue" db:"current_due"` // positive: customer owes the shop
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// CustomerDetail is a customer with the ledger, newest row first.
type CustomerDetail struct {
	Customer
	Transactions  []CustomerTransaction `json:"transactions"`
	TotalGiven    float64               `json:"totalGiven"`
	TotalReceived float64               `json:"totalReceived"`
}

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100" example:"Karim"`
	Number  string `json:"number" validate:"required,min=5,max=20" example:"01700000000"`
	Address string `json:"address" validate:"max=200" example:"Raigonj"`
}

// CustomerImportRequest carries pasted name, number, address, due rows.
type CustomerImportRequest struct {
	Text string `json:"text" validate:"required"`
}

type ImportReport struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Names   []string `json:"names,omitempty"`
}

// CustomerSummary totals dues across all customers.
type CustomerSummary struct {
	Count         int     `json:"count"`
	AmiPabo       float64 `json:"amiPabo"`       // owed to the shop
	AmarThekePabe float64 `json:"amarThekePabe"` // owed by the shop
}
