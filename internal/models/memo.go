package models

import "time"

type MemoItem struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// Memo is a printed cash memo (invoice).
type Memo struct {
	ID              string     `json:"id" db:"id"`
	CustomerName    string     `json:"customerName" db:"customer_name"`
	CustomerPhone   string     `json:"customerPhone" db:"customer_phone"`
	CustomerAddress string     `json:"customerAddress" db:"customer_address"`
	Date            string     `json:"date" db:"date"`
	Items           []MemoItem `json:"items" db:"items"`
	Subtotal        float64    `json:"subtotal" db:"subtotal"`
	Language        string     `json:"language" db:"language"`
	AmountInWords   string     `json:"amountInWords"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

type MemoRequest struct {
	CustomerName    string     `json:"customerName" validate:"required,max=100"`
	CustomerPhone   string     `json:"customerPhone" validate:"max=20"`
	CustomerAddress string     `json:"customerAddress" validate:"max=200"`
	Date            string     `json:"date" validate:"required"`
	Items           []MemoItem `json:"items" validate:"required,min=1,dive"`
	Language        string     `json:"language" validate:"omitempty,oneof=en bn"`
}
