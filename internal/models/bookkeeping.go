package models

import "time"

const DefaultIncomeSource = "Daily Summary"

var ExpenseCategories = []string{
	"Electricity", "Internet/Wifi", "Staff Salary", "Tea & Snacks", "Shop Rent",
	"Baba", "Maintenance", "Bazar", "Others",
}

var RentTypes = []string{"Room Enamul", "Pay Bill Enamul", "Sinthiyar Beton"}

// Income is a daily summary line. Expense is entered as a signed value, so
// net is income + expense.
type Income struct {
	ID          string    `json:"id" db:"id"`
	Date        string    `json:"date" db:"date"`
	Income      float64   `json:"income" db:"income"`
	Expense     float64   `json:"expense" db:"expense"`
	Source      string    `json:"source" db:"source"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type IncomeRequest struct {
	Date        string  `json:"date" validate:"required"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Source      string  `json:"source" validate:"max=100"`
	Description string  `json:"description" validate:"max=200"`
}

type IncomeSummary struct {
	TodayIncome     float64 `json:"todayIncome"`
	TodayExpense    float64 `json:"todayExpense"`
	TodayNet        float64 `json:"todayNet"`
	TotalProfitLoss float64 `json:"totalProfitLoss"` // sum of closed daily hisab profit/loss
}

type Expense struct {
	ID          string    `json:"id" db:"id"`
	Date        string    `json:"date" db:"date"`
	Amount      float64   `json:"amount" db:"amount"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type ExpenseRequest struct {
	Date        string  `json:"date" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category" validate:"max=50"`
	Description string  `json:"description" validate:"max=200"`
}

type ExpenseTotals struct {
	Today float64 `json:"today"`
	Month float64 `json:"month"`
	Grand float64 `json:"grand"`
}

type RentPayment struct {
	ID        string    `json:"id" db:"id"`
	Date      string    `json:"date" db:"date"`
	Amount    float64   `json:"amount" db:"amount"`
	Type      string    `json:"type" db:"type"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type RentRequest struct {
	Date    string  `json:"date" validate:"required"`
	Amount  float64 `json:"amount" validate:"gt=0"`
	Type    string  `json:"type" validate:"required,oneof='Room Enamul' 'Pay Bill Enamul' 'Sinthiyar Beton'"`
	Comment string  `json:"comment" validate:"max=200"`
}
