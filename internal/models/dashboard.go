package models

import "time"

// DailyHisab is the stored end-of-day cash position.
type DailyHisab struct {
	Date         string    `json:"date" db:"date"`
	TotalBalance float64   `json:"totalBalance" db:"total_balance"`
	TotalLoan    float64   `json:"totalLoan" db:"total_loan"`
	MainCash     float64   `json:"mainCash" db:"main_cash"`
	PastCash     float64   `json:"pastCash" db:"past_cash"`
	ProfitLoss   float64   `json:"profitLoss" db:"profit_loss"`
	LastUpdated  time.Time `json:"lastUpdated" db:"last_updated"`
}

type Debtor struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Number     string  `json:"number"`
	CurrentDue float64 `json:"currentDue"`
}

type ChartPoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// DashboardSummary is the owner's daily hisab screen.
type DashboardSummary struct {
	Date             string             `json:"date"`
	WalletTotal      float64            `json:"walletTotal"`
	WalletCount      int                `json:"walletCount"`
	WalletByProvider map[string]float64 `json:"walletByProvider"`
	MarketDue        float64            `json:"marketDue"`
	TotalLoan        float64            `json:"totalLoan"` // sum of max(0, due - savings)
	StockValue       float64            `json:"stockValue"`
	TodayIncome      float64            `json:"todayIncome"`
	TodayExpense     float64            `json:"todayExpense"`
	TotalBalance     float64            `json:"totalBalance"`
	MainCash         float64            `json:"mainCash"`
	PastCash         float64            `json:"pastCash"`
	ProfitLoss       float64            `json:"profitLoss"`
	TopDebtors       []Debtor           `json:"topDebtors"`
	WeeklyIncome     []ChartPoint       `json:"weeklyIncome"`
	LowStockCount    int                `json:"lowStockCount"`
}

type PastCashRequest struct {
	PastCash float64 `json:"pastCash"`
}

// Report periods.
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

type ReportRow struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

type IncomeReport struct {
	Period string      `json:"period"`
	Rows   []ReportRow `json:"rows"`
	Totals ReportRow   `json:"totals"`
}
