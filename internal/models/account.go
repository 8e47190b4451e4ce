package models

import "time"

// Wallet providers tracked by the shop.
const (
	ProviderBkash     = "bkash"
	ProviderNagad     = "nagad"
	ProviderRocket    = "rocket"
	ProviderFlexiload = "flexiload"
	ProviderHandCash  = "hand_cash"
)

// Providers lists every provider in display order.
var Providers = []string{ProviderBkash, ProviderNagad, ProviderRocket, ProviderFlexiload, ProviderHandCash}

// Account is one wallet (agent SIM, personal number, or the cash drawer).
type Account struct {
	ID              string     `json:"id" db:"id"`
	SLNumber        int        `json:"slNumber" db:"sl_number"`
	Provider        string     `json:"provider" db:"provider"`
	Type            string     `json:"type" db:"type"`
	Number          string     `json:"number" db:"number"`
	Balance         float64    `json:"balance" db:"balance"`
	LastDailyUpdate *time.Time `json:"lastDailyUpdate,omitempty" db:"last_daily_update"`
}

type AccountRequest struct {
	SLNumber int     `json:"slNumber" validate:"gte=0"`
	Provider string  `json:"provider" validate:"required,oneof=bkash nagad rocket flexiload hand_cash"`
	Type     string  `json:"type" validate:"required,max=30" example:"Agent"`
	Number   string  `json:"number" validate:"max=20" example:"01700000000"`
	Balance  float64 `json:"balance" example:"15000"`
}

// AccountTotals groups balances by provider.
type AccountTotals struct {
	Providers  map[string]float64 `json:"providers"`
	Count      int                `json:"count"`
	GrandTotal float64            `json:"grandTotal"`
}

// ClosingBalance is one account's end-of-day balance.
type ClosingBalance struct {
	ID      string  `json:"id" validate:"required"`
	Balance float64 `json:"balance"`
}

type ClosingRequest struct {
	Balances []ClosingBalance `json:"balances" validate:"required,min=1,dive"`
}

// ProviderClosing is the snapshot stored per provider in balance history.
type ProviderClosing struct {
	Provider     string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
	TotalBalance float64   `json:"totalBalance"`
	Accounts     []Account `json:"accounts"`
}

// BalanceHistory is one day of provider closings.
type BalanceHistory struct {
	Date        string                     `json:"date"`
	Closings    map[string]ProviderClosing `json:"closings"`
	LastUpdated time.Time                  `json:"lastUpdated"`
}
