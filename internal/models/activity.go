package models

import "time"

const (
	ActionAdd    = "ADD"
	ActionEdit   = "EDIT"
	ActionDelete = "DELETE"
	ActionSync   = "SYNC"
)

// Activity is one entry in the staff activity log.
type Activity struct {
	ID        string    `json:"id" db:"id"`
	Date      string    `json:"date" db:"date"`
	Time      string    `json:"time" db:"time"`
	Action    string    `json:"action" db:"action"`
	Module    string    `json:"module" db:"module"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
