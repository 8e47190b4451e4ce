package models

import "time"

// Admin is a back-office login.
type Admin struct {
	ID           string    `json:"id" example:"3f1c..."`
	Email        string    `json:"email" example:"owner@sinthiyatelecom.com"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
