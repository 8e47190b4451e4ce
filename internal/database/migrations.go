package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dates are stored as ISO YYYY-MM-DD text so they sort and prefix-match
// (month = first 7 chars) without conversion.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		number TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL DEFAULT 'Unknown',
		image_url TEXT NOT NULL DEFAULT '',
		current_due DOUBLE PRECISION NOT NULL DEFAULT 0,
		transactions JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		ngo_name TEXT NOT NULL,
		loan_ref TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'Taken',
		principal DOUBLE PRECISION NOT NULL DEFAULT 0,
		interest DOUBLE PRECISION NOT NULL DEFAULT 0,
		initial_savings DOUBLE PRECISION NOT NULL DEFAULT 0,
		current_due DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_savings DOUBLE PRECISION NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Active',
		transactions JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		sl_number INTEGER NOT NULL DEFAULT 0,
		provider TEXT NOT NULL,
		type TEXT NOT NULL,
		number TEXT NOT NULL DEFAULT '',
		balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_daily_update TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS balance_history (
		date TEXT PRIMARY KEY,
		closings JSONB NOT NULL DEFAULT '{}',
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		sl_number INTEGER NOT NULL DEFAULT 0,
		carrier TEXT NOT NULL,
		item_type TEXT NOT NULL,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		buy_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_stock INTEGER NOT NULL DEFAULT 5,
		remarks TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS stock_history (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		carrier TEXT NOT NULL,
		item_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price_per_unit DOUBLE PRECISION NOT NULL,
		total_price DOUBLE PRECISION NOT NULL,
		profit DOUBLE PRECISION NOT NULL DEFAULT 0,
		remarks TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS incomes (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		income DOUBLE PRECISION NOT NULL DEFAULT 0,
		expense DOUBLE PRECISION NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'Daily Summary',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		category TEXT NOT NULL DEFAULT 'Others',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rent_history (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		type TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS memos (
		id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		customer_address TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		items JSONB NOT NULL DEFAULT '[]',
		subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
		language TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		action TEXT NOT NULL,
		module TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS daily_hisab (
		date TEXT PRIMARY KEY,
		total_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_loan DOUBLE PRECISION NOT NULL DEFAULT 0,
		main_cash DOUBLE PRECISION NOT NULL DEFAULT 0,
		past_cash DOUBLE PRECISION NOT NULL DEFAULT 0,
		profit_loss DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_history_product ON stock_history (carrier, item_type, type)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_date ON incomes (date)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses (date)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities (date)`,
}

// Migrate creates every table that does not exist yet. It is safe to run on
// each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}
