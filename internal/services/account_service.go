package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	moduleAccount = "Account"

	historyDays = 30
)

// AccountService manages wallet balances and their daily closings.
type AccountService struct {
	db       *sql.DB
	dates    *dateutil.Normalizer
	activity ActivityRecorder
	log      logrus.FieldLogger
}

func NewAccountService(db *sql.DB, dates *dateutil.Normalizer, rec ActivityRecorder, log logrus.FieldLogger) *AccountService {
	return &AccountService{db: db, dates: dates, activity: rec, log: log.WithField("module", "accounts")}
}

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		a       models.Account
		updated sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.SLNumber, &a.Provider, &a.Type, &a.Number, &a.Balance, &updated); err != nil {
		return a, err
	}
	if updated.Valid {
		a.LastDailyUpdate = &updated.Time
	}
	return a, nil
}

// List returns accounts grouped by provider and serial number. An empty
// provider lists every account.
func (s *AccountService) List(ctx context.Context, provider string) ([]models.Account, error) {
	query := `SELECT id, sl_number, provider, type, number, balance, last_daily_update FROM accounts`
	var args []any
	if provider != "" {
		query += ` WHERE provider = $1`
		args = append(args, provider)
	}
	query += ` ORDER BY provider, sl_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *AccountService) Create(ctx context.Context, req models.AccountRequest) (*models.Account, error) {
	a := models.Account{
		ID:       uuid.NewString(),
		SLNumber: req.SLNumber,
		Provider: req.Provider,
		Type:     strings.TrimSpace(req.Type),
		Number:   strings.TrimSpace(req.Number),
		Balance:  req.Balance,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, sl_number, provider, type, number, balance)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.SLNumber, a.Provider, a.Type, a.Number, a.Balance)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleAccount, fmt.Sprintf("Added %s %s account %s", a.Provider, a.Type, a.Number))
	return &a, nil
}

func (s *AccountService) Update(ctx context.Context, id string, req models.AccountRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET sl_number = $1, provider = $2, type = $3, number = $4, balance = $5
		WHERE id = $6`,
		req.SLNumber, req.Provider, strings.TrimSpace(req.Type), strings.TrimSpace(req.Number), req.Balance, id)
	if err := expectOneRow(res, err, "account", id); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActionEdit, moduleAccount, fmt.Sprintf("Updated %s account %s to %s", req.Provider, req.Number, activity.Taka(req.Balance)))
	return nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	var provider, number string
	err := s.db.QueryRowContext(ctx, `DELETE FROM accounts WHERE id = $1 RETURNING provider, number`, id).Scan(&provider, &number)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.activity.Record(ctx, models.ActionDelete, moduleAccount, fmt.Sprintf("Deleted %s account %s", provider, number))
	return nil
}

// Totals sums balances per provider and overall.
func (s *AccountService) Totals(ctx context.Context) (*models.AccountTotals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, COUNT(*), COALESCE(SUM(balance), 0)
		FROM accounts GROUP BY provider`)
	if err != nil {
		return nil, fmt.Errorf("account totals: %w", err)
	}
	defer rows.Close()

	totals := &models.AccountTotals{Providers: make(map[string]float64, len(models.Providers))}
	for _, p := range models.Providers {
		totals.Providers[p] = 0
	}
	for rows.Next() {
		var (
			provider string
			count    int
			sum      float64
		)
		if err := rows.Scan(&provider, &count, &sum); err != nil {
			return nil, err
		}
		totals.Providers[provider] = sum
		totals.Count += count
		totals.GrandTotal += sum
	}
	return totals, rows.Err()
}

// Closing sets the end-of-day balance of every listed account of one
// provider and merges a snapshot into today's balance history. All of it
// commits together or not at all.
func (s *AccountService) Closing(ctx context.Context, provider string, req models.ClosingRequest) (*models.ProviderClosing, error) {
	if !slices.Contains(models.Providers, provider) {
		return nil, fmt.Errorf("provider %q: %w", provider, ErrInvalidArgument)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin closing: %w", err)
	}
	defer tx.Rollback()

	now := s.dates.Now()
	for _, b := range req.Balances {
		res, err := tx.ExecContext(ctx, `
			UPDATE accounts SET balance = $1, last_daily_update = $2
			WHERE id = $3 AND provider = $4`, b.Balance, now, b.ID, provider)
		if err := expectOneRow(res, err, "account", b.ID); err != nil {
			return nil, err
		}
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, sl_number, provider, type, number, balance, last_daily_update
		FROM accounts WHERE provider = $1 ORDER BY sl_number`, provider)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", provider, err)
	}
	snapshot := &models.ProviderClosing{Provider: provider, Timestamp: now, Accounts: []models.Account{}}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		snapshot.Accounts = append(snapshot.Accounts, a)
		snapshot.TotalBalance += a.Balance
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO balance_history (date, closings, last_updated)
		VALUES ($1, jsonb_build_object($2::text, $3::jsonb), $4)
		ON CONFLICT (date) DO UPDATE
		SET closings = balance_history.closings || EXCLUDED.closings, last_updated = EXCLUDED.last_updated`,
		dateutil.ToISO(now), provider, string(raw), now)
	if err != nil {
		return nil, fmt.Errorf("store closing history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit closing: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"provider": provider,
		"accounts": len(snapshot.Accounts),
		"total":    snapshot.TotalBalance,
	}).Info("daily closing saved")
	s.activity.Record(ctx, models.ActionSync, moduleAccount, fmt.Sprintf("Daily closing for %s: %s", provider, activity.Taka(snapshot.TotalBalance)))
	return snapshot, nil
}

// History returns recent days of closings, newest first.
func (s *AccountService) History(ctx context.Context) ([]models.BalanceHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, closings, last_updated FROM balance_history
		ORDER BY date DESC LIMIT $1`, historyDays)
	if err != nil {
		return nil, fmt.Errorf("balance history: %w", err)
	}
	defer rows.Close()

	history := []models.BalanceHistory{}
	for rows.Next() {
		var (
			h   models.BalanceHistory
			raw []byte
		)
		if err := rows.Scan(&h.Date, &raw, &h.LastUpdated); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &h.Closings); err != nil {
			return nil, fmt.Errorf("decode closings for %s: %w", h.Date, err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
