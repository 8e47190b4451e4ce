package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
)

// ActivityRecorder receives one line per mutation for the staff activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, action, module, details string)
}

// ledgerOwner is a locked owner row with its decoded ledger.
type ledgerOwner struct {
	ID      string
	Name    string
	Opening ledger.Opening
	Entries []ledger.Entry
}

// ledgerBook knows where one kind of owner keeps its ledger.
type ledgerBook interface {
	name() string
	convention() ledger.Convention
	lock(ctx context.Context, tx *sql.Tx, id string) (*ledgerOwner, error)
	save(ctx context.Context, tx *sql.Tx, owner *ledgerOwner, res ledger.Result) error
}

// LedgerStore runs read-modify-write cycles on owner ledgers. Each cycle
// holds the owner's row lock from read to commit, so concurrent edits on the
// same owner serialize and the last committed write wins for the whole
// collection.
type LedgerStore struct {
	db     *sql.DB
	engine *ledger.Engine
	log    logrus.FieldLogger
}

func NewLedgerStore(db *sql.DB, engine *ledger.Engine, log logrus.FieldLogger) *LedgerStore {
	return &LedgerStore{db: db, engine: engine, log: log}
}

// mutateFunc edits the locked owner in place. It may run extra statements on tx.
type mutateFunc func(ctx context.Context, tx *sql.Tx, owner *ledgerOwner) error

// Mutate locks the owner, applies fn, recomputes the whole ledger and writes
// entries and balances back in the same transaction.
func (s *LedgerStore) Mutate(ctx context.Context, book ledgerBook, ownerID string, fn mutateFunc) (ledger.Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("begin %s ledger: %w", book.name(), err)
	}
	defer tx.Rollback()

	owner, err := book.lock(ctx, tx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Result{}, fmt.Errorf("%s %s: %w", book.name(), ownerID, ErrNotFound)
	}
	if err != nil {
		return ledger.Result{}, fmt.Errorf("lock %s %s: %w", book.name(), ownerID, err)
	}

	if err := fn(ctx, tx, owner); err != nil {
		return ledger.Result{}, err
	}

	res, err := s.engine.Recompute(owner.Entries, owner.Opening, book.convention())
	if err != nil {
		return ledger.Result{}, err
	}

	if err := book.save(ctx, tx, owner, res); err != nil {
		return ledger.Result{}, fmt.Errorf("save %s %s: %w", book.name(), ownerID, err)
	}

	if err := tx.Commit(); err != nil {
		return ledger.Result{}, fmt.Errorf("commit %s %s: %w", book.name(), ownerID, err)
	}

	s.log.WithFields(logrus.Fields{
		"book":     book.name(),
		"owner_id": ownerID,
		"entries":  len(res.Entries),
		"balance":  res.Balance,
	}).Debug("ledger recomputed")
	return res, nil
}

// Recompute runs the engine without touching storage.
func (s *LedgerStore) Recompute(entries []ledger.Entry, opening ledger.Opening, conv ledger.Convention) (ledger.Result, error) {
	return s.engine.Recompute(entries, opening, conv)
}

func decodeEntries(raw []byte) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return entries, nil
}

// encodeEntries returns the JSONB text for a ledger. lib/pq sends []byte as
// bytea, so documents go over the wire as strings.
func encodeEntries(entries []ledger.Entry) (string, error) {
	if entries == nil {
		entries = []ledger.Entry{}
	}
	raw, err := json.Marshal(entries)
	return string(raw), err
}

// customerBook stores the ledger on customers.transactions.
type customerBook struct{}

func (customerBook) name() string                  { return "customer" }
func (customerBook) convention() ledger.Convention { return ledger.CustomerDue }

func (customerBook) lock(ctx context.Context, tx *sql.Tx, id string) (*ledgerOwner, error) {
	var (
		name string
		raw  []byte
	)
	err := tx.QueryRowContext(ctx, `
		SELECT name, transactions FROM customers
		WHERE id = $1
		FOR UPDATE`, id).Scan(&name, &raw)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, err
	}
	return &ledgerOwner{ID: id, Name: name, Entries: entries}, nil
}

func (customerBook) save(ctx context.Context, tx *sql.Tx, owner *ledgerOwner, res ledger.Result) error {
	raw, err := encodeEntries(res.Entries)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE customers SET transactions = $1, current_due = $2
		WHERE id = $3`, raw, res.Balance, owner.ID)
	return err
}

// loanBook stores the ledger on loans.transactions. The opening is
// principal + interest and the initial savings.
type loanBook struct{}

func (loanBook) name() string                  { return "loan" }
func (loanBook) convention() ledger.Convention { return ledger.LoanRepayment }

func (loanBook) lock(ctx context.Context, tx *sql.Tx, id string) (*ledgerOwner, error) {
	var (
		name                         string
		principal, interest, savings float64
		raw                          []byte
	)
	err := tx.QueryRowContext(ctx, `
		SELECT ngo_name, principal, interest, initial_savings, transactions FROM loans
		WHERE id = $1
		FOR UPDATE`, id).Scan(&name, &principal, &interest, &savings, &raw)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, err
	}
	return &ledgerOwner{
		ID:      id,
		Name:    name,
		Opening: ledger.Opening{DebitBase: principal + interest, CreditBase: savings},
		Entries: entries,
	}, nil
}

func (loanBook) save(ctx context.Context, tx *sql.Tx, owner *ledgerOwner, res ledger.Result) error {
	raw, err := encodeEntries(res.Entries)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE loans SET transactions = $1, current_due = $2, total_savings = $3, status = $4
		WHERE id = $5`, raw, res.Balance, res.Secondary, loanStatus(res.Balance), owner.ID)
	return err
}

func loanStatus(due float64) string {
	if due <= 0 {
		return models.LoanClosed
	}
	return models.LoanActive
}
