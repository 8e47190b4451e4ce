package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/models"
)

const moduleLoan = "Loan"

const loanColumns = `id, ngo_name, loan_ref, date, type, principal, interest, initial_savings,
	current_due, total_savings, status, created_at`

type LoanService struct {
	db       *sql.DB
	ledger   *LedgerStore
	dates    *dateutil.Normalizer
	activity ActivityRecorder
}

func NewLoanService(db *sql.DB, store *LedgerStore, dates *dateutil.Normalizer, rec ActivityRecorder) *LoanService {
	return &LoanService{db: db, ledger: store, dates: dates, activity: rec}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner, extra ...any) (models.Loan, error) {
	var l models.Loan
	dest := []any{&l.ID, &l.NGOName, &l.LoanRef, &l.Date, &l.Type, &l.Principal, &l.Interest,
		&l.InitialSavings, &l.CurrentDue, &l.TotalSavings, &l.Status, &l.CreatedAt}
	err := row.Scan(append(dest, extra...)...)
	return l, err
}

// List returns loans newest first. Search matches NGO name or loan reference.
func (s *LoanService) List(ctx context.Context, search string) ([]models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE ngo_name ILIKE $1 OR loan_ref ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// Get returns the loan with its installments newest first.
func (s *LoanService) Get(ctx context.Context, id string) (*models.LoanDetail, error) {
	var raw []byte
	l, err := scanLoan(s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+`, transactions FROM loans WHERE id = $1`, id), &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, err
	}
	deposit, _ := ledger.Totals(entries)

	return &models.LoanDetail{
		Loan:         l,
		Installments: models.LoanInstallments(entries),
		TotalDeposit: deposit,
	}, nil
}

// Create records a new loan. The whole payable is due until installments
// arrive.
func (s *LoanService) Create(ctx context.Context, req models.LoanRequest) (*models.Loan, error) {
	l := models.Loan{
		ID:             uuid.NewString(),
		NGOName:        strings.TrimSpace(req.NGOName),
		LoanRef:        strings.TrimSpace(req.LoanRef),
		Date:           s.dates.ISO(req.Date),
		Type:           models.LoanTaken,
		Principal:      req.Principal,
		Interest:       req.Interest,
		InitialSavings: req.InitialSavings,
		TotalSavings:   req.InitialSavings,
		CreatedAt:      s.dates.Now(),
	}
	l.CurrentDue = l.TotalPayable()
	l.Status = loanStatus(l.CurrentDue)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (id, ngo_name, loan_ref, date, type, principal, interest, initial_savings,
			current_due, total_savings, status, transactions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '[]', $12)`,
		l.ID, l.NGOName, l.LoanRef, l.Date, l.Type, l.Principal, l.Interest, l.InitialSavings,
		l.CurrentDue, l.TotalSavings, l.Status, l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleLoan, fmt.Sprintf("Added loan from %s (%s)", l.NGOName, activity.Taka(l.Principal)))
	return &l, nil
}

// UpdateProfile changes the loan terms and recomputes the installments
// against the new opening.
func (s *LoanService) UpdateProfile(ctx context.Context, id string, req models.LoanRequest) (ledger.Result, error) {
	name := strings.TrimSpace(req.NGOName)
	res, err := s.ledger.Mutate(ctx, loanBook{}, id, func(ctx context.Context, tx *sql.Tx, owner *ledgerOwner) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE loans SET ngo_name = $1, loan_ref = $2, date = $3, principal = $4, interest = $5, initial_savings = $6
			WHERE id = $7`,
			name, strings.TrimSpace(req.LoanRef), s.dates.ISO(req.Date), req.Principal, req.Interest, req.InitialSavings, id)
		if err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		owner.Opening = ledger.Opening{DebitBase: req.Principal + req.Interest, CreditBase: req.InitialSavings}
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionEdit, moduleLoan, "Updated loan "+name)
	return res, nil
}

func (s *LoanService) Delete(ctx context.Context, id string) error {
	var name string
	err := s.db.QueryRowContext(ctx, `DELETE FROM loans WHERE id = $1 RETURNING ngo_name`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}

	s.activity.Record(ctx, models.ActionDelete, moduleLoan, "Deleted loan "+name)
	return nil
}

// AddEntry records an installment: deposit reduces the due, savings grow the
// savings balance.
func (s *LoanService) AddEntry(ctx context.Context, id string, req models.LoanEntryRequest) (ledger.Result, error) {
	var name string
	res, err := s.ledger.Mutate(ctx, loanBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		owner.Entries = append(owner.Entries, ledger.Entry{
			ID:        uuid.NewString(),
			OwnerID:   id,
			Date:      req.Date,
			Debit:     req.Deposit,
			Credit:    req.Savings,
			Comment:   strings.TrimSpace(req.Comment),
			Seq:       ledger.NextSeq(owner.Entries),
			CreatedAt: s.dates.Now(),
		})
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionAdd, moduleLoan, fmt.Sprintf("Installment for %s: deposit %s, savings %s",
		name, activity.Taka(req.Deposit), activity.Taka(req.Savings)))
	return res, nil
}

func (s *LoanService) EditEntry(ctx context.Context, id, entryID string, req models.LoanEntryRequest) (ledger.Result, error) {
	var name string
	res, err := s.ledger.Mutate(ctx, loanBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		i := ledger.Find(owner.Entries, entryID)
		if i < 0 {
			return fmt.Errorf("installment %s: %w", entryID, ErrNotFound)
		}
		owner.Entries[i].Date = req.Date
		owner.Entries[i].Debit = req.Deposit
		owner.Entries[i].Credit = req.Savings
		owner.Entries[i].Comment = strings.TrimSpace(req.Comment)
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionEdit, moduleLoan, "Edited installment of "+name)
	return res, nil
}

func (s *LoanService) DeleteEntry(ctx context.Context, id, entryID string) (ledger.Result, error) {
	var name string
	res, err := s.ledger.Mutate(ctx, loanBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		i := ledger.Find(owner.Entries, entryID)
		if i < 0 {
			return fmt.Errorf("installment %s: %w", entryID, ErrNotFound)
		}
		owner.Entries = append(owner.Entries[:i], owner.Entries[i+1:]...)
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionDelete, moduleLoan, "Deleted installment of "+name)
	return res, nil
}

// Totals sums dues and savings across every loan.
func (s *LoanService) Totals(ctx context.Context) (*models.LoanTotals, error) {
	var t models.LoanTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COALESCE(SUM(current_due), 0),
			COALESCE(SUM(total_savings), 0)
		FROM loans`, models.LoanActive).Scan(&t.Count, &t.ActiveCount, &t.TotalDue, &t.TotalSavings)
	if err != nil {
		return nil, fmt.Errorf("loan totals: %w", err)
	}
	return &t, nil
}

// WriteLedgerCSV writes the installments oldest first.
func (s *LoanService) WriteLedgerCSV(ctx context.Context, id string, w io.Writer) error {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	rows := make([]models.LoanInstallment, len(detail.Installments))
	for i, inst := range detail.Installments {
		inst.Date = dateutil.ToDisplay(inst.Date)
		rows[len(rows)-1-i] = inst
	}
	return gocsv.Marshal(rows, w)
}
