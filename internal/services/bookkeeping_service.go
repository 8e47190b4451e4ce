package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
)

const (
	moduleIncome  = "Income"
	moduleExpense = "Expense"
	moduleRent    = "Rent"
)

// BookkeepingService covers daily income lines, shop expenses and rent.
type BookkeepingService struct {
	db       *sql.DB
	dates    *dateutil.Normalizer
	activity ActivityRecorder
}

func NewBookkeepingService(db *sql.DB, dates *dateutil.Normalizer, rec ActivityRecorder) *BookkeepingService {
	return &BookkeepingService{db: db, dates: dates, activity: rec}
}

// monthFilter appends a YYYY-MM prefix match on date when month is set.
func monthFilter(query string, month string) (string, []any) {
	if month = strings.TrimSpace(month); month == "" {
		return query, nil
	}
	return query + ` WHERE date LIKE $1`, []any{month + "%"}
}

func (s *BookkeepingService) deleteRow(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return expectOneRow(res, nil, kind, id)
}

// Incomes lists income lines newest first, optionally for one month.
func (s *BookkeepingService) Incomes(ctx context.Context, month string) ([]models.Income, error) {
	query, args := monthFilter(`SELECT id, date, income, expense, source, description, created_at FROM incomes`, month)
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		var i models.Income
		if err := rows.Scan(&i.ID, &i.Date, &i.Income, &i.Expense, &i.Source, &i.Description, &i.CreatedAt); err != nil {
			return nil, err
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

func (s *BookkeepingService) CreateIncome(ctx context.Context, req models.IncomeRequest) (*models.Income, error) {
	i := models.Income{
		ID:          uuid.NewString(),
		Date:        s.dates.ISO(req.Date),
		Income:      req.Income,
		Expense:     req.Expense,
		Source:      defaultString(strings.TrimSpace(req.Source), models.DefaultIncomeSource),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.dates.Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incomes (id, date, income, expense, source, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		i.ID, i.Date, i.Income, i.Expense, i.Source, i.Description, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleIncome, fmt.Sprintf("Income %s for %s", activity.Taka(i.Income), i.Date))
	return &i, nil
}

func (s *BookkeepingService) UpdateIncome(ctx context.Context, id string, req models.IncomeRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE incomes SET date = $1, income = $2, expense = $3, source = $4, description = $5
		WHERE id = $6`,
		s.dates.ISO(req.Date), req.Income, req.Expense,
		defaultString(strings.TrimSpace(req.Source), models.DefaultIncomeSource), strings.TrimSpace(req.Description), id)
	if err := expectOneRow(res, err, "income", id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionEdit, moduleIncome, "Updated income "+id)
	return nil
}

func (s *BookkeepingService) DeleteIncome(ctx context.Context, id string) error {
	if err := s.deleteRow(ctx, "incomes", "income", id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionDelete, moduleIncome, "Deleted income "+id)
	return nil
}

// IncomeSummary returns today's figures and the running profit/loss of all
// closed days.
func (s *BookkeepingService) IncomeSummary(ctx context.Context) (*models.IncomeSummary, error) {
	var sum models.IncomeSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(income), 0), COALESCE(SUM(expense), 0)
		FROM incomes WHERE date = $1`, s.dates.Today()).Scan(&sum.TodayIncome, &sum.TodayExpense)
	if err != nil {
		return nil, fmt.Errorf("today income: %w", err)
	}
	sum.TodayNet = sum.TodayIncome + sum.TodayExpense

	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(profit_loss), 0) FROM daily_hisab`).Scan(&sum.TotalProfitLoss)
	if err != nil {
		return nil, fmt.Errorf("total profit/loss: %w", err)
	}
	return &sum, nil
}

func (s *BookkeepingService) Expenses(ctx context.Context, month string) ([]models.Expense, error) {
	query, args := monthFilter(`SELECT id, date, amount, category, description, created_at FROM expenses`, month)
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.Category, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *BookkeepingService) CreateExpense(ctx context.Context, req models.ExpenseRequest) (*models.Expense, error) {
	e := models.Expense{
		ID:          uuid.NewString(),
		Date:        s.dates.ISO(req.Date),
		Amount:      req.Amount,
		Category:    defaultString(strings.TrimSpace(req.Category), "Others"),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.dates.Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, date, amount, category, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Date, e.Amount, e.Category, e.Description, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleExpense, fmt.Sprintf("%s: %s", e.Category, activity.Taka(e.Amount)))
	return &e, nil
}

func (s *BookkeepingService) UpdateExpense(ctx context.Context, id string, req models.ExpenseRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET date = $1, amount = $2, category = $3, description = $4
		WHERE id = $5`,
		s.dates.ISO(req.Date), req.Amount, defaultString(strings.TrimSpace(req.Category), "Others"),
		strings.TrimSpace(req.Description), id)
	if err := expectOneRow(res, err, "expense", id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionEdit, moduleExpense, "Updated expense "+id)
	return nil
}

func (s *BookkeepingService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.deleteRow(ctx, "expenses", "expense", id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionDelete, moduleExpense, "Deleted expense "+id)
	return nil
}

// ExpenseTotals sums expenses for today, the current month and overall.
func (s *BookkeepingService) ExpenseTotals(ctx context.Context) (*models.ExpenseTotals, error) {
	today := s.dates.Today()
	var t models.ExpenseTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE date = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE date LIKE $2), 0),
			COALESCE(SUM(amount), 0)
		FROM expenses`, today, dateutil.Month(today)+"%").Scan(&t.Today, &t.Month, &t.Grand)
	if err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}
	return &t, nil
}

func (s *BookkeepingService) RentPayments(ctx context.Context, month string) ([]models.RentPayment, error) {
	query, args := monthFilter(`SELECT id, date, amount, type, comment, created_at FROM rent_history`, month)
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list rent: %w", err)
	}
	defer rows.Close()
	return scanRentRows(rows)
}

// LatestRent returns the most recent payment of each rent type.
func (s *BookkeepingService) LatestRent(ctx context.Context) ([]models.RentPayment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ON (type) id, date, amount, type, comment, created_at
		FROM rent_history ORDER BY type, date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("latest rent: %w", err)
	}
	defer rows.Close()
	return scanRentRows(rows)
}

func scanRentRows(rows *sql.Rows) ([]models.RentPayment, error) {
	payments := []models.RentPayment{}
	for rows.Next() {
		var r models.RentPayment
		if err := rows.Scan(&r.ID, &r.Date, &r.Amount, &r.Type, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, r)
	}
	return payments, rows.Err()
}

func (s *BookkeepingService) CreateRent(ctx context.Context, req models.RentRequest) (*models.RentPayment, error) {
	r := models.RentPayment{
		ID:        uuid.NewString(),
		Date:      s.dates.ISO(req.Date),
		Amount:    req.Amount,
		Type:      req.Type,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: s.dates.Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rent_history (id, date, amount, type, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.Date, r.Amount, r.Type, r.Comment, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create rent: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleRent, fmt.Sprintf("%s paid %s", r.Type, activity.Taka(r.Amount)))
	return &r, nil
}

func (s *BookkeepingService) UpdateRent(ctx context.Context, id string, req models.RentRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rent_history SET date = $1, amount = $2, type = $3, comment = $4
		WHERE id = $5`, s.dates.ISO(req.Date), req.Amount, req.Type, strings.TrimSpace(req.Comment), id)
	if err := expectOneRow(res, err, "rent payment", id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionEdit, moduleRent, "Updated rent payment "+id)
	return nil
}

func (s *BookkeepingService) DeleteRent(ctx context.Context, id string) error {
	if err := s.deleteRow(ctx, "rent_history", "rent payment", id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionDelete, moduleRent, "Deleted rent payment "+id)
	return nil
}
