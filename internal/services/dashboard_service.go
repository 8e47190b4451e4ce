package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	moduleDashboard = "Dashboard"

	topDebtorLimit = 10
	chartDays      = 7
)

// DashboardService builds the daily hisab. Summaries are cached in Redis
// per day when a client is configured.
type DashboardService struct {
	db       *sql.DB
	redis    *redis.Client
	ttl      time.Duration
	dates    *dateutil.Normalizer
	activity ActivityRecorder
	log      logrus.FieldLogger
}

func NewDashboardService(db *sql.DB, rdb *redis.Client, ttl time.Duration, dates *dateutil.Normalizer, rec ActivityRecorder, log logrus.FieldLogger) *DashboardService {
	return &DashboardService{
		db:       db,
		redis:    rdb,
		ttl:      ttl,
		dates:    dates,
		activity: rec,
		log:      log.WithField("module", "dashboard"),
	}
}

func summaryKey(date string) string {
	return "dashboard:summary:" + date
}

// Settle derives the cash position from the collected figures.
func Settle(sum *models.DashboardSummary) {
	sum.TotalBalance = sum.WalletTotal + sum.MarketDue + sum.StockValue
	sum.MainCash = sum.TotalBalance - sum.TotalLoan
	sum.ProfitLoss = sum.MainCash - sum.PastCash
}

// chartDates returns the ISO dates of the last n days ending today.
func chartDates(now time.Time, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = dateutil.ToISO(now.AddDate(0, 0, i-n+1))
	}
	return out
}

// Summary returns today's hisab, from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	today := s.dates.Today()
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, summaryKey(today)).Bytes()
		if err == nil {
			var sum models.DashboardSummary
			if err := json.Unmarshal(raw, &sum); err == nil {
				return &sum, nil
			}
		} else if err != redis.Nil {
			s.log.WithError(err).Warn("dashboard cache read failed")
		}
	}

	sum, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		raw, err := json.Marshal(sum)
		if err == nil {
			err = s.redis.Set(ctx, summaryKey(today), raw, s.ttl).Err()
		}
		if err != nil {
			s.log.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return sum, nil
}

func (s *DashboardService) compute(ctx context.Context) (*models.DashboardSummary, error) {
	now := s.dates.Now()
	today := dateutil.ToISO(now)
	sum := &models.DashboardSummary{
		Date:             today,
		WalletByProvider: make(map[string]float64, len(models.Providers)),
		TopDebtors:       []models.Debtor{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, COUNT(*), COALESCE(SUM(balance), 0)
		FROM accounts GROUP BY provider`)
	if err != nil {
		return nil, fmt.Errorf("wallet totals: %w", err)
	}
	for rows.Next() {
		var (
			provider string
			count    int
			total    float64
		)
		if err := rows.Scan(&provider, &count, &total); err != nil {
			rows.Close()
			return nil, err
		}
		sum.WalletByProvider[provider] = total
		sum.WalletCount += count
		sum.WalletTotal += total
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(current_due), 0) FROM customers`).Scan(&sum.MarketDue); err != nil {
		return nil, fmt.Errorf("market due: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, name, number, current_due FROM customers
		WHERE current_due > 0 ORDER BY current_due DESC LIMIT $1`, topDebtorLimit)
	if err != nil {
		return nil, fmt.Errorf("top debtors: %w", err)
	}
	for rows.Next() {
		var d models.Debtor
		if err := rows.Scan(&d.ID, &d.Name, &d.Number, &d.CurrentDue); err != nil {
			rows.Close()
			return nil, err
		}
		sum.TopDebtors = append(sum.TopDebtors, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A loan only weighs on cash by what savings will not cover.
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(GREATEST(current_due - total_savings, 0)), 0) FROM loans`).Scan(&sum.TotalLoan)
	if err != nil {
		return nil, fmt.Errorf("loan due: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_value), 0), COUNT(*) FILTER (WHERE stock <= min_stock)
		FROM products`).Scan(&sum.StockValue, &sum.LowStockCount)
	if err != nil {
		return nil, fmt.Errorf("stock value: %w", err)
	}

	days := chartDates(now, chartDays)
	byDate := make(map[string]models.ChartPoint, chartDays)
	rows, err = s.db.QueryContext(ctx, `
		SELECT date, COALESCE(SUM(income), 0), COALESCE(SUM(expense), 0)
		FROM incomes WHERE date >= $1 AND date <= $2 GROUP BY date`, days[0], today)
	if err != nil {
		return nil, fmt.Errorf("weekly income: %w", err)
	}
	for rows.Next() {
		var p models.ChartPoint
		if err := rows.Scan(&p.Date, &p.Income, &p.Expense); err != nil {
			rows.Close()
			return nil, err
		}
		byDate[p.Date] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sum.WeeklyIncome = make([]models.ChartPoint, 0, chartDays)
	for _, d := range days {
		p := byDate[d]
		p.Date = d
		sum.WeeklyIncome = append(sum.WeeklyIncome, p)
	}
	last := sum.WeeklyIncome[len(sum.WeeklyIncome)-1]
	sum.TodayIncome, sum.TodayExpense = last.Income, last.Expense

	if sum.PastCash, err = s.pastCash(ctx, today); err != nil {
		return nil, err
	}

	Settle(sum)
	return sum, nil
}

// pastCash is today's stored value, else the previous closing's main cash.
func (s *DashboardService) pastCash(ctx context.Context, today string) (float64, error) {
	var v float64
	err := s.db.QueryRowContext(ctx, `SELECT past_cash FROM daily_hisab WHERE date = $1`, today).Scan(&v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("past cash: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT main_cash FROM daily_hisab WHERE date < $1
		ORDER BY date DESC LIMIT 1`, today).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("previous main cash: %w", err)
	}
	return v, nil
}

func (s *DashboardService) invalidate(ctx context.Context, date string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryKey(date)).Err(); err != nil {
		s.log.WithError(err).Warn("dashboard cache invalidation failed")
	}
}

// Close stores today's hisab from fresh figures.
func (s *DashboardService) Close(ctx context.Context) (*models.DailyHisab, error) {
	sum, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	h := &models.DailyHisab{
		Date:         sum.Date,
		TotalBalance: sum.TotalBalance,
		TotalLoan:    sum.TotalLoan,
		MainCash:     sum.MainCash,
		PastCash:     sum.PastCash,
		ProfitLoss:   sum.ProfitLoss,
		LastUpdated:  s.dates.Now(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_hisab (date, total_balance, total_loan, main_cash, past_cash, profit_loss, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date) DO UPDATE
		SET total_balance = EXCLUDED.total_balance, total_loan = EXCLUDED.total_loan, main_cash = EXCLUDED.main_cash,
			past_cash = EXCLUDED.past_cash, profit_loss = EXCLUDED.profit_loss, last_updated = EXCLUDED.last_updated`,
		h.Date, h.TotalBalance, h.TotalLoan, h.MainCash, h.PastCash, h.ProfitLoss, h.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("save daily hisab: %w", err)
	}

	s.invalidate(ctx, h.Date)
	s.activity.Record(ctx, models.ActionSync, moduleDashboard, fmt.Sprintf("Closed %s: main cash %s, profit/loss %s",
		h.Date, activity.Taka(h.MainCash), activity.Taka(h.ProfitLoss)))
	return h, nil
}

// SetPastCash overrides today's opening cash.
func (s *DashboardService) SetPastCash(ctx context.Context, amount float64) error {
	today := s.dates.Today()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_hisab (date, past_cash, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (date) DO UPDATE
		SET past_cash = EXCLUDED.past_cash, profit_loss = daily_hisab.main_cash - EXCLUDED.past_cash,
			last_updated = EXCLUDED.last_updated`,
		today, amount, s.dates.Now())
	if err != nil {
		return fmt.Errorf("set past cash: %w", err)
	}

	s.invalidate(ctx, today)
	s.activity.Record(ctx, models.ActionEdit, moduleDashboard, "Past cash set to "+activity.Taka(amount))
	return nil
}
