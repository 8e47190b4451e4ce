package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryTTL = 5 * time.Minute

func newDashboardService(t *testing.T) (*DashboardService, sqlmock.Sqlmock, redismock.ClientMock, *MockActivityRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, cache := redismock.NewClientMock()
	rec := &MockActivityRecorder{}
	return NewDashboardService(db, rdb, summaryTTL, testDates(), rec, logging.Discard()), mock, cache, rec
}

// expectCompute queues the queries behind one fresh summary.
func expectCompute(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM accounts GROUP BY provider").
		WillReturnRows(sqlmock.NewRows([]string{"provider", "count", "sum"}).
			AddRow(models.ProviderBkash, 2, 15000.0).
			AddRow(models.ProviderHandCash, 1, 5000.0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(current_due\\), 0\\) FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"due"}).AddRow(3000.0))
	mock.ExpectQuery("WHERE current_due > 0 ORDER BY current_due DESC LIMIT \\$1").
		WithArgs(topDebtorLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number", "current_due"}).
			AddRow("c1", "Karim", "01711111111", 3500.0))
	mock.ExpectQuery("GREATEST\\(current_due - total_savings, 0\\)").
		WillReturnRows(sqlmock.NewRows([]string{"loan"}).AddRow(4000.0))
	mock.ExpectQuery("FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"value", "low"}).AddRow(7000.0, 2))
	mock.ExpectQuery("FROM incomes WHERE date >= \\$1 AND date <= \\$2 GROUP BY date").
		WithArgs("2025-11-14", "2025-11-20").
		WillReturnRows(sqlmock.NewRows([]string{"date", "income", "expense"}).
			AddRow("2025-11-18", 1000.0, 0.0).
			AddRow("2025-11-20", 2000.0, -300.0))
	mock.ExpectQuery("SELECT past_cash FROM daily_hisab WHERE date = \\$1").
		WithArgs("2025-11-20").
		WillReturnRows(sqlmock.NewRows([]string{"past_cash"}))
	mock.ExpectQuery("SELECT main_cash FROM daily_hisab WHERE date < \\$1").
		WithArgs("2025-11-20").
		WillReturnRows(sqlmock.NewRows([]string{"main_cash"}).AddRow(20000.0))
}

func TestSettle(t *testing.T) {
	sum := &models.DashboardSummary{WalletTotal: 20000, MarketDue: 3000, StockValue: 7000, TotalLoan: 4000, PastCash: 20000}
	Settle(sum)
	assert.Equal(t, 30000.0, sum.TotalBalance)
	assert.Equal(t, 26000.0, sum.MainCash)
	assert.Equal(t, 6000.0, sum.ProfitLoss)
}

func TestChartDates(t *testing.T) {
	days := chartDates(testNow, 3)
	assert.Equal(t, []string{"2025-11-18", "2025-11-19", "2025-11-20"}, days)
	assert.Equal(t, "dashboard:summary:2025-11-20", summaryKey("2025-11-20"))
}

func TestDashboardService_SummaryFromCache(t *testing.T) {
	service, mock, cache, _ := newDashboardService(t)

	cached, err := json.Marshal(models.DashboardSummary{Date: "2025-11-20", MainCash: 12345})
	require.NoError(t, err)
	cache.ExpectGet(summaryKey("2025-11-20")).SetVal(string(cached))

	sum, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12345.0, sum.MainCash)
	assert.NoError(t, mock.ExpectationsWereMet(), "no queries on a cache hit")
	assert.NoError(t, cache.ExpectationsWereMet())
}

func TestDashboardService_SummaryComputesOnMiss(t *testing.T) {
	service, mock, cache, _ := newDashboardService(t)

	cache.ExpectGet(summaryKey("2025-11-20")).RedisNil()
	expectCompute(mock)
	cache.CustomMatch(func(expected, actual []interface{}) error { return nil }).
		ExpectSet(summaryKey("2025-11-20"), "", summaryTTL).SetVal("OK")

	sum, err := service.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20000.0, sum.WalletTotal)
	assert.Equal(t, 3, sum.WalletCount)
	assert.Equal(t, 30000.0, sum.TotalBalance)
	assert.Equal(t, 26000.0, sum.MainCash)
	assert.Equal(t, 20000.0, sum.PastCash)
	assert.Equal(t, 6000.0, sum.ProfitLoss)
	assert.Equal(t, 2, sum.LowStockCount)
	require.Len(t, sum.TopDebtors, 1)

	require.Len(t, sum.WeeklyIncome, chartDays)
	assert.Equal(t, "2025-11-14", sum.WeeklyIncome[0].Date)
	assert.Zero(t, sum.WeeklyIncome[0].Income)
	assert.Equal(t, 2000.0, sum.TodayIncome)
	assert.Equal(t, -300.0, sum.TodayExpense)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cache.ExpectationsWereMet())
}

func TestDashboardService_SummaryWithoutRedis(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewDashboardService(db, nil, summaryTTL, testDates(), &MockActivityRecorder{}, logging.Discard())
	expectCompute(mock)

	sum, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 26000.0, sum.MainCash)
}

func TestDashboardService_CloseStoresHisab(t *testing.T) {
	service, mock, cache, rec := newDashboardService(t)
	rec.expect(models.ActionSync, moduleDashboard)

	expectCompute(mock)
	mock.ExpectExec("INSERT INTO daily_hisab").
		WithArgs("2025-11-20", 30000.0, 4000.0, 26000.0, 20000.0, 6000.0, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	cache.ExpectDel(summaryKey("2025-11-20")).SetVal(1)

	h, err := service.Close(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6000.0, h.ProfitLoss)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cache.ExpectationsWereMet())
	rec.AssertExpectations(t)
}

func TestDashboardService_SetPastCashInvalidates(t *testing.T) {
	service, mock, cache, rec := newDashboardService(t)
	rec.expect(models.ActionEdit, moduleDashboard)

	mock.ExpectExec("INSERT INTO daily_hisab \\(date, past_cash, last_updated\\)").
		WithArgs("2025-11-20", 18000.0, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	cache.ExpectDel(summaryKey("2025-11-20")).SetVal(1)

	require.NoError(t, service.SetPastCash(context.Background(), 18000))
	assert.NoError(t, cache.ExpectationsWereMet())
}
