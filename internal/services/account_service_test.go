package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountCols = []string{"id", "sl_number", "provider", "type", "number", "balance", "last_daily_update"}

func newAccountService(t *testing.T) (*AccountService, sqlmock.Sqlmock, *MockActivityRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &MockActivityRecorder{}
	return NewAccountService(db, testDates(), rec, logging.Discard()), mock, rec
}

func TestAccountService_List(t *testing.T) {
	service, mock, _ := newAccountService(t)
	mock.ExpectQuery("FROM accounts WHERE provider = \\$1 ORDER BY provider, sl_number").
		WithArgs(models.ProviderBkash).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow("a1", 1, models.ProviderBkash, "Agent", "01892251000", 15000.0, nil).
			AddRow("a2", 2, models.ProviderBkash, "Personal", "01700000000", 500.0, testNow))

	accounts, err := service.List(context.Background(), models.ProviderBkash)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Nil(t, accounts[0].LastDailyUpdate)
	require.NotNil(t, accounts[1].LastDailyUpdate)
	assert.True(t, accounts[1].LastDailyUpdate.Equal(testNow))
}

func TestAccountService_Totals(t *testing.T) {
	service, mock, _ := newAccountService(t)
	mock.ExpectQuery("FROM accounts GROUP BY provider").
		WillReturnRows(sqlmock.NewRows([]string{"provider", "count", "sum"}).
			AddRow(models.ProviderBkash, 2, 15500.0).
			AddRow(models.ProviderHandCash, 1, 4000.0))

	totals, err := service.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, totals.Count)
	assert.Equal(t, 19500.0, totals.GrandTotal)
	assert.Len(t, totals.Providers, len(models.Providers))
	assert.Zero(t, totals.Providers[models.ProviderNagad])
}

func TestAccountService_Closing(t *testing.T) {
	t.Run("updates balances and snapshots", func(t *testing.T) {
		service, mock, rec := newAccountService(t)
		rec.expect(models.ActionSync, moduleAccount)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance = \\$1, last_daily_update = \\$2").
			WithArgs(12000.0, testNow, "a1", models.ProviderBkash).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(800.0, testNow, "a2", models.ProviderBkash).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("FROM accounts WHERE provider = \\$1 ORDER BY sl_number").
			WithArgs(models.ProviderBkash).
			WillReturnRows(sqlmock.NewRows(accountCols).
				AddRow("a1", 1, models.ProviderBkash, "Agent", "01892251000", 12000.0, testNow).
				AddRow("a2", 2, models.ProviderBkash, "Personal", "01700000000", 800.0, testNow))
		mock.ExpectExec("INSERT INTO balance_history").
			WithArgs("2025-11-20", models.ProviderBkash, sqlmock.AnyArg(), testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		snap, err := service.Closing(context.Background(), models.ProviderBkash, models.ClosingRequest{
			Balances: []models.ClosingBalance{{ID: "a1", Balance: 12000}, {ID: "a2", Balance: 800}},
		})
		require.NoError(t, err)
		assert.Equal(t, 12800.0, snap.TotalBalance)
		assert.Len(t, snap.Accounts, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign account aborts the closing", func(t *testing.T) {
		service, mock, _ := newAccountService(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(100.0, testNow, "n1", models.ProviderBkash).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := service.Closing(context.Background(), models.ProviderBkash, models.ClosingRequest{
			Balances: []models.ClosingBalance{{ID: "n1", Balance: 100}},
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown provider", func(t *testing.T) {
		service, _, _ := newAccountService(t)
		_, err := service.Closing(context.Background(), "upay", models.ClosingRequest{})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestAccountService_History(t *testing.T) {
	service, mock, _ := newAccountService(t)
	closings := `{"bkash":{"provider":"bkash","timestamp":"2025-11-20T10:30:00Z","totalBalance":12800,"accounts":[]}}`
	mock.ExpectQuery("FROM balance_history ORDER BY date DESC LIMIT \\$1").
		WithArgs(historyDays).
		WillReturnRows(sqlmock.NewRows([]string{"date", "closings", "last_updated"}).
			AddRow("2025-11-20", []byte(closings), testNow))

	history, err := service.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 12800.0, history[0].Closings[models.ProviderBkash].TotalBalance)
}

func TestAccountService_DeleteNotFound(t *testing.T) {
	service, mock, _ := newAccountService(t)
	mock.ExpectQuery("DELETE FROM accounts").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"provider", "number"}))

	assert.ErrorIs(t, service.Delete(context.Background(), "gone"), ErrNotFound)
}
