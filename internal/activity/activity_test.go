package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 11, 20, 14, 5, 0, 0, time.UTC) }

func TestTaka(t *testing.T) {
	assert.Equal(t, "৳1,250", Taka(1250))
	assert.Equal(t, "৳100,000", Taka(100000))
	assert.Equal(t, "৳99.50", Taka(99.5))
	assert.Equal(t, "৳-500", Taka(-500))
}

func TestLogger_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log, hook := test.NewNullLogger()
	logger := NewLogger(db, log, fixedNow)

	t.Run("inserts row", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO activities").
			WithArgs(sqlmock.AnyArg(), "2025-11-20", "02:05 PM", "ADD", "Customer", "Added customer Karim", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		logger.Record(context.Background(), "ADD", "Customer", "Added customer Karim")
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Empty(t, hook.AllEntries())
	})

	t.Run("failure is logged not returned", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO activities").WillReturnError(errors.New("disk full"))

		logger.Record(context.Background(), "DELETE", "Stock", "Removed GP Sim Normal")
		assert.NoError(t, mock.ExpectationsWereMet())
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})
}

func TestLogger_Today(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log, _ := test.NewNullLogger()
	logger := NewLogger(db, log, fixedNow)
	created := fixedNow()

	mock.ExpectExec("DELETE FROM activities WHERE date < \\$1").
		WithArgs("2025-11-20").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT id, date, time, action, module, details, created_at FROM activities WHERE date = \\$1 AND").
		WithArgs("2025-11-20", "%loan%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "action", "module", "details", "created_at"}).
			AddRow("a2", "2025-11-20", "02:00 PM", "EDIT", "Loan", "Updated BRAC", created).
			AddRow("a1", "2025-11-20", "09:00 AM", "ADD", "Loan", "Added BRAC", created.Add(-5*time.Hour)))

	items, err := logger.Today(context.Background(), " loan ")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a2", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
