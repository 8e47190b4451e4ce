package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/stretchr/testify/mock"
)

type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) Record(ctx context.Context, action, module, details string) {
	m.Called(ctx, action, module, details)
}

// expect allows any details text for action on module.
func (m *MockActivityRecorder) expect(action, module string) *mock.Call {
	return m.On("Record", mock.Anything, action, module, mock.AnythingOfType("string"))
}

func (m *MockActivityRecorder) expectDetails(action, module, details string) *mock.Call {
	return m.On("Record", mock.Anything, action, module, details)
}

var testNow = time.Date(2025, 11, 20, 10, 30, 0, 0, time.UTC)

func testDates() *dateutil.Normalizer {
	return dateutil.New(func() time.Time { return testNow })
}

func testLedgerStore(db *sql.DB, dates *dateutil.Normalizer) *LedgerStore {
	return NewLedgerStore(db, ledger.NewEngine(dates), logging.Discard())
}
