package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedLoanLedger = `[
	{"id":"i1","ownerId":"l1","date":"2025-11-08","debit":1100,"credit":100,"comment":"first","balanceAfter":9900,"seq":1}
]`

var loanDetailColumns = []string{"id", "ngo_name", "loan_ref", "date", "type", "principal", "interest",
	"initial_savings", "current_due", "total_savings", "status", "created_at", "transactions"}

func newLoanService(t *testing.T) (*LoanService, sqlmock.Sqlmock, *MockActivityRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &MockActivityRecorder{}
	dates := testDates()
	return NewLoanService(db, testLedgerStore(db, dates), dates, rec), mock, rec
}

func expectLoanGet(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery("FROM loans WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(loanDetailColumns).
			AddRow(id, "BRAC", "L-1", "2025-11-01", models.LoanTaken, 10000.0, 1000.0, 500.0,
				9900.0, 600.0, models.LoanActive, testNow, []byte(storedLoanLedger)))
}

func TestLoanService_Create(t *testing.T) {
	service, mock, rec := newLoanService(t)
	rec.expect(models.ActionAdd, moduleLoan)

	mock.ExpectExec("INSERT INTO loans").
		WithArgs(sqlmock.AnyArg(), "BRAC", "L-1", "2025-11-01", models.LoanTaken, 10000.0, 1000.0, 500.0,
			11000.0, 500.0, models.LoanActive, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	l, err := service.Create(context.Background(), models.LoanRequest{
		NGOName: " BRAC ", LoanRef: "L-1", Date: "01/11/2025",
		Principal: 10000, Interest: 1000, InitialSavings: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 11000.0, l.CurrentDue)
	assert.Equal(t, models.LoanActive, l.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanService_Get(t *testing.T) {
	service, mock, _ := newLoanService(t)
	expectLoanGet(mock, "l1")

	detail, err := service.Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "BRAC", detail.NGOName)
	assert.Equal(t, 1100.0, detail.TotalDeposit)
	require.Len(t, detail.Installments, 1)
	assert.Equal(t, 100.0, detail.Installments[0].Savings)
}

func TestLoanService_UpdateProfileRecomputes(t *testing.T) {
	service, mock, rec := newLoanService(t)
	rec.expect(models.ActionEdit, moduleLoan)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ngo_name, principal, interest, initial_savings, transactions FROM loans").
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"ngo_name", "principal", "interest", "initial_savings", "transactions"}).
			AddRow("BRAC", 10000.0, 1000.0, 500.0, []byte(storedLoanLedger)))
	mock.ExpectExec("UPDATE loans SET ngo_name").
		WithArgs("BRAC", "L-1", "2025-11-01", 20000.0, 2000.0, 0.0, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE loans SET transactions").
		WithArgs(sqlmock.AnyArg(), 20900.0, 100.0, models.LoanActive, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := service.UpdateProfile(context.Background(), "l1", models.LoanRequest{
		NGOName: "BRAC", LoanRef: "L-1", Date: "2025-11-01", Principal: 20000, Interest: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, 20900.0, res.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanService_PaidOffLoanCloses(t *testing.T) {
	service, mock, rec := newLoanService(t)
	rec.expect(models.ActionAdd, moduleLoan)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ngo_name, principal, interest, initial_savings, transactions FROM loans").
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"ngo_name", "principal", "interest", "initial_savings", "transactions"}).
			AddRow("BRAC", 10000.0, 1000.0, 500.0, []byte(storedLoanLedger)))
	mock.ExpectExec("UPDATE loans SET transactions").
		WithArgs(sqlmock.AnyArg(), 0.0, 600.0, models.LoanClosed, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := service.AddEntry(context.Background(), "l1", models.LoanEntryRequest{Date: "2025-11-15", Deposit: 9900})
	require.NoError(t, err)
	assert.Zero(t, res.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanService_Totals(t *testing.T) {
	service, mock, _ := newLoanService(t)
	mock.ExpectQuery("FROM loans").
		WithArgs(models.LoanActive).
		WillReturnRows(sqlmock.NewRows([]string{"count", "active", "due", "savings"}).AddRow(3, 2, 45000.0, 3000.0))

	totals, err := service.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.LoanTotals{Count: 3, ActiveCount: 2, TotalDue: 45000, TotalSavings: 3000}, *totals)
}

func TestLoanService_WriteLedgerCSV(t *testing.T) {
	service, mock, _ := newLoanService(t)
	expectLoanGet(mock, "l1")

	var buf bytes.Buffer
	require.NoError(t, service.WriteLedgerCSV(context.Background(), "l1", &buf))
	assert.Equal(t, "Date,Deposit,Savings,Comment,Due After\n08-11-2025,1100,100,first,9900\n", buf.String())
}

func TestLoanService_DeleteEntryUnknown(t *testing.T) {
	service, mock, _ := newLoanService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ngo_name, principal, interest, initial_savings, transactions FROM loans").
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"ngo_name", "principal", "interest", "initial_savings", "transactions"}).
			AddRow("BRAC", 10000.0, 1000.0, 500.0, []byte(storedLoanLedger)))
	mock.ExpectRollback()

	_, err := service.DeleteEntry(context.Background(), "l1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoanService_DeleteEntryLogsLender(t *testing.T) {
	service, mock, rec := newLoanService(t)
	rec.expectDetails(models.ActionDelete, moduleLoan, "Deleted installment of BRAC")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ngo_name, principal, interest, initial_savings, transactions FROM loans").
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"ngo_name", "principal", "interest", "initial_savings", "transactions"}).
			AddRow("BRAC", 10000.0, 1000.0, 500.0, []byte(storedLoanLedger)))
	mock.ExpectExec("UPDATE loans SET transactions").
		WithArgs(sqlmock.AnyArg(), 11000.0, 500.0, models.LoanActive, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := service.DeleteEntry(context.Background(), "l1", "i1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	rec.AssertExpectations(t)
}
