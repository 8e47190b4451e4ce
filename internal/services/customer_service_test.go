package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedCustomerLedger = `[
	{"id":"e1","ownerId":"c1","date":"2025-11-01","debit":500,"credit":0,"comment":"SIM","balanceAfter":500,"seq":1},
	{"id":"e2","ownerId":"c1","date":"2025-11-05","debit":0,"credit":100,"comment":"cash","balanceAfter":400,"seq":2}
]`

var customerDetailColumns = []string{"id", "name", "number", "address", "image_url", "current_due", "created_at", "transactions"}

func expectCustomerGet(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery("SELECT id, name, number, address, image_url, current_due, created_at, transactions").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(customerDetailColumns).
			AddRow(id, "Karim", "01711111111", "Raigonj", "", 400.0, testNow, []byte(storedCustomerLedger)))
}

func TestCustomerService_Get(t *testing.T) {
	service, mock, _ := newCustomerService(t)
	expectCustomerGet(mock, "c1")

	detail, err := service.Get(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "Karim", detail.Name)
	assert.Equal(t, 500.0, detail.TotalGiven)
	assert.Equal(t, 100.0, detail.TotalReceived)
	require.Len(t, detail.Transactions, 2)
	assert.Equal(t, "e2", detail.Transactions[0].ID, "newest first")
}

func TestCustomerService_GetNotFound(t *testing.T) {
	service, mock, _ := newCustomerService(t)
	mock.ExpectQuery("SELECT id, name, number").WithArgs("x").WillReturnError(sql.ErrNoRows)

	_, err := service.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerService_Create(t *testing.T) {
	t.Run("defaults address", func(t *testing.T) {
		service, mock, rec := newCustomerService(t)
		rec.expect(models.ActionAdd, moduleCustomer)

		mock.ExpectExec("INSERT INTO customers").
			WithArgs(sqlmock.AnyArg(), "Karim", "01711111111", "Unknown", sqlmock.AnyArg(), testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, err := service.Create(context.Background(), models.CustomerRequest{Name: " Karim ", Number: "01711111111"})
		require.NoError(t, err)
		assert.Equal(t, "Unknown", c.Address)
		assert.Contains(t, c.ImageURL, "seed=Karim")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate number", func(t *testing.T) {
		service, mock, _ := newCustomerService(t)
		mock.ExpectExec("INSERT INTO customers").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := service.Create(context.Background(), models.CustomerRequest{Name: "Karim", Number: "017"})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestCustomerService_UpdateProfileNotFound(t *testing.T) {
	service, mock, _ := newCustomerService(t)
	mock.ExpectExec("UPDATE customers SET name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := service.UpdateProfile(context.Background(), "x", models.CustomerRequest{Name: "A", Number: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerService_Delete(t *testing.T) {
	service, mock, rec := newCustomerService(t)
	rec.expect(models.ActionDelete, moduleCustomer)

	mock.ExpectQuery("DELETE FROM customers WHERE id = \\$1 RETURNING name").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Karim"))

	require.NoError(t, service.Delete(context.Background(), "c1"))
	rec.AssertCalled(t, "Record", context.Background(), models.ActionDelete, moduleCustomer, "Deleted customer Karim")
}

func TestCustomerService_Summary(t *testing.T) {
	service, mock, _ := newCustomerService(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "pabo", "pabe"}).AddRow(3, 1500.0, 200.0))

	sum, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CustomerSummary{Count: 3, AmiPabo: 1500, AmarThekePabe: 200}, *sum)
}

func TestCustomerService_WriteLedgerCSV(t *testing.T) {
	service, mock, _ := newCustomerService(t)
	expectCustomerGet(mock, "c1")

	var buf bytes.Buffer
	require.NoError(t, service.WriteLedgerCSV(context.Background(), "c1", &buf))

	assert.Equal(t, "Date,Given,Received,Details,Balance\n"+
		"01-11-2025,500,0,SIM,500\n"+
		"05-11-2025,0,100,cash,400\n", buf.String())
}

func TestCustomerService_WhatsAppLink(t *testing.T) {
	service, mock, _ := newCustomerService(t)
	expectCustomerGet(mock, "c1")

	link, err := service.WhatsAppLink(context.Background(), "c1", "Sinthiya Telecom")
	require.NoError(t, err)
	assert.Contains(t, link, "https://wa.me/8801711111111?text=")
	assert.Contains(t, link, "Karim")
}

func TestWhatsAppURL(t *testing.T) {
	assert.Equal(t, "https://wa.me/8801307085310", WhatsAppURL("01307-085310", ""))
	assert.Equal(t, "https://wa.me/8801711111111?text=hi+there", WhatsAppURL("+8801711111111", "hi there"))
}

func TestCustomerService_ImportCustomers(t *testing.T) {
	service, mock, rec := newCustomerService(t)
	rec.expect(models.ActionSync, moduleCustomer)

	text := "Name,Phone,Address,Due\nKarim,01711111111,Raigonj,500\nRahim,01811111111,,\nKarim again,01711111111,,\nSalma,01922222222,,-200"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WithArgs("01711111111").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO customers").
		WithArgs(sqlmock.AnyArg(), "Karim", "01711111111", "Raigonj", sqlmock.AnyArg(), 500.0, sqlmock.AnyArg(), testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("01811111111").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("01922222222").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO customers").
		WithArgs(sqlmock.AnyArg(), "Salma", "01922222222", "Unknown", sqlmock.AnyArg(), -200.0, sqlmock.AnyArg(), testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	report, err := service.ImportCustomers(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []string{"Karim", "Salma"}, report.Names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerService_ImportCustomersFailureRollsBack(t *testing.T) {
	service, mock, _ := newCustomerService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := service.ImportCustomers(context.Background(), "Karim,017")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerService_ImportLedger(t *testing.T) {
	t.Run("appends rows", func(t *testing.T) {
		service, mock, rec := newCustomerService(t)
		rec.expect(models.ActionSync, moduleCustomer)

		expectCustomerLock(mock, "c1", customerLedger)
		mock.ExpectExec("UPDATE customers SET transactions").
			WithArgs(sqlmock.AnyArg(), 1100.0, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, res, err := service.ImportLedger(context.Background(), "c1",
			"Date\tGiven\tReceived\tDetails\n10/11/2025\t1,000\t\tRecharge\n12-Nov-2025\t\t300\tcash")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.Len(t, res.Entries, 4)
		assert.Equal(t, int64(3), res.Entries[2].Seq)
		assert.Equal(t, int64(4), res.Entries[3].Seq)
	})

	t.Run("nothing to import", func(t *testing.T) {
		service, _, _ := newCustomerService(t)
		_, _, err := service.ImportLedger(context.Background(), "c1", "Date,Given,Received\n")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestOpeningEntry(t *testing.T) {
	owed := openingEntry("c1", "2025-11-20", 500, testNow)
	assert.Equal(t, 500.0, owed.Debit)
	assert.Zero(t, owed.Credit)

	advance := openingEntry("c1", "2025-11-20", -250, testNow)
	assert.Zero(t, advance.Debit)
	assert.Equal(t, 250.0, advance.Credit)
	assert.Equal(t, openingComment, advance.Comment)
}
