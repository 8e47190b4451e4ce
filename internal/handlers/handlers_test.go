package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, string, string, string) {}

var testDates = dateutil.New(func() time.Time { return time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC) })

func customerRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, *test.Hook) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, hook := test.NewNullLogger()
	store := services.NewLedgerStore(db, ledger.NewEngine(testDates), log)
	h := NewCustomerHandler(services.NewCustomerService(db, store, testDates, nopRecorder{}, log), "Sinthiya Telecom", log)

	r := chi.NewRouter()
	r.Route("/customers", h.Routes)
	return r, mock, hook
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	return w
}

func TestCustomerHandler_StorageFailureIsLogged(t *testing.T) {
	router, mock, hook := customerRouter(t)
	mock.ExpectQuery("FROM customers").WillReturnError(errors.New("connection reset"))

	w := do(router, "GET", "/customers", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load customers; please retry")
	assert.NotContains(t, w.Body.String(), "connection reset")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "/customers", hook.LastEntry().Data["path"])
}

func TestCustomerHandler_NotFound(t *testing.T) {
	router, mock, hook := customerRouter(t)
	mock.ExpectQuery("FROM customers").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	w := do(router, "GET", "/customers/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, hook.AllEntries())
}

func TestCustomerHandler_AddEntry(t *testing.T) {
	t.Run("rejects negative amounts", func(t *testing.T) {
		router, _, _ := customerRouter(t)
		w := do(router, "POST", "/customers/c1/transactions", map[string]any{"date": "2025-11-20", "given": -5})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Given")
	})

	t.Run("returns the recomputed ledger", func(t *testing.T) {
		router, mock, _ := customerRouter(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name, transactions FROM customers").
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"name", "transactions"}).AddRow("Karim", []byte("[]")))
		mock.ExpectExec("UPDATE customers SET transactions").
			WithArgs(sqlmock.AnyArg(), 500.0, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := do(router, "POST", "/customers/c1/transactions", map[string]any{"date": "20/11/2025", "given": 500})

		assert.Equal(t, http.StatusCreated, w.Code)
		var res ledger.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 500.0, res.Balance)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, "2025-11-20", res.Entries[0].Date)
	})
}

func memoRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, _ := test.NewNullLogger()
	h := NewMemoHandler(services.NewMemoService(db, testDates, nopRecorder{}, "Sinthiya Telecom"), log)

	r := chi.NewRouter()
	r.Route("/memos", h.Routes)
	return r, mock
}

func TestMemoHandler_Words(t *testing.T) {
	router, _ := memoRouter(t)

	w := do(router, "GET", "/memos/words?amount=500&lang=bn", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"words":"পাঁচ শত টাকা মাত্র"}`, w.Body.String())

	w = do(router, "GET", "/memos/words?amount=12.5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, amount := range []string{"-1", "-9223372036854775808"} {
		w = do(router, "GET", "/memos/words?amount="+amount, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "amount=%s", amount)
	}
}

func TestMemoHandler_QR(t *testing.T) {
	router, mock := memoRouter(t)
	mock.ExpectQuery("FROM memos WHERE id = \\$1").
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "customer_phone", "customer_address", "date", "items", "subtotal", "language", "created_at"}).
			AddRow("m1", "Karim", "", "", "2025-11-20", []byte(`[]`), 0.0, "en", time.Now()))

	w := do(router, "GET", "/memos/m1/qr", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestPublicHandler(t *testing.T) {
	log, _ := test.NewNullLogger()
	catalog := services.NewCatalog(config.ShopConfig{Name: "Sinthiya Telecom", Contact: "01307085310"})
	h := NewPublicHandler(catalog, services.NewChatService(nil, "", log), log)

	r := chi.NewRouter()
	r.Get("/public/catalog", h.Catalog)
	r.Post("/public/chat", h.Chat)

	w := do(r, "GET", "/public/catalog", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"shopName":"Sinthiya Telecom"`)

	w = do(r, "POST", "/public/chat", map[string]any{"message": "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(r, "POST", "/public/chat", map[string]any{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
