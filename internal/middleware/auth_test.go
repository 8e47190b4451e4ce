package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserID(r.Context())
		w.Write([]byte(id))
	})
}

func signedToken(t *testing.T, secret string, now time.Time) string {
	t.Helper()
	token, err := services.GenerateJWT("a1", config.JWTConfig{SecretKey: secret, ExpiryHours: 1}, now)
	require.NoError(t, err)
	return token
}

func TestAuth(t *testing.T) {
	valid := signedToken(t, testSecret, time.Now())

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + signedToken(t, "other", time.Now()), http.StatusUnauthorized},
		{"expired", "Bearer " + signedToken(t, testSecret, time.Now().Add(-2*time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	handler := Auth(testSecret, nil, logging.Discard())(echoUserID())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/customers", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "a1", w.Body.String())
			}
		})
	}
}

func TestAuth_Blacklist(t *testing.T) {
	token := signedToken(t, testSecret, time.Now())

	t.Run("revoked token", func(t *testing.T) {
		rdb, cache := redismock.NewClientMock()
		cache.ExpectExists(services.BlacklistKey(token)).SetVal(1)

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		Auth(testSecret, rdb, logging.Discard())(echoUserID()).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
		assert.NoError(t, cache.ExpectationsWereMet())
	})

	t.Run("redis down still authenticates", func(t *testing.T) {
		rdb, cache := redismock.NewClientMock()
		cache.ExpectExists(services.BlacklistKey(token)).SetErr(errors.New("connection refused"))

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		Auth(testSecret, rdb, logging.Discard())(echoUserID()).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
