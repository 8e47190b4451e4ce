package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testJWT   = config.JWTConfig{SecretKey: "test-secret", ExpiryHours: 24}
	testArgon = config.Argon2Config{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLength: 32, SaltLength: 16}
)

func TestAuthService_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuthService(db, nil, testJWT, testArgon, logging.Discard())
	hashedPassword, err := HashPassword("password123", testArgon)
	require.NoError(t, err)

	t.Run("successful login", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email, password_hash, created_at FROM admins").
			WithArgs("owner@sinthiyatelecom.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
				AddRow("a1", "owner@sinthiyatelecom.com", hashedPassword, testNow))

		body, _ := json.Marshal(LoginRequest{Email: "Owner@SinthiyaTelecom.com", Password: "password123"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var response AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, "a1", response.Admin.ID)
		assert.NotContains(t, w.Body.String(), hashedPassword)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email, password_hash, created_at FROM admins").
			WithArgs("owner@sinthiyatelecom.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
				AddRow("a1", "owner@sinthiyatelecom.com", hashedPassword, testNow))

		body, _ := json.Marshal(LoginRequest{Email: "owner@sinthiyatelecom.com", Password: "password124"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email, password_hash, created_at FROM admins").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		body, _ := json.Marshal(LoginRequest{Email: "nobody@example.com", Password: "password123"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer([]byte("invalid")))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Logout(t *testing.T) {
	rdb, cache := redismock.NewClientMock()
	service := NewAuthService(nil, rdb, testJWT, testArgon, logging.Discard())

	cache.ExpectSet(BlacklistKey("tok"), "1", 24*time.Hour).SetVal("OK")

	r := httptest.NewRequest("POST", "/auth/logout", nil)
	r.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()

	service.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, cache.ExpectationsWereMet())
}

func TestAuthService_SeedAdmin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO admins").
		WithArgs(sqlmock.AnyArg(), "owner@sinthiyatelecom.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("a1", testNow))

	service := NewAuthService(db, nil, testJWT, testArgon, logging.Discard())
	admin, err := service.SeedAdmin(context.Background(), "Owner@SinthiyaTelecom.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
}

func TestPasswordHashing(t *testing.T) {
	password := "testpassword"

	hashed, err := HashPassword(password, testArgon)
	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)

	assert.True(t, VerifyPassword(password, hashed, testArgon))
	assert.False(t, VerifyPassword("wrongpassword", hashed, testArgon))
	assert.False(t, VerifyPassword(password, "not-a-hash", testArgon))
}

func TestGenerateJWT(t *testing.T) {
	token, err := GenerateJWT("a1", testJWT, time.Now())
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(testJWT.SecretKey), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "a1", claims["user_id"])
}
