package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"
)

// BlacklistKey is the Redis key marking a logged-out token.
func BlacklistKey(token string) string {
	return "blacklist:" + token
}

type AuthService struct {
	db        *sql.DB
	redis     *redis.Client
	jwt       config.JWTConfig
	argon     config.Argon2Config
	validator *ValidationHelper
	log       logrus.FieldLogger
}

// LoginRequest represents the login request payload
// @Description Login request structure
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"owner@sinthiyatelecom.com"` // Admin email
	Password string `json:"password" validate:"required,min=6" example:"password123"`           // Admin password
}

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // JWT token
	Admin models.Admin `json:"admin"`
}

func NewAuthService(db *sql.DB, redisClient *redis.Client, jwtCfg config.JWTConfig, argonCfg config.Argon2Config, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		jwt:       jwtCfg,
		argon:     argonCfg,
		validator: NewValidationHelper(),
		log:       log.WithField("module", "auth"),
	}
}

// Login handles admin authentication
// @Summary Login admin
// @Description Authenticate an admin with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.validator.DecodeJSON(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	log := s.log.WithFields(logrus.Fields{"email": email, "remote": r.RemoteAddr})

	var admin models.Admin
	err := s.db.QueryRowContext(r.Context(),
		`SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`, email).
		Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("login failed: unknown admin")
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}
	if err != nil {
		log.WithError(err).Error("admin lookup failed")
		SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	if !VerifyPassword(req.Password, admin.PasswordHash, s.argon) {
		log.Info("login failed: wrong password")
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	token, err := GenerateJWT(admin.ID, s.jwt, time.Now())
	if err != nil {
		log.WithError(err).Error("JWT generation failed")
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	log.WithField("admin_id", admin.ID).Info("login successful")
	SendJSON(w, http.StatusOK, AuthResponse{Token: token, Admin: admin})
}

// Logout handles admin logout
// @Summary Logout admin
// @Description Logout and blacklist the bearer token until it expires
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Router /auth/logout [post]
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if ok && token != "" && s.redis != nil {
		if err := s.redis.Set(r.Context(), BlacklistKey(token), "1", s.jwt.Expiry()).Err(); err != nil {
			s.log.WithError(err).Warn("failed to blacklist token")
		}
	}

	SendJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// SeedAdmin creates or resets an admin login.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	hash, err := HashPassword(password, s.argon)
	if err != nil {
		return nil, err
	}

	admin := models.Admin{ID: uuid.NewString(), Email: strings.ToLower(strings.TrimSpace(email))}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, created_at`, admin.ID, admin.Email, hash).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	s.log.WithField("email", admin.Email).Info("admin seeded")
	return &admin, nil
}

// GenerateJWT signs an HS256 token carrying the admin id.
func GenerateJWT(adminID string, cfg config.JWTConfig, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": adminID,
		"iat":     now.Unix(),
		"exp":     now.Add(cfg.Expiry()).Unix(),
	})

	return token.SignedString([]byte(cfg.SecretKey))
}

// HashPassword returns base64(salt)$base64(argon2id hash).
func HashPassword(password string, cfg config.Argon2Config) (string, error) {
	salt := make([]byte, cfg.SaltLength)
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, cfg.Time, cfg.Memory, cfg.Threads, cfg.KeyLength)
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func VerifyPassword(password, hashedPassword string, cfg config.Argon2Config) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, cfg.Time, cfg.Memory, cfg.Threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, computedHash) == 1
}
