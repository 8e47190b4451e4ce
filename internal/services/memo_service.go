package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/amountwords"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/skip2/go-qrcode"
)

const (
	moduleMemo = "Memo"

	qrSize = 256
)

type MemoService struct {
	db       *sql.DB
	dates    *dateutil.Normalizer
	activity ActivityRecorder
	shopName string
}

func NewMemoService(db *sql.DB, dates *dateutil.Normalizer, rec ActivityRecorder, shopName string) *MemoService {
	return &MemoService{db: db, dates: dates, activity: rec, shopName: shopName}
}

// Subtotal sums quantity x price per item in decimal and rounds to paisa.
func Subtotal(items []models.MemoItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Quantity).Mul(decimal.NewFromFloat(it.Price)))
	}
	return total.Round(2).InexactFloat64()
}

// AmountInWords spells the whole-taka part of amount in lang.
func AmountInWords(amount float64, lang string) string {
	return amountwords.Taka(decimal.NewFromFloat(amount).Round(0).IntPart(), lang)
}

// QRPNG renders content as a PNG QR code.
func QRPNG(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *MemoService) build(id string, req models.MemoRequest) models.Memo {
	m := models.Memo{
		ID:              id,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		Date:            s.dates.ISO(req.Date),
		Items:           req.Items,
		Subtotal:        Subtotal(req.Items),
		Language:        defaultString(req.Language, amountwords.English),
		CreatedAt:       s.dates.Now(),
	}
	m.AmountInWords = AmountInWords(m.Subtotal, m.Language)
	return m
}

func scanMemo(row rowScanner) (models.Memo, error) {
	var (
		m   models.Memo
		raw []byte
	)
	if err := row.Scan(&m.ID, &m.CustomerName, &m.CustomerPhone, &m.CustomerAddress, &m.Date, &raw, &m.Subtotal, &m.Language, &m.CreatedAt); err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m.Items); err != nil {
		return m, fmt.Errorf("decode memo items: %w", err)
	}
	m.AmountInWords = AmountInWords(m.Subtotal, m.Language)
	return m, nil
}

const memoColumns = `id, customer_name, customer_phone, customer_address, date, items, subtotal, language, created_at`

// List returns memos newest first. Search matches customer name or phone.
func (s *MemoService) List(ctx context.Context, search string) ([]models.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memos`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE customer_name ILIKE $1 OR customer_phone ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	defer rows.Close()

	memos := []models.Memo{}
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

func (s *MemoService) Get(ctx context.Context, id string) (*models.Memo, error) {
	m, err := scanMemo(s.db.QueryRowContext(ctx, `SELECT `+memoColumns+` FROM memos WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("memo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get memo: %w", err)
	}
	return &m, nil
}

// Create stores a memo; subtotal and words are computed here, never taken
// from the client.
func (s *MemoService) Create(ctx context.Context, req models.MemoRequest) (*models.Memo, error) {
	m := s.build(uuid.NewString(), req)
	items, err := json.Marshal(m.Items)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memos (`+memoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.CustomerName, m.CustomerPhone, m.CustomerAddress, m.Date, string(items), m.Subtotal, m.Language, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create memo: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleMemo, fmt.Sprintf("Memo for %s: %s", m.CustomerName, activity.Taka(m.Subtotal)))
	return &m, nil
}

func (s *MemoService) Update(ctx context.Context, id string, req models.MemoRequest) (*models.Memo, error) {
	m := s.build(id, req)
	items, err := json.Marshal(m.Items)
	if err != nil {
		return nil, err
	}

	var created sql.NullTime
	err = s.db.QueryRowContext(ctx, `
		UPDATE memos SET customer_name = $1, customer_phone = $2, customer_address = $3, date = $4,
			items = $5, subtotal = $6, language = $7
		WHERE id = $8
		RETURNING created_at`,
		m.CustomerName, m.CustomerPhone, m.CustomerAddress, m.Date, string(items), m.Subtotal, m.Language, id).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("memo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update memo: %w", err)
	}
	m.CreatedAt = created.Time

	s.activity.Record(ctx, models.ActionEdit, moduleMemo, "Updated memo for "+m.CustomerName)
	return &m, nil
}

func (s *MemoService) Delete(ctx context.Context, id string) error {
	var name string
	err := s.db.QueryRowContext(ctx, `DELETE FROM memos WHERE id = $1 RETURNING customer_name`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("memo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete memo: %w", err)
	}

	s.activity.Record(ctx, models.ActionDelete, moduleMemo, "Deleted memo for "+name)
	return nil
}

// VerificationText is what the printed memo QR encodes.
func (s *MemoService) VerificationText(m *models.Memo) string {
	return fmt.Sprintf("%s | Memo %s | %s | %s | %s",
		s.shopName, m.ID, dateutil.ToDisplay(m.Date), m.CustomerName, activity.Taka(m.Subtotal))
}

// QR renders the verification QR of a stored memo.
func (s *MemoService) QR(ctx context.Context, id string) ([]byte, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return QRPNG(s.VerificationText(m))
}
