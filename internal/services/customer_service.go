package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/database"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/importer"
	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	moduleCustomer = "Customer"
	openingComment = "Opening balance"
	avatarBaseURL  = "https://api.dicebear.com/7.x/initials/svg?seed="
)

var nonDigits = regexp.MustCompile(`\D`)

type CustomerService struct {
	db       *sql.DB
	ledger   *LedgerStore
	dates    *dateutil.Normalizer
	activity ActivityRecorder
	log      logrus.FieldLogger
}

func NewCustomerService(db *sql.DB, store *LedgerStore, dates *dateutil.Normalizer, rec ActivityRecorder, log logrus.FieldLogger) *CustomerService {
	return &CustomerService{
		db:       db,
		ledger:   store,
		dates:    dates,
		activity: rec,
		log:      log.WithField("module", "customers"),
	}
}

// List returns customers ordered by name. Search matches name or number.
func (s *CustomerService) List(ctx context.Context, search string) ([]models.Customer, error) {
	query := `SELECT id, name, number, address, image_url, current_due, created_at FROM customers`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE name ILIKE $1 OR number ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Number, &c.Address, &c.ImageURL, &c.CurrentDue, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Get returns the customer with the ledger newest first.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.CustomerDetail, error) {
	var (
		c   models.Customer
		raw []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, number, address, image_url, current_due, created_at, transactions
		FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Number, &c.Address, &c.ImageURL, &c.CurrentDue, &c.CreatedAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, err
	}
	given, received := ledger.Totals(entries)

	return &models.CustomerDetail{
		Customer:      c,
		Transactions:  models.CustomerTransactions(entries),
		TotalGiven:    given,
		TotalReceived: received,
	}, nil
}

// Create adds a customer with an empty ledger.
func (s *CustomerService) Create(ctx context.Context, req models.CustomerRequest) (*models.Customer, error) {
	c := models.Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Number:    strings.TrimSpace(req.Number),
		Address:   defaultString(strings.TrimSpace(req.Address), importer.DefaultAddress),
		CreatedAt: s.dates.Now(),
	}
	c.ImageURL = avatarURL(c.Name)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, number, address, image_url, current_due, transactions, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, '[]', $6)`,
		c.ID, c.Name, c.Number, c.Address, c.ImageURL, c.CreatedAt)
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("customer with number %s: %w", c.Number, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.activity.Record(ctx, models.ActionAdd, moduleCustomer, "Added customer "+c.Name)
	return &c, nil
}

// UpdateProfile changes name, number and address. The ledger is untouched.
func (s *CustomerService) UpdateProfile(ctx context.Context, id string, req models.CustomerRequest) error {
	name := strings.TrimSpace(req.Name)
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers SET name = $1, number = $2, address = $3, image_url = $4
		WHERE id = $5`,
		name, strings.TrimSpace(req.Number),
		defaultString(strings.TrimSpace(req.Address), importer.DefaultAddress), avatarURL(name), id)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("customer with number %s: %w", req.Number, ErrConflict)
	}
	if err := expectOneRow(res, err, "customer", id); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActionEdit, moduleCustomer, "Updated profile of "+name)
	return nil
}

// Delete removes the customer together with the ledger.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	var name string
	err := s.db.QueryRowContext(ctx, `DELETE FROM customers WHERE id = $1 RETURNING name`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.activity.Record(ctx, models.ActionDelete, moduleCustomer, "Deleted customer "+name)
	return nil
}

// AddEntry appends a ledger row and recomputes.
func (s *CustomerService) AddEntry(ctx context.Context, id string, req models.CustomerEntryRequest) (ledger.Result, error) {
	var name string
	res, err := s.ledger.Mutate(ctx, customerBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		owner.Entries = append(owner.Entries, ledger.Entry{
			ID:        uuid.NewString(),
			OwnerID:   id,
			Date:      req.Date,
			Debit:     req.Given,
			Credit:    req.Received,
			Comment:   strings.TrimSpace(req.Comment),
			Seq:       ledger.NextSeq(owner.Entries),
			CreatedAt: s.dates.Now(),
		})
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionAdd, moduleCustomer, fmt.Sprintf("Ledger entry for %s: given %s, received %s",
		name, activity.Taka(req.Given), activity.Taka(req.Received)))
	return res, nil
}

// EditEntry replaces date, amounts and comment of one row and recomputes.
func (s *CustomerService) EditEntry(ctx context.Context, id, entryID string, req models.CustomerEntryRequest) (ledger.Result, error) {
	var name string
	res, err := s.ledger.Mutate(ctx, customerBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		i := ledger.Find(owner.Entries, entryID)
		if i < 0 {
			return fmt.Errorf("transaction %s: %w", entryID, ErrNotFound)
		}
		owner.Entries[i].Date = req.Date
		owner.Entries[i].Debit = req.Given
		owner.Entries[i].Credit = req.Received
		owner.Entries[i].Comment = strings.TrimSpace(req.Comment)
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionEdit, moduleCustomer, "Edited ledger entry of "+name)
	return res, nil
}

// DeleteEntry removes one row and recomputes.
func (s *CustomerService) DeleteEntry(ctx context.Context, id, entryID string) (ledger.Result, error) {
	var name string
	res, err := s.ledger.Mutate(ctx, customerBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		i := ledger.Find(owner.Entries, entryID)
		if i < 0 {
			return fmt.Errorf("transaction %s: %w", entryID, ErrNotFound)
		}
		owner.Entries = append(owner.Entries[:i], owner.Entries[i+1:]...)
		return nil
	})
	if err != nil {
		return res, err
	}

	s.activity.Record(ctx, models.ActionDelete, moduleCustomer, "Deleted ledger entry of "+name)
	return res, nil
}

// ClearLedger drops every row; the due returns to zero.
func (s *CustomerService) ClearLedger(ctx context.Context, id string) error {
	var name string
	_, err := s.ledger.Mutate(ctx, customerBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		owner.Entries = nil
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActionDelete, moduleCustomer, "Cleared ledger of "+name)
	return nil
}

// ImportLedger appends pasted date | given | received | description rows.
func (s *CustomerService) ImportLedger(ctx context.Context, id, text string) (int, ledger.Result, error) {
	drafts := importer.ParseLedger(text, s.dates)
	if len(drafts) == 0 {
		return 0, ledger.Result{}, fmt.Errorf("no ledger rows found: %w", ErrInvalidArgument)
	}

	var name string
	res, err := s.ledger.Mutate(ctx, customerBook{}, id, func(_ context.Context, _ *sql.Tx, owner *ledgerOwner) error {
		name = owner.Name
		seq := ledger.NextSeq(owner.Entries)
		now := s.dates.Now()
		for i, d := range drafts {
			owner.Entries = append(owner.Entries, ledger.Entry{
				ID:        uuid.NewString(),
				OwnerID:   id,
				Date:      d.Date,
				Debit:     d.Given,
				Credit:    d.Received,
				Comment:   d.Comment,
				Seq:       seq + int64(i),
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return 0, res, err
	}

	s.activity.Record(ctx, models.ActionSync, moduleCustomer, fmt.Sprintf("Imported %d ledger rows for %s", len(drafts), name))
	return len(drafts), res, nil
}

// ImportCustomers inserts pasted name, number, address, due rows. Numbers
// already on file are skipped. A non-zero due becomes an opening entry.
func (s *CustomerService) ImportCustomers(ctx context.Context, text string) (*models.ImportReport, error) {
	drafts := importer.ParseCustomers(text)
	report := &models.ImportReport{}
	if len(drafts) == 0 {
		return report, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	today := s.dates.Today()
	now := s.dates.Now()
	seen := map[string]bool{}
	for _, d := range drafts {
		if seen[d.Number] {
			report.Skipped++
			continue
		}
		seen[d.Number] = true

		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE number = $1)`, d.Number).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check customer %s: %w", d.Number, err)
		}
		if exists {
			report.Skipped++
			continue
		}

		id := uuid.NewString()
		var entries []ledger.Entry
		if d.OpeningDue != 0 {
			entries = []ledger.Entry{openingEntry(id, today, d.OpeningDue, now)}
		}
		res, err := s.ledger.Recompute(entries, ledger.Opening{}, ledger.CustomerDue)
		if err != nil {
			return nil, err
		}
		raw, err := encodeEntries(res.Entries)
		if err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO customers (id, name, number, address, image_url, current_due, transactions, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, d.Name, d.Number, d.Address, avatarURL(d.Name), res.Balance, raw, now)
		if err != nil {
			return nil, fmt.Errorf("insert customer %s: %w", d.Number, err)
		}
		report.Added++
		report.Names = append(report.Names, d.Name)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.log.WithFields(logrus.Fields{"added": report.Added, "skipped": report.Skipped}).Info("customers imported")
	s.activity.Record(ctx, models.ActionSync, moduleCustomer, fmt.Sprintf("Bulk imported %d customers (%d skipped)", report.Added, report.Skipped))
	return report, nil
}

// openingEntry turns a signed opening due into a debit or credit row.
func openingEntry(ownerID, date string, due float64, now time.Time) ledger.Entry {
	e := ledger.Entry{ID: uuid.NewString(), OwnerID: ownerID, Date: date, Comment: openingComment, Seq: 1, CreatedAt: now}
	if due > 0 {
		e.Debit = due
	} else {
		e.Credit = -due
	}
	return e
}

// Summary totals positive and negative dues.
func (s *CustomerService) Summary(ctx context.Context) (*models.CustomerSummary, error) {
	var sum models.CustomerSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN current_due > 0 THEN current_due ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN current_due < 0 THEN -current_due ELSE 0 END), 0)
		FROM customers`).Scan(&sum.Count, &sum.AmiPabo, &sum.AmarThekePabe)
	if err != nil {
		return nil, fmt.Errorf("customer summary: %w", err)
	}
	return &sum, nil
}

// WriteLedgerCSV writes the ledger oldest first for printing or sharing.
func (s *CustomerService) WriteLedgerCSV(ctx context.Context, id string, w io.Writer) error {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	rows := make([]models.CustomerTransaction, len(detail.Transactions))
	for i, tx := range detail.Transactions {
		tx.Date = dateutil.ToDisplay(tx.Date)
		rows[len(rows)-1-i] = tx
	}
	return gocsv.Marshal(rows, w)
}

// WhatsAppLink builds a wa.me link with a due reminder for the customer.
func (s *CustomerService) WhatsAppLink(ctx context.Context, id, shopName string) (string, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("Dear %s, your current due at %s is %s.", detail.Name, shopName, activity.Taka(detail.CurrentDue))
	return WhatsAppURL(detail.Number, msg), nil
}

// WhatsAppURL normalizes a Bangladeshi number to 88-prefixed digits.
func WhatsAppURL(number, message string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if strings.HasPrefix(digits, "0") {
		digits = "88" + digits
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

func avatarURL(name string) string {
	return avatarBaseURL + url.QueryEscape(name)
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// expectOneRow turns a zero-row update into ErrNotFound.
func expectOneRow(res sql.Result, err error, kind, id string) error {
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
