// Package activity keeps the staff-facing log of what changed today.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Taka formats an amount with thousands grouping, e.g. ৳1,250 or ৳99.50.
func Taka(amount float64) string {
	if amount == math.Trunc(amount) {
		return printer.Sprintf("৳%d", int64(amount))
	}
	return printer.Sprintf("৳%.2f", amount)
}

// Logger writes activity rows. Failures are logged and swallowed so that an
// activity write never fails the operation it describes.
type Logger struct {
	db  *sql.DB
	log logrus.FieldLogger
	now func() time.Time
}

func NewLogger(db *sql.DB, log logrus.FieldLogger, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	return &Logger{db: db, log: log, now: now}
}

// Record stores one activity.
func (l *Logger) Record(ctx context.Context, action, module, details string) {
	now := l.now()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO activities (id, date, time, action, module, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), now.Format(dateutil.LayoutISO), now.Format("03:04 PM"), action, module, details, now)
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"module": module,
		}).Warn("failed to record activity")
	}
}

// Today purges entries from earlier days and returns today's, newest first.
// A non-empty search filters on module, action or details.
func (l *Logger) Today(ctx context.Context, search string) ([]models.Activity, error) {
	today := l.now().Format(dateutil.LayoutISO)

	res, err := l.db.ExecContext(ctx, `DELETE FROM activities WHERE date < $1`, today)
	if err != nil {
		return nil, fmt.Errorf("purge activities: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		l.log.WithField("purged", n).Info("purged old activity entries")
	}

	query := `SELECT id, date, time, action, module, details, created_at FROM activities WHERE date = $1`
	args := []any{today}
	if search = strings.TrimSpace(search); search != "" {
		query += ` AND (module ILIKE $2 OR action ILIKE $2 OR details ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Date, &a.Time, &a.Action, &a.Module, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
