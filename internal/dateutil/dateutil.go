// Package dateutil turns the free-form dates typed by shop staff into
// canonical ISO calendar dates.
package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts used across the application
const (
	LayoutISO     = "2006-01-02"
	LayoutDisplay = "02-01-2006"
	LayoutMonth   = "2006-01"
)

// ErrUnparseable is returned by Parse when no known format matches.
var ErrUnparseable = errors.New("unrecognized date")

// extraLayouts are tried after the day-month-year rules fail.
var extraLayouts = []string{
	"02.01.2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

var (
	isoPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	partSplitter = regexp.MustCompile(`[/\- ]+`)
	spaces       = regexp.MustCompile(`\s+`)
)

var monthNames = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Normalizer parses dates relative to an injectable clock. The clock is only
// consulted for the "today" fallback.
type Normalizer struct {
	Now func() time.Time
}

// New returns a Normalizer using now as its clock. A nil now means time.Now.
func New(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{Now: now}
}

// Default uses the wall clock.
var Default = New(time.Now)

// Today returns the clock's current date in ISO form.
func (n *Normalizer) Today() string {
	return n.Now().Format(LayoutISO)
}

// Parse interprets s strictly. It accepts YYYY-MM-DD, D-M-Y and D-Mon-Y
// split on slash, dash or space (two-digit years are 20YY), plus a few common
// layouts. Out-of-range days and months are errors.
func (n *Normalizer) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if s == "" {
		return time.Time{}, ErrUnparseable
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return build(y, time.Month(mo), d, s)
	}

	if parts := partSplitter.Split(s, -1); len(parts) == 3 {
		if t, err := parseDayMonthYear(parts, s); err == nil {
			return t, nil
		}
	}

	for _, layout := range extraLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// Normalize returns the ISO form of s and its Unix millisecond timestamp at
// UTC midnight. Unparseable input falls back to today.
func (n *Normalizer) Normalize(s string) (string, int64) {
	t, err := n.Parse(s)
	if err != nil {
		now := n.Now()
		t = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Format(LayoutISO), t.UnixMilli()
}

// ISO is Normalize without the timestamp.
func (n *Normalizer) ISO(s string) string {
	iso, _ := n.Normalize(s)
	return iso
}

func parseDayMonthYear(parts []string, raw string) (time.Time, error) {
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, ErrUnparseable
	}

	var month time.Month
	if v, err := strconv.Atoi(parts[1]); err == nil {
		month = time.Month(v)
	} else {
		name := strings.ToLower(parts[1])
		if len(name) < 3 {
			return time.Time{}, ErrUnparseable
		}
		m, ok := monthNames[name[:3]]
		if !ok {
			return time.Time{}, ErrUnparseable
		}
		month = m
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, ErrUnparseable
	}
	if year < 100 {
		year += 2000
	}

	return build(year, month, day, raw)
}

func build(year int, month time.Month, day int, raw string) (time.Time, error) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	return t, nil
}

// ToISO formats t as YYYY-MM-DD.
func ToISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// ToDisplay renders an ISO date as DD-MM-YYYY. Anything else is returned as is.
func ToDisplay(iso string) string {
	t, err := time.Parse(LayoutISO, iso)
	if err != nil {
		return iso
	}
	return t.Format(LayoutDisplay)
}

// Month returns the YYYY-MM prefix of an ISO date.
func Month(iso string) string {
	if len(iso) < len(LayoutMonth) {
		return iso
	}
	return iso[:len(LayoutMonth)]
}
