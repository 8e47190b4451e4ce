// Package importer parses pasted spreadsheet text into customer and ledger
// drafts. Rows are split on tab when present, otherwise on a per-format
// secondary delimiter, so both copy-from-Excel and hand-typed CSV work.
package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
)

// Secondary delimiters for the two import formats.
const (
	CustomerDelimiter = ','
	LedgerDelimiter   = '|'
)

const (
	DefaultAddress = "Unknown"
	DefaultComment = "Imported Entry"
)

// CustomerDraft is a customer row ready to be inserted.
type CustomerDraft struct {
	Name       string  `json:"name" csv:"name"`
	Number     string  `json:"number" csv:"number"`
	Address    string  `json:"address" csv:"address"`
	OpeningDue float64 `json:"openingDue" csv:"opening_due"`
}

// EntryDraft is a ledger row with its date already normalized.
type EntryDraft struct {
	Date     string  `json:"date" csv:"date"`
	Given    float64 `json:"given" csv:"given"`
	Received float64 `json:"received" csv:"received"`
	Comment  string  `json:"comment" csv:"comment"`
}

var (
	currencyNoise = regexp.MustCompile(`(?i)(৳|tk\.?|bdt|taka|[\s,'])`)
	bengaliDigits = strings.NewReplacer(
		"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
		"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
	)
)

// SplitRows splits text into trimmed cells. Blank lines are dropped.
func SplitRows(text string, secondary rune) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		sep := string(secondary)
		if strings.Contains(line, "\t") {
			sep = "\t"
		}

		cells := strings.Split(line, sep)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// IsHeader reports whether cell contains any keyword, ignoring case.
func IsHeader(cell string, keywords ...string) bool {
	cell = strings.ToLower(cell)
	for _, kw := range keywords {
		if strings.Contains(cell, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ParseAmount reads a money cell. Thousands separators, currency markers and
// Bengali digits are accepted. Anything unparseable is 0.
func ParseAmount(s string) float64 {
	s = bengaliDigits.Replace(s)
	s = currencyNoise.ReplaceAllString(s, "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// ParseCustomers reads name, number, address, due rows.
func ParseCustomers(text string) []CustomerDraft {
	var drafts []CustomerDraft
	for _, cells := range SplitRows(text, CustomerDelimiter) {
		if IsHeader(cells[0], "name") {
			continue
		}

		name := cell(cells, 0)
		number := cell(cells, 1)
		if name == "" || number == "" {
			continue
		}

		address := cell(cells, 2)
		if address == "" {
			address = DefaultAddress
		}

		drafts = append(drafts, CustomerDraft{
			Name:       name,
			Number:     number,
			Address:    address,
			OpeningDue: ParseAmount(cell(cells, 3)),
		})
	}
	return drafts
}

// ParseLedger reads date, given, received, description rows.
func ParseLedger(text string, dates *dateutil.Normalizer) []EntryDraft {
	if dates == nil {
		dates = dateutil.Default
	}

	var drafts []EntryDraft
	for _, cells := range SplitRows(text, LedgerDelimiter) {
		raw := cell(cells, 0)
		if raw == "" || IsHeader(raw, "date") {
			continue
		}

		comment := cell(cells, 3)
		if comment == "" {
			comment = DefaultComment
		}

		drafts = append(drafts, EntryDraft{
			Date:     dates.ISO(raw),
			Given:    ParseAmount(cell(cells, 1)),
			Received: ParseAmount(cell(cells, 2)),
			Comment:  comment,
		})
	}
	return drafts
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
