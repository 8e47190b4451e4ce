// Package ledger recomputes running balances for per-owner transaction
// histories. Customer dues and NGO loans both run through the same engine
// under different sign conventions.
//
// The engine always works on the whole collection: every edit, insert or
// delete is followed by a full recompute, so the stored balance can never
// drift away from the entries it summarises.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
)

// ErrInvalidArgument marks input the engine refuses to process.
var ErrInvalidArgument = errors.New("invalid ledger input")

// Entry is one dated movement on an owner's ledger.
type Entry struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Date         string    `json:"date"`
	Debit        float64   `json:"debit"`
	Credit       float64   `json:"credit"`
	Comment      string    `json:"comment"`
	BalanceAfter float64   `json:"balanceAfter"`
	Seq          int64     `json:"seq"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Opening seeds the two accumulators before the first entry.
type Opening struct {
	DebitBase  float64 `json:"debitBase"`
	CreditBase float64 `json:"creditBase"`
}

// Convention maps debit and credit columns onto the balance and the
// secondary accumulator. Each field is a sign multiplier.
type Convention struct {
	Name            string
	BalanceDebit    float64
	BalanceCredit   float64
	SecondaryDebit  float64
	SecondaryCredit float64
}

var (
	// CustomerDue: debit is goods or cash given on credit, credit is money
	// received. A positive balance means the customer owes the shop.
	CustomerDue = Convention{
		Name:          "customer_due",
		BalanceDebit:  1,
		BalanceCredit: -1,
	}

	// LoanRepayment: debit is an installment deposit, credit is savings
	// paid into the NGO. The balance is the outstanding due and the
	// secondary accumulator is total savings.
	LoanRepayment = Convention{
		Name:            "loan_repayment",
		BalanceDebit:    -1,
		SecondaryCredit: 1,
	}
)

// Result is the recomputed ledger in ascending order.
type Result struct {
	Entries   []Entry `json:"entries"`
	Balance   float64 `json:"balance"`
	Secondary float64 `json:"secondary"`
}

// Engine recomputes ledgers. It is stateless apart from its date normalizer,
// whose clock decides what "today" means for unparseable dates.
type Engine struct {
	dates *dateutil.Normalizer
}

// NewEngine returns an Engine. A nil normalizer means dateutil.Default.
func NewEngine(dates *dateutil.Normalizer) *Engine {
	if dates == nil {
		dates = dateutil.Default
	}
	return &Engine{dates: dates}
}

// Recompute sorts a copy of entries by (date, Seq), rewrites every date in
// ISO form and writes the running balance into each entry. The input slice
// is left untouched.
func (e *Engine) Recompute(entries []Entry, opening Opening, conv Convention) (Result, error) {
	if err := validate(entries, opening); err != nil {
		return Result{}, err
	}

	type keyed struct {
		entry Entry
		ts    int64
	}

	rows := make([]keyed, len(entries))
	for i, entry := range entries {
		iso, ts := e.dates.Normalize(entry.Date)
		entry.Date = iso
		rows[i] = keyed{entry: entry, ts: ts}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ts != rows[j].ts {
			return rows[i].ts < rows[j].ts
		}
		return rows[i].entry.Seq < rows[j].entry.Seq
	})

	balance := opening.DebitBase
	secondary := opening.CreditBase
	out := make([]Entry, len(rows))
	for i, row := range rows {
		balance += conv.BalanceDebit*row.entry.Debit + conv.BalanceCredit*row.entry.Credit
		secondary += conv.SecondaryDebit*row.entry.Debit + conv.SecondaryCredit*row.entry.Credit
		row.entry.BalanceAfter = balance
		out[i] = row.entry
	}

	return Result{Entries: out, Balance: balance, Secondary: secondary}, nil
}

func validate(entries []Entry, opening Opening) error {
	if !finite(opening.DebitBase) || !finite(opening.CreditBase) {
		return fmt.Errorf("%w: opening balance must be finite", ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.ID == "" {
			return fmt.Errorf("%w: entry without id", ErrInvalidArgument)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("%w: duplicate entry id %s", ErrInvalidArgument, entry.ID)
		}
		seen[entry.ID] = struct{}{}

		if !finite(entry.Debit) || !finite(entry.Credit) || entry.Debit < 0 || entry.Credit < 0 {
			return fmt.Errorf("%w: entry %s has a negative or non-finite amount", ErrInvalidArgument, entry.ID)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NewestFirst returns a reversed copy for display. Never recompute in this order.
func NewestFirst(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[len(entries)-1-i] = entry
	}
	return out
}

// Totals sums the debit and credit columns.
func Totals(entries []Entry) (debit, credit float64) {
	for _, entry := range entries {
		debit += entry.Debit
		credit += entry.Credit
	}
	return debit, credit
}

// NextSeq returns a sequence number greater than any in entries.
func NextSeq(entries []Entry) int64 {
	var last int64
	for _, entry := range entries {
		if entry.Seq > last {
			last = entry.Seq
		}
	}
	return last + 1
}

// Find returns the index of the entry with id, or -1.
func Find(entries []Entry, id string) int {
	for i, entry := range entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}
