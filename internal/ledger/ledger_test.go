package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(dateutil.New(func() time.Time {
		return time.Date(2025, time.November, 20, 9, 0, 0, 0, time.UTC)
	}))
}

func TestEngine_CustomerDue(t *testing.T) {
	engine := testEngine()

	entries := []Entry{
		{ID: "b", Date: "10-11-2025", Debit: 0, Credit: 200, Seq: 2},
		{ID: "a", Date: "2025-11-08", Debit: 500, Credit: 0, Seq: 1},
	}

	res, err := engine.Recompute(entries, Opening{}, CustomerDue)
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "a", res.Entries[0].ID)
	assert.Equal(t, 500.0, res.Entries[0].BalanceAfter)
	assert.Equal(t, "b", res.Entries[1].ID)
	assert.Equal(t, "2025-11-10", res.Entries[1].Date)
	assert.Equal(t, 300.0, res.Entries[1].BalanceAfter)
	assert.Equal(t, 300.0, res.Balance)

	// input untouched
	assert.Equal(t, "10-11-2025", entries[0].Date)
	assert.Zero(t, entries[0].BalanceAfter)
}

func TestEngine_LoanRepayment(t *testing.T) {
	engine := testEngine()

	entries := []Entry{
		{ID: "1", Date: "2025-01-15", Debit: 1000, Credit: 100, Seq: 1},
		{ID: "2", Date: "2025-02-15", Debit: 1000, Credit: 100, Seq: 2},
	}

	res, err := engine.Recompute(entries, Opening{DebitBase: 12000, CreditBase: 500}, LoanRepayment)
	require.NoError(t, err)

	assert.Equal(t, 11000.0, res.Entries[0].BalanceAfter)
	assert.Equal(t, 10000.0, res.Entries[1].BalanceAfter)
	assert.Equal(t, 10000.0, res.Balance)
	assert.Equal(t, 700.0, res.Secondary)
}

func TestEngine_EmptyLedger(t *testing.T) {
	res, err := testEngine().Recompute(nil, Opening{DebitBase: 5000, CreditBase: 250}, LoanRepayment)
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Equal(t, 5000.0, res.Balance)
	assert.Equal(t, 250.0, res.Secondary)
}

func TestEngine_Idempotent(t *testing.T) {
	engine := testEngine()
	entries := []Entry{
		{ID: "x", Date: "5 Nov 25", Debit: 120, Seq: 3},
		{ID: "y", Date: "2025-11-05", Credit: 20, Seq: 1},
		{ID: "z", Date: "01/11/2025", Debit: 40, Seq: 2},
	}

	once, err := engine.Recompute(entries, Opening{}, CustomerDue)
	require.NoError(t, err)
	twice, err := engine.Recompute(once.Entries, Opening{}, CustomerDue)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestEngine_PermutationInvariant(t *testing.T) {
	engine := testEngine()
	base := []Entry{
		{ID: "a", Date: "2025-11-01", Debit: 100, Seq: 1},
		{ID: "b", Date: "2025-11-01", Credit: 30, Seq: 2},
		{ID: "c", Date: "2025-10-30", Debit: 10, Seq: 3},
		{ID: "d", Date: "2025-11-02", Credit: 5, Seq: 4},
	}
	reversed := []Entry{base[3], base[2], base[1], base[0]}
	shuffled := []Entry{base[1], base[3], base[0], base[2]}

	want, err := engine.Recompute(base, Opening{}, CustomerDue)
	require.NoError(t, err)

	for _, perm := range [][]Entry{reversed, shuffled} {
		got, err := engine.Recompute(perm, Opening{}, CustomerDue)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	ids := []string{}
	for _, e := range want.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids)
}

func TestEngine_SameDateSameSeqKeepsInputOrder(t *testing.T) {
	res, err := testEngine().Recompute([]Entry{
		{ID: "first", Date: "2025-11-01", Debit: 1},
		{ID: "second", Date: "2025-11-01", Debit: 2},
	}, Opening{}, CustomerDue)
	require.NoError(t, err)
	assert.Equal(t, "first", res.Entries[0].ID)
	assert.Equal(t, "second", res.Entries[1].ID)
}

func TestEngine_UnparseableDateFallsBackToToday(t *testing.T) {
	res, err := testEngine().Recompute([]Entry{
		{ID: "a", Date: "garbage", Debit: 10, Seq: 1},
		{ID: "b", Date: "2025-12-01", Debit: 10, Seq: 2},
		{ID: "c", Date: "2025-11-01", Debit: 10, Seq: 3},
	}, Opening{}, CustomerDue)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-01", "2025-11-20", "2025-12-01"},
		[]string{res.Entries[0].Date, res.Entries[1].Date, res.Entries[2].Date})
}

func TestEngine_BalanceInvariant(t *testing.T) {
	entries := []Entry{
		{ID: "1", Date: "2025-11-01", Debit: 700, Seq: 1},
		{ID: "2", Date: "2025-11-02", Credit: 250, Seq: 2},
		{ID: "3", Date: "2025-11-03", Debit: 80, Credit: 30, Seq: 3},
	}
	res, err := testEngine().Recompute(entries, Opening{DebitBase: 100}, CustomerDue)
	require.NoError(t, err)

	debit, credit := Totals(res.Entries)
	assert.Equal(t, 100+debit-credit, res.Balance)
	assert.Equal(t, res.Balance, res.Entries[len(res.Entries)-1].BalanceAfter)
}

func TestEngine_InvalidInput(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name    string
		entries []Entry
		opening Opening
	}{
		{"negative debit", []Entry{{ID: "a", Debit: -1}}, Opening{}},
		{"nan credit", []Entry{{ID: "a", Credit: math.NaN()}}, Opening{}},
		{"infinite debit", []Entry{{ID: "a", Debit: math.Inf(1)}}, Opening{}},
		{"missing id", []Entry{{Debit: 1}}, Opening{}},
		{"duplicate id", []Entry{{ID: "a"}, {ID: "a"}}, Opening{}},
		{"nan opening", nil, Opening{DebitBase: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Recompute(tt.entries, tt.opening, CustomerDue)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestHelpers(t *testing.T) {
	entries := []Entry{{ID: "a", Seq: 4}, {ID: "b", Seq: 9}, {ID: "c", Seq: 2}}

	assert.Equal(t, int64(10), NextSeq(entries))
	assert.Equal(t, int64(1), NextSeq(nil))
	assert.Equal(t, 1, Find(entries, "b"))
	assert.Equal(t, -1, Find(entries, "z"))

	rev := NewestFirst(entries)
	assert.Equal(t, "c", rev[0].ID)
	assert.Equal(t, "a", rev[2].ID)
	assert.Equal(t, "a", entries[0].ID)
}
