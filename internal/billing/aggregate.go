package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

// Filter selects the entries of one office recorded between From and To.
// Both bounds are inclusive YYYY-MM-DD strings; an empty bound is open.
// Dates compare lexically, which is correct for zero-padded ISO dates.
type Filter struct {
	OfficeID uuid.UUID
	From     string
	To       string
}

func (f Filter) Match(e *ledger.Entry) bool {
	if e.OfficeID != f.OfficeID {
		return false
	}

	if f.From != "" && e.Date < f.From {
		return false
	}

	if f.To != "" && e.Date > f.To {
		return false
	}

	return true
}

// Line is a billed entry.
type Line struct {
	Entry  *ledger.Entry
	Amount decimal.Decimal
	Cups   int
}

// Report is the aggregation of the entries selected by a Filter.
type Report struct {
	Filter Filter
	Lines  []Line
	Total  decimal.Decimal
	Cups   int
}

// Empty reports whether no entry matched the filter.
func (r *Report) Empty() bool {
	return len(r.Lines) == 0
}

// Summarize aggregates the entries matching f. An empty match is a zero report,
// not an error; a malformed entry of the office fails the whole report.
func Summarize(entries []*ledger.Entry, f Filter) (*Report, error) {
	r := &Report{Filter: f, Total: decimal.Zero}

	for _, e := range entries {
		if e.OfficeID != f.OfficeID {
			continue
		}

		if err := e.Validate(); err != nil {
			return nil, err
		}

		if !f.Match(e) {
			continue
		}

		amount := e.Amount()

		r.Lines = append(r.Lines, Line{Entry: e, Amount: amount, Cups: e.Cups()})
		r.Total = r.Total.Add(amount)
		r.Cups += e.Cups()
	}

	return r, nil
}

// Due is the lifetime balance of an office.
type Due struct {
	Office *ledger.Office
	Total  decimal.Decimal
	Paid   decimal.Decimal
	// Due is Total minus Paid and goes negative on overpayment.
	Due decimal.Decimal
}

// Dues computes the all-time balance of every office, in office order.
func Dues(offices []*ledger.Office, entries []*ledger.Entry, paid ledger.PaidStatus) ([]Due, error) {
	totals := make(map[uuid.UUID]decimal.Decimal, len(offices))

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}

		totals[e.OfficeID] = totals[e.OfficeID].Add(e.Amount())
	}

	dues := make([]Due, 0, len(offices))

	for _, o := range offices {
		total := totals[o.ID]
		p := paid.Paid(o.ID)

		dues = append(dues, Due{
			Office: o,
			Total:  total,
			Paid:   p,
			Due:    total.Sub(p),
		})
	}

	return dues, nil
}
