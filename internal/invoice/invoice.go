package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

// DefaultDueDays is the payment term printed on invoices.
const DefaultDueDays = 7

const (
	ItemTea    = "TEA INDIAN CHAI"
	ItemCoffee = "COFFEE"
)

// Row is one billed beverage of one entry.
type Row struct {
	Item   string
	Date   string
	Cups   int
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

type Invoice struct {
	Number string

	VendorName    string
	VendorAddress string

	OfficeName   string
	OfficeEmail  string
	OfficeMobile string

	IssuedAt time.Time
	DueAt    time.Time
	From, To string

	Rows  []Row
	Cups  int
	Total decimal.Decimal
	// Words is the integer part of Total spelled out, e.g. "Forty-five Rupees".
	Words string
}

// Build lays out the invoice for a report. An empty report has nothing to bill.
// Each entry yields one row per beverage served; an entry with no cups still
// yields a zero tea row so every recorded day appears on the invoice.
func Build(vendor *account.Account, office *ledger.Office, r *billing.Report, issuedAt time.Time, dueDays int) (*Invoice, error) {
	if r == nil || r.Empty() {
		return nil, billing.ErrNoData
	}

	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}

	address := strings.TrimSpace(vendor.Address)
	if address == "" {
		address = "Address not provided"
	}

	inv := &Invoice{
		Number:        Number(office, issuedAt),
		VendorName:    vendor.ID,
		VendorAddress: address,
		OfficeName:    office.Name,
		OfficeEmail:   orNA(office.Email),
		OfficeMobile:  orNA(office.Mobile),
		IssuedAt:      issuedAt,
		DueAt:         issuedAt.AddDate(0, 0, dueDays),
		From:          r.Filter.From,
		To:            r.Filter.To,
		Total:         r.Total,
		Cups:          r.Cups,
		Words:         Words(r.Total) + " Rupees",
	}

	for _, l := range r.Lines {
		e := l.Entry

		if e.Tea > 0 || e.Coffee == 0 {
			inv.Rows = append(inv.Rows, Row{
				Item:   ItemTea,
				Date:   e.Date,
				Cups:   e.Tea,
				Rate:   e.TeaPrice,
				Amount: e.TeaPrice.Mul(decimal.NewFromInt(int64(e.Tea))),
			})
		}

		if e.Coffee > 0 {
			inv.Rows = append(inv.Rows, Row{
				Item:   ItemCoffee,
				Date:   e.Date,
				Cups:   e.Coffee,
				Rate:   e.CoffeePrice,
				Amount: e.CoffeePrice.Mul(decimal.NewFromInt(int64(e.Coffee))),
			})
		}
	}

	return inv, nil
}

// Number derives a stable invoice number from the office and the issue day.
func Number(office *ledger.Office, issuedAt time.Time) string {
	return fmt.Sprintf("INV-%s-%s", issuedAt.Format("20060102"), strings.ToUpper(office.ID.String()[:8]))
}

// FileName is the suggested name of the invoice rendered with the given extension.
func (inv *Invoice) FileName(ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}

		return -1
	}, inv.OfficeName)

	return fmt.Sprintf("invoice_%s_%s%s", name, inv.IssuedAt.Format("20060102"), ext)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}

	return s
}
