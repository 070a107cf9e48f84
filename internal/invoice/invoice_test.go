package invoice_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/invoice"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

var (
	issued = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	vendor = &account.Account{ID: "chaiwala", Role: account.RoleVendor, Address: "12 MG Road"}
	acme   = &ledger.Office{ID: uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"), Name: "Acme Corp", Email: "a@x.com", Mobile: "9990001111"}
)

func acmeReport(t *testing.T) *billing.Report {
	t.Helper()

	entries := []*ledger.Entry{
		{ID: uuid.New(), OfficeID: acme.ID, Office: acme.Name, Tea: 2, TeaPrice: decimal.NewFromInt(10), CoffeePrice: decimal.Zero, Date: "2024-01-01"},
		{ID: uuid.New(), OfficeID: acme.ID, Office: acme.Name, Tea: 1, Coffee: 1, TeaPrice: decimal.NewFromInt(10), CoffeePrice: decimal.NewFromInt(15), Date: "2024-01-05"},
	}

	r, err := billing.Summarize(entries, billing.Filter{OfficeID: acme.ID, From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)

	return r
}

func TestBuild(t *testing.T) {
	inv, err := invoice.Build(vendor, acme, acmeReport(t), issued, 0)
	require.NoError(t, err)

	assert.Equal(t, "INV-20240201-0F8FAD5B", inv.Number)
	assert.Equal(t, issued.AddDate(0, 0, 7), inv.DueAt)
	assert.Equal(t, 4, inv.Cups)
	assert.True(t, decimal.NewFromInt(45).Equal(inv.Total))
	assert.Equal(t, "Forty-five Rupees", inv.Words)

	require.Len(t, inv.Rows, 3)
	assert.Equal(t, invoice.ItemTea, inv.Rows[0].Item)
	assert.Equal(t, 2, inv.Rows[0].Cups)
	assert.Equal(t, invoice.ItemTea, inv.Rows[1].Item)
	assert.Equal(t, invoice.ItemCoffee, inv.Rows[2].Item)
	assert.True(t, decimal.NewFromInt(15).Equal(inv.Rows[2].Amount))

	sum := decimal.Zero
	for _, r := range inv.Rows {
		sum = sum.Add(r.Amount)
	}

	assert.True(t, inv.Total.Equal(sum), "rows add up to the total")
}

func TestBuild_EntryWithoutCups(t *testing.T) {
	entries := []*ledger.Entry{
		{ID: uuid.New(), OfficeID: acme.ID, Office: acme.Name, TeaPrice: decimal.NewFromInt(10), CoffeePrice: decimal.NewFromInt(15), Date: "2024-01-02"},
		{ID: uuid.New(), OfficeID: acme.ID, Office: acme.Name, Coffee: 2, TeaPrice: decimal.NewFromInt(10), CoffeePrice: decimal.NewFromInt(15), Date: "2024-01-03"},
	}

	r, err := billing.Summarize(entries, billing.Filter{OfficeID: acme.ID})
	require.NoError(t, err)

	inv, err := invoice.Build(vendor, acme, r, issued, 0)
	require.NoError(t, err)

	require.Len(t, inv.Rows, 2)
	assert.Equal(t, invoice.ItemTea, inv.Rows[0].Item)
	assert.Equal(t, "2024-01-02", inv.Rows[0].Date)
	assert.Equal(t, 0, inv.Rows[0].Cups)
	assert.True(t, inv.Rows[0].Amount.IsZero())
	assert.Equal(t, invoice.ItemCoffee, inv.Rows[1].Item)
	assert.True(t, decimal.NewFromInt(30).Equal(inv.Total))
}

func TestBuild_EmptyReport(t *testing.T) {
	_, err := invoice.Build(vendor, acme, &billing.Report{}, issued, 7)
	assert.ErrorIs(t, err, billing.ErrNoData)
}

func TestBuild_MissingAddress(t *testing.T) {
	inv, err := invoice.Build(&account.Account{ID: "v"}, &ledger.Office{ID: uuid.New(), Name: "X"}, acmeReport(t), issued, 3)
	require.NoError(t, err)

	assert.Equal(t, "Address not provided", inv.VendorAddress)
	assert.Equal(t, "N/A", inv.OfficeMobile)
	assert.Equal(t, issued.AddDate(0, 0, 3), inv.DueAt)
}

func TestTextRenderer(t *testing.T) {
	inv, err := invoice.Build(vendor, acme, acmeReport(t), issued, 7)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, invoice.TextRenderer{Currency: "Rs."}.Render(&buf, inv))

	out := buf.String()
	for _, want := range []string{
		"CHAIWALA",
		"12 MG Road",
		"INV-20240201-0F8FAD5B",
		"01/02/2024",
		"08/02/2024",
		"TEA INDIAN CHAI",
		"COFFEE",
		"2 Cups",
		"Rs.45.00",
		"Forty-five Rupees",
		"AUTHORISED SIGNATORY FOR",
	} {
		assert.Contains(t, out, want)
	}
}

func TestInvoice_FileName(t *testing.T) {
	inv, err := invoice.Build(vendor, acme, acmeReport(t), issued, 7)
	require.NoError(t, err)

	assert.Equal(t, "invoice_Acme_Corp_20240201.txt", inv.FileName(invoice.TextRenderer{}.Extension()))
	assert.Equal(t, "invoice_Acme_Corp_20240201.xlsx", inv.FileName(invoice.XLSXRenderer{}.Extension()))
}

func TestXLSXRenderer(t *testing.T) {
	inv, err := invoice.Build(vendor, acme, acmeReport(t), issued, 7)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, invoice.XLSXRenderer{Currency: "Rs."}.Render(&buf, inv))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoice"}, f.GetSheetList())

	rows, err := f.GetRows("Invoice", excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	byLabel := map[string][]string{}
	for _, row := range rows {
		if len(row) > 0 {
			byLabel[row[0]] = row
		}
	}

	assert.Equal(t, "CHAIWALA", rows[0][0])
	assert.Equal(t, "INV-20240201-0F8FAD5B", byLabel["Invoice No."][1])
	assert.Equal(t, "AMOUNT (Rs.)", byLabel["ITEMS"][4])
	assert.Equal(t, "Forty-five Rupees", byLabel["Total Amount (in words)"][1])

	require.Len(t, byLabel["TOTAL AMOUNT"], 5)
	assert.Equal(t, "45", byLabel["TOTAL AMOUNT"][4])

	items := 0
	for _, row := range rows {
		if len(row) > 0 && (row[0] == invoice.ItemTea || row[0] == invoice.ItemCoffee) {
			items++
		}
	}

	assert.Equal(t, len(inv.Rows), items)
}
