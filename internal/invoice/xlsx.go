package invoice

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Invoice"

// XLSXRenderer writes an invoice as a single-sheet Excel workbook with numeric
// amount cells.
type XLSXRenderer struct {
	Currency string
}

func (XLSXRenderer) Extension() string { return ".xlsx" }

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r XLSXRenderer) Render(w io.Writer, inv *Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	sw := sheetWriter{f: f}

	sw.row(strings.ToUpper(inv.VendorName))
	sw.style(bold, 1)
	sw.row(inv.VendorAddress)
	sw.skip()
	sw.row("Invoice No.", inv.Number, "Invoice Date", inv.IssuedAt.Format("02/01/2006"))
	sw.row("Bill To", inv.OfficeName, "Due Date", inv.DueAt.Format("02/01/2006"))
	sw.row("Email", inv.OfficeEmail, "Mobile", inv.OfficeMobile)
	sw.row(period(inv.From, inv.To))
	sw.skip()

	sw.row("ITEMS", "DATE", "QTY.", "RATE", "AMOUNT ("+r.Currency+")")
	sw.style(bold, 5)

	for _, item := range inv.Rows {
		sw.row(item.Item, item.Date, item.Cups, item.Rate.InexactFloat64(), item.Amount.InexactFloat64())
		sw.styleRange(money, 4, 5)
	}

	sw.skip()
	sw.row("SUBTOTAL", "", inv.Cups, "", inv.Total.InexactFloat64())
	sw.styleRange(money, 5, 5)
	sw.row("TOTAL AMOUNT", "Current Balance", "", "", inv.Total.InexactFloat64())
	sw.style(bold, 2)
	sw.styleRange(money, 5, 5)
	sw.row("Total Amount (in words)", inv.Words)
	sw.skip()
	sw.row("AUTHORISED SIGNATORY FOR " + strings.ToUpper(inv.VendorName))

	if sw.err != nil {
		return fmt.Errorf("writing sheet: %w", sw.err)
	}

	for col, width := range map[string]float64{"A": 24, "B": 18, "C": 14, "D": 14, "E": 16} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// sheetWriter appends rows to the invoice sheet and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	next int
	err  error
}

func (sw *sheetWriter) row(values ...any) {
	sw.next++

	if sw.err != nil {
		return
	}

	cell, err := excelize.CoordinatesToCellName(1, sw.next)
	if err != nil {
		sw.err = err
		return
	}

	sw.err = sw.f.SetSheetRow(sheetName, cell, &values)
}

func (sw *sheetWriter) skip() {
	sw.next++
}

// style applies a style to the first n cells of the last row.
func (sw *sheetWriter) style(id, n int) {
	sw.styleRange(id, 1, n)
}

func (sw *sheetWriter) styleRange(id, from, to int) {
	if sw.err != nil {
		return
	}

	first, err := excelize.CoordinatesToCellName(from, sw.next)
	if err != nil {
		sw.err = err
		return
	}

	last, err := excelize.CoordinatesToCellName(to, sw.next)
	if err != nil {
		sw.err = err
		return
	}

	sw.err = sw.f.SetCellStyle(sheetName, first, last, id)
}
