package invoice

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

const pageWidth = 72

// Renderer writes an invoice in one file format.
type Renderer interface {
	Render(w io.Writer, inv *Invoice) error
	Extension() string
	ContentType() string
}

// TextRenderer prints an invoice as plain text with box-drawn tables.
type TextRenderer struct {
	Currency string
}

func (TextRenderer) Extension() string   { return ".txt" }
func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (r TextRenderer) money(d decimal.Decimal) string {
	return r.Currency + d.StringFixed(2)
}

func (r TextRenderer) Render(w io.Writer, inv *Invoice) error {
	center := lipgloss.NewStyle().Width(pageWidth).Align(lipgloss.Center)
	right := lipgloss.NewStyle().Width(pageWidth).Align(lipgloss.Right)

	var b strings.Builder

	b.WriteString(center.Render(strings.ToUpper(inv.VendorName)) + "\n")
	b.WriteString(center.Render(inv.VendorAddress) + "\n")
	b.WriteString(center.Render("Mobile: "+inv.OfficeMobile) + "\n\n")

	meta := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(
			[]string{"Invoice No.: " + inv.Number, "Invoice Date: " + inv.IssuedAt.Format("02/01/2006")},
			[]string{"Bill To: " + inv.OfficeName, "Due Date: " + inv.DueAt.Format("02/01/2006")},
			[]string{"Email: " + inv.OfficeEmail, period(inv.From, inv.To)},
		)
	b.WriteString(meta.String() + "\n\n")

	items := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ITEMS", "DATE", "QTY.", "RATE", "AMOUNT").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col >= 2 && row != table.HeaderRow {
				return s.Align(lipgloss.Right)
			}

			return s
		})

	for _, row := range inv.Rows {
		items.Row(row.Item, row.Date, strconv.Itoa(row.Cups)+" Cups", row.Rate.StringFixed(2), row.Amount.StringFixed(2))
	}

	b.WriteString(items.String() + "\n\n")

	totals := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(
			[]string{"SUBTOTAL", fmt.Sprintf("%d Cups", inv.Cups), r.money(inv.Total)},
			[]string{"TOTAL AMOUNT", "Current Balance", r.money(inv.Total)},
		)
	b.WriteString(totals.String() + "\n\n")

	words := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Total Amount (in words)").
		Row(inv.Words)
	b.WriteString(words.String() + "\n\n")

	b.WriteString(right.Render("AUTHORISED SIGNATORY FOR") + "\n")
	b.WriteString(right.Render(strings.ToUpper(inv.VendorName)) + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing invoice: %w", err)
	}

	return nil
}

func period(from, to string) string {
	switch {
	case from == "" && to == "":
		return "Period: all entries"
	case from == "":
		return "Period: until " + to
	case to == "":
		return "Period: from " + from
	}

	return fmt.Sprintf("Period: %s to %s", from, to)
}
