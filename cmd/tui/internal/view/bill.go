package view

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chaibook/internal/billing"
)

// BillModel is the read-only statement of a logged-in office.
type BillModel struct {
	CommonModel
	deps     Deps
	vendorID string
	officeID uuid.UUID

	bill    *billing.Bill
	loading bool
	err     error
}

func NewBillModel(deps Deps, vendorID string, officeID uuid.UUID) BillModel {
	return BillModel{deps: deps, vendorID: vendorID, officeID: officeID, loading: true}
}

func (m BillModel) Title() string     { return "My Bill" }
func (m BillModel) ShortHelp() string { return "Esc: back | r: refresh" }

type billMsg struct {
	bill *billing.Bill
	err  error
}

func (m BillModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.deps.Billing.OfficeBill(ctx, m.vendorID, m.officeID)

		return billMsg{bill: b, err: err}
	}
}

func (m BillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case billMsg:
		m.loading = false
		m.bill, m.err = msg.bill, msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}

	return m, nil
}

func (m BillModel) View() string {
	if m.loading {
		return "Loading bill..."
	}

	if m.err != nil {
		return status("", m.err)
	}

	s := titleStyle.Render(m.bill.Office.Name) + "\n\n"

	if m.bill.Empty() {
		return s + "No entries found."
	}

	rows := make([][]string, 0, len(m.bill.Report.Lines))
	for _, l := range m.bill.Report.Lines {
		rows = append(rows, []string{
			l.Entry.Date,
			strconv.Itoa(l.Entry.Tea),
			strconv.Itoa(l.Entry.Coffee),
			FormatMoney(m.deps.Currency, l.Amount),
		})
	}

	return s + staticTable([]string{"Date", "Tea", "Coffee", "Amount"}, rows) + "\n" +
		fmt.Sprintf("Total: %s    Paid: %s    ", FormatMoney(m.deps.Currency, m.bill.Report.Total), FormatMoney(m.deps.Currency, m.bill.Paid)) +
		warnStyle.Render("Due: "+FormatMoney(m.deps.Currency, m.bill.Due))
}
