package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/invoice"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

type reportState int

const (
	reportStateOffice reportState = iota
	reportStateTimeframe
	reportStateResult
	reportStateConfirmPaid
)

type ReportModel struct {
	CommonModel
	deps     Deps
	vendorID string

	state           reportState
	offices         []*ledger.Office
	officeID        *uuid.UUID
	officeForm      *huh.Form
	timeframePicker TimeframePicker

	report     *billing.Report
	table      table.Model
	paidForm   *huh.Form
	confirmPay *bool

	loading bool
	status  string
	err     error
}

func NewReportModel(deps Deps, vendorID string) ReportModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Tea", Width: 5},
		{Title: "Coffee", Width: 6},
		{Title: "Cups", Width: 5},
		{Title: "Amount", Width: 12},
	}

	return ReportModel{
		deps:            deps,
		vendorID:        vendorID,
		officeID:        new(uuid.UUID),
		confirmPay:      new(bool),
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		table:           newTable(columns, 10),
		loading:         true,
	}
}

func (m ReportModel) Title() string { return "Tea Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back | p: mark as paid | i: text invoice | x: excel invoice"
	case reportStateConfirmPaid:
		return "Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ReportModel) Init() tea.Cmd {
	return loadOfficesCmd(m.deps, m.vendorID)
}

type reportMsg struct {
	report *billing.Report
	err    error
}

type paidMsg struct {
	paid decimal.Decimal
	err  error
}

type invoiceWrittenMsg struct {
	path string
	err  error
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case officesMsg:
		m.loading = false
		m.offices, m.err = msg.offices, msg.err

		if m.err != nil || len(m.offices) == 0 {
			return m, nil
		}

		m.officeForm = m.buildOfficeForm()

		return m, m.officeForm.Init()

	case TimeframeSelectedMsg:
		m.loading = true
		return m, m.reportCmd(billing.Filter{OfficeID: *m.officeID, From: msg.From, To: msg.To})

	case reportMsg:
		m.loading = false
		m.status = ""
		m.err = msg.err

		if msg.err != nil {
			return m, nil
		}

		m.report = msg.report
		m.refreshTable()
		m.state = reportStateResult

		return m, nil

	case paidMsg:
		m.state = reportStateResult
		m.paidForm = nil
		m.err = msg.err
		m.status = ""

		if msg.err == nil {
			m.status = fmt.Sprintf("Marked as paid. Total paid by %s: %s.", m.officeName(), FormatMoney(m.deps.Currency, msg.paid))
		}

		return m, nil

	case invoiceWrittenMsg:
		m.err = msg.err
		m.status = ""

		if msg.err == nil {
			m.status = fmt.Sprintf("Invoice written to %s.", msg.path)
		}

		return m, nil
	}

	switch m.state {
	case reportStateOffice:
		return m.updateOffice(msg)
	case reportStateTimeframe:
		return m.updateTimeframe(msg)
	case reportStateResult:
		return m.updateResult(msg)
	case reportStateConfirmPaid:
		return m.updateConfirmPaid(msg)
	}

	return m, nil
}

func (m ReportModel) buildOfficeForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], 0, len(m.offices))
	for _, o := range m.offices {
		options = append(options, huh.NewOption(o.Name, o.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().Key("office").Title("Office").Options(options...).Value(m.officeID),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m ReportModel) updateOffice(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		return m, Back
	}

	if m.officeForm == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.officeForm, cmd = updateForm(m.officeForm, msg)

	switch m.officeForm.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		m.state = reportStateTimeframe
		m.timeframePicker.Reset()

		return m, nil
	}

	return m, cmd
}

func (m ReportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) && m.timeframePicker.IsSelecting() {
		m.state = reportStateOffice
		m.err = nil
		m.officeForm = m.buildOfficeForm()

		return m, m.officeForm.Init()
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = reportStateTimeframe
			m.timeframePicker.Reset()
			m.status, m.err = "", nil

			return m, nil
		case "p":
			if m.report.Empty() {
				m.err = billing.ErrNoData
				return m, nil
			}

			*m.confirmPay = false
			m.paidForm = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Mark %s as paid by %s?", FormatMoney(m.deps.Currency, m.report.Total), m.officeName())).
						Description("Payments add up; marking the same period again counts it twice.").
						Value(m.confirmPay),
				),
			).WithWidth(50).WithShowHelp(false)
			m.state = reportStateConfirmPaid

			return m, m.paidForm.Init()
		case "i":
			return m, m.invoiceCmd(invoice.TextRenderer{Currency: m.deps.Currency})
		case "x":
			return m, m.invoiceCmd(invoice.XLSXRenderer{Currency: m.deps.Currency})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReportModel) updateConfirmPaid(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		m.state = reportStateResult
		m.paidForm = nil

		return m, nil
	}

	var cmd tea.Cmd
	m.paidForm, cmd = updateForm(m.paidForm, msg)

	switch m.paidForm.State {
	case huh.StateAborted:
		m.state = reportStateResult
		m.paidForm = nil

		return m, nil
	case huh.StateCompleted:
		m.state = reportStateResult
		m.paidForm = nil

		if !*m.confirmPay {
			return m, nil
		}

		return m, m.markPaidCmd()
	}

	return m, cmd
}

func (m ReportModel) reportCmd(f billing.Filter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.deps.Billing.Report(ctx, m.vendorID, f)

		return reportMsg{report: r, err: err}
	}
}

func (m ReportModel) markPaidCmd() tea.Cmd {
	report := m.report

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		paid, err := m.deps.Billing.MarkPaid(ctx, m.vendorID, report)

		return paidMsg{paid: paid, err: err}
	}
}

func (m ReportModel) invoiceCmd(renderer invoice.Renderer) tea.Cmd {
	report := m.report

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		vendor, err := m.deps.Accounts.Vendor(ctx, m.vendorID)
		if err != nil {
			return invoiceWrittenMsg{err: err}
		}

		office, err := m.deps.Ledger.Office(ctx, m.vendorID, report.Filter.OfficeID)
		if err != nil {
			return invoiceWrittenMsg{err: err}
		}

		inv, err := invoice.Build(vendor, office, report, time.Now(), m.deps.DueDays)
		if err != nil {
			return invoiceWrittenMsg{err: err}
		}

		path, err := writeInvoice(m.deps.InvoiceDir, inv, renderer)

		return invoiceWrittenMsg{path: path, err: err}
	}
}

func writeInvoice(dir string, inv *invoice.Invoice, r invoice.Renderer) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating invoice directory: %w", err)
	}

	path := filepath.Join(dir, inv.FileName(r.Extension()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating invoice file: %w", err)
	}

	if err := r.Render(f, inv); err != nil {
		return "", errors.Join(fmt.Errorf("rendering invoice: %w", err), f.Close())
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing invoice file: %w", err)
	}

	return path, nil
}

func (m ReportModel) officeName() string {
	for _, o := range m.offices {
		if o.ID == *m.officeID {
			return o.Name
		}
	}

	return ""
}

func (m *ReportModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.report.Lines))

	for _, l := range m.report.Lines {
		rows = append(rows, table.Row{
			l.Entry.Date,
			strconv.Itoa(l.Entry.Tea),
			strconv.Itoa(l.Entry.Coffee),
			strconv.Itoa(l.Cups),
			FormatMoney(m.deps.Currency, l.Amount),
		})
	}

	m.table.SetRows(rows)
}

func (m ReportModel) View() string {
	if m.loading {
		return "Loading..."
	}

	if len(m.offices) == 0 {
		if m.err != nil {
			return status("", m.err)
		}

		return "No offices yet."
	}

	var s string

	switch m.state {
	case reportStateOffice:
		s = m.officeForm.View()
	case reportStateTimeframe:
		s = fmt.Sprintf("Office: %s\n\n%s", m.officeName(), m.timeframePicker.View())
	case reportStateResult, reportStateConfirmPaid:
		s = m.viewResult()
	}

	if line := status(m.status, m.err); line != "" {
		s += "\n\n" + line
	}

	return s
}

func (m ReportModel) viewResult() string {
	period := "all time"
	if f := m.report.Filter; f.From != "" || f.To != "" {
		period = fmt.Sprintf("%s to %s", f.From, f.To)
	}

	s := fmt.Sprintf("Office: %s    Period: %s\n\n", m.officeName(), period)

	if m.report.Empty() {
		return s + "No entries in this period."
	}

	s += boxed(m.table.View()) + "\n" +
		successStyle.Render(fmt.Sprintf("Total: %s    Cups: %d", FormatMoney(m.deps.Currency, m.report.Total), m.report.Cups))

	if m.state == reportStateConfirmPaid && m.paidForm != nil {
		s += "\n\n" + m.paidForm.View()
	}

	return s
}
