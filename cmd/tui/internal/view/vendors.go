package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

type manageState int

const (
	manageStateBrowse manageState = iota
	manageStateUpdate
	manageStateDelete
)

// vendorRow is a vendor with the size of its ledger.
type vendorRow struct {
	vendor  *account.Account
	offices int
	entries int
}

type updateFields struct {
	end        string
	maxOffices string
	confirm    bool
}

type ManageVendorsModel struct {
	CommonModel
	deps Deps

	state  manageState
	table  table.Model
	rows   []vendorRow
	form   *huh.Form
	fields *updateFields

	loading bool
	busy    bool
	status  string
	err     error
}

func NewManageVendorsModel(deps Deps) ManageVendorsModel {
	columns := []table.Column{
		{Title: "Vendor", Width: 16},
		{Title: "Subscription End", Width: 16},
		{Title: "Status", Width: 14},
		{Title: "Days Left", Width: 9},
		{Title: "Max Offices", Width: 11},
		{Title: "Offices", Width: 7},
		{Title: "Entries", Width: 7},
	}

	return ManageVendorsModel{
		deps:    deps,
		table:   newTable(columns, 12),
		fields:  &updateFields{},
		loading: true,
	}
}

func (m ManageVendorsModel) Title() string { return "Manage Vendors" }

func (m ManageVendorsModel) ShortHelp() string {
	if m.state != manageStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | u: update | d: delete | r: refresh"
}

type vendorsMsg struct {
	rows []vendorRow
	err  error
}

func (m ManageVendorsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ManageVendorsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		vendors, err := m.deps.Accounts.ListVendors(ctx)
		if err != nil {
			return vendorsMsg{err: err}
		}

		rows := make([]vendorRow, 0, len(vendors))

		for _, v := range vendors {
			offices, err := m.deps.Ledger.Offices(ctx, v.ID)
			if err != nil {
				return vendorsMsg{err: err}
			}

			entries, err := m.deps.Ledger.Entries(ctx, v.ID)
			if err != nil {
				return vendorsMsg{err: err}
			}

			rows = append(rows, vendorRow{vendor: v, offices: len(offices), entries: len(entries)})
		}

		return vendorsMsg{rows: rows}
	}
}

type vendorChangedMsg struct {
	status string
	err    error
}

func (m ManageVendorsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case vendorsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case vendorChangedMsg:
		m.busy = false
		m.status, m.err = msg.status, msg.err
		m.state = manageStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	}

	if m.busy {
		return m, nil
	}

	if m.state != manageStateBrowse {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "u":
			return m.startUpdate()
		case "d":
			return m.startDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ManageVendorsModel) selected() (vendorRow, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return vendorRow{}, false
	}

	return m.rows[idx], true
}

func (m ManageVendorsModel) startUpdate() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.fields = &updateFields{
		end:        row.vendor.SubscriptionEnd.Format(time.DateOnly),
		maxOffices: strconv.Itoa(row.vendor.MaxOffices),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("end").
				Title("Subscription End").
				Value(&m.fields.end).
				Validate(validDate),

			huh.NewInput().
				Key("max_offices").
				Title("Max Offices").
				Value(&m.fields.maxOffices).
				Validate(validPositive),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = manageStateUpdate
	m.table.Blur()

	return m, m.form.Init()
}

func (m ManageVendorsModel) startDelete() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.fields = &updateFields{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete vendor %s?", row.vendor.ID)).
				Description(fmt.Sprintf("Removes %d offices, %d entries and all payments. This cannot be undone.", row.offices, row.entries)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirm),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = manageStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ManageVendorsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		m.state = manageStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = updateForm(m.form, msg)

	switch m.form.State {
	case huh.StateAborted:
		m.state = manageStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	case huh.StateCompleted:
		row, _ := m.selected()

		if m.state == manageStateDelete {
			if !m.fields.confirm {
				return m.Update(vendorChangedMsg{})
			}

			m.busy = true
			return m, m.deleteCmd(row.vendor.ID)
		}

		m.busy = true
		return m, m.updateCmd(row.vendor.ID, *m.fields)
	}

	return m, cmd
}

func (m ManageVendorsModel) updateCmd(id string, f updateFields) tea.Cmd {
	return func() tea.Msg {
		end, _ := time.Parse(time.DateOnly, strings.TrimSpace(f.end))
		maxOffices, _ := strconv.Atoi(strings.TrimSpace(f.maxOffices))

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.deps.Accounts.UpdateVendor(ctx, id, end, maxOffices); err != nil {
			return vendorChangedMsg{err: err}
		}

		return vendorChangedMsg{status: fmt.Sprintf("Updated %s.", id)}
	}
}

func (m ManageVendorsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.deps.Accounts.DeleteVendor(ctx, id); err != nil {
			return vendorChangedMsg{err: err}
		}

		return vendorChangedMsg{status: fmt.Sprintf("Deleted vendor %s and all data.", id)}
	}
}

func (m *ManageVendorsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))

	for _, r := range m.rows {
		verdict := m.deps.Gate.Check(r.vendor.SubscriptionEnd)

		rows = append(rows, table.Row{
			r.vendor.ID,
			r.vendor.SubscriptionEnd.Format(time.DateOnly),
			verdict.Status.String(),
			strconv.Itoa(verdict.DaysLeft),
			strconv.Itoa(r.vendor.MaxOffices),
			strconv.Itoa(r.offices),
			strconv.Itoa(r.entries),
		})
	}

	m.table.SetRows(rows)
}

func (m ManageVendorsModel) View() string {
	if m.loading {
		return "Loading vendors..."
	}

	if len(m.rows) == 0 && m.err == nil {
		return "No vendors yet."
	}

	content := boxed(m.table.View())

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if line := status(m.status, m.err); line != "" {
		content = line + "\n" + content
	}

	return content
}
