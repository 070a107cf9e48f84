package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

type AdminDashboardModel struct {
	CommonModel
	deps Deps

	overview *account.Overview
	loading  bool
	err      error
}

func NewAdminDashboardModel(deps Deps) AdminDashboardModel {
	return AdminDashboardModel{deps: deps, loading: true}
}

func (m AdminDashboardModel) Title() string     { return "Admin Dashboard" }
func (m AdminDashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

type overviewMsg struct {
	overview *account.Overview
	err      error
}

func (m AdminDashboardModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ov, err := m.deps.Accounts.Overview(ctx)

		return overviewMsg{overview: ov, err: err}
	}
}

func (m AdminDashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewMsg:
		m.loading = false
		m.overview, m.err = msg.overview, msg.err
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

func (m AdminDashboardModel) View() string {
	if m.loading {
		return "Loading overview..."
	}

	if m.err != nil {
		return status("", m.err)
	}

	s := fmt.Sprintf("Total Vendors: %d    Plans Expiring Soon: %d\n",
		m.overview.TotalVendors, len(m.overview.Expiring))

	if len(m.overview.Expiring) == 0 {
		return s
	}

	rows := make([][]string, 0, len(m.overview.Expiring))
	for _, e := range m.overview.Expiring {
		rows = append(rows, []string{
			e.Vendor.ID,
			e.Verdict.EndDate.Format("02-01-2006"),
			strconv.Itoa(e.Verdict.DaysLeft),
		})
	}

	return s + "\n" + warnStyle.Render("⚠ Vendors Expiring Soon") + "\n" +
		staticTable([]string{"Vendor", "Expires On", "Days Left"}, rows)
}

type vendorFields struct {
	id         string
	password   string
	end        string
	maxOffices string
	address    string
}

func newVendorFields() *vendorFields {
	return &vendorFields{
		end:        time.Now().Format(time.DateOnly),
		maxOffices: strconv.Itoa(account.DefaultMaxOffices),
	}
}

type AddVendorModel struct {
	CommonModel
	deps Deps

	form   *huh.Form
	fields *vendorFields

	status string
	err    error
	busy   bool
}

func NewAddVendorModel(deps Deps) AddVendorModel {
	m := AddVendorModel{deps: deps, fields: newVendorFields()}
	m.form = m.buildForm()

	return m
}

func (m AddVendorModel) Title() string     { return "Add Vendor" }
func (m AddVendorModel) ShortHelp() string { return "Enter: next | Esc: back" }

func (m AddVendorModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddVendorModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("id").
				Title("Username").
				Value(&m.fields.id).
				Validate(func(s string) error {
					if !account.ValidIdentifier(strings.TrimSpace(s)) {
						return fmt.Errorf("use letters, digits or ._@+-")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				Value(&m.fields.password).
				Validate(required("password")),

			huh.NewInput().
				Key("end").
				Title("Subscription End Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.end).
				Validate(validDate),

			huh.NewInput().
				Key("max_offices").
				Title("Max Offices").
				Value(&m.fields.maxOffices).
				Validate(validPositive),

			huh.NewInput().
				Key("address").
				Title("Vendor Address").
				Value(&m.fields.address),
		),
	).WithWidth(50).WithShowHelp(false)
}

type vendorSavedMsg struct {
	vendor *account.Account
	err    error
}

func (m AddVendorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		return m, Back
	}

	if saved, ok := msg.(vendorSavedMsg); ok {
		m.busy = false
		m.err = saved.err
		m.status = ""

		if saved.err == nil {
			m.status = fmt.Sprintf("Vendor %s added.", saved.vendor.ID)
			m.fields = newVendorFields()
		}

		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = updateForm(m.form, msg)

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		m.busy = true
		return m, m.saveCmd(*m.fields)
	}

	return m, cmd
}

func (m AddVendorModel) saveCmd(f vendorFields) tea.Cmd {
	return func() tea.Msg {
		end, _ := time.Parse(time.DateOnly, strings.TrimSpace(f.end))
		maxOffices, _ := strconv.Atoi(strings.TrimSpace(f.maxOffices))

		ctx, cancel := DbCtx()
		defer cancel()

		v, err := m.deps.Accounts.AddVendor(ctx, account.VendorParams{
			ID:              f.id,
			Secret:          f.password,
			SubscriptionEnd: end,
			MaxOffices:      maxOffices,
			Address:         f.address,
		})

		return vendorSavedMsg{vendor: v, err: err}
	}
}

func (m AddVendorModel) View() string {
	s := m.form.View()

	if line := status(m.status, m.err); line != "" {
		s += "\n" + line
	}

	return s
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}

func validPositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("must be a whole number of at least 1")
	}
	return nil
}

func validCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number of at least 0")
	}
	return nil
}
