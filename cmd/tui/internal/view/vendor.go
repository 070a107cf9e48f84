package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

type VendorDashboardModel struct {
	CommonModel
	deps     Deps
	vendorID string

	dash    *billing.Dashboard
	loading bool
	err     error
}

func NewVendorDashboardModel(deps Deps, vendorID string) VendorDashboardModel {
	return VendorDashboardModel{deps: deps, vendorID: vendorID, loading: true}
}

func (m VendorDashboardModel) Title() string     { return "Vendor Dashboard" }
func (m VendorDashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

type dashboardMsg struct {
	dash *billing.Dashboard
	err  error
}

func (m VendorDashboardModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		dash, err := m.deps.Billing.Dashboard(ctx, m.vendorID)

		return dashboardMsg{dash: dash, err: err}
	}
}

func (m VendorDashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.dash, m.err = msg.dash, msg.err
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

func (m VendorDashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return status("", m.err)
	}

	s := fmt.Sprintf("Total Offices: %d    Total Entries: %d\n\n", m.dash.Offices, m.dash.Entries)

	if len(m.dash.Dues) == 0 {
		return s + "No offices yet."
	}

	rows := make([][]string, 0, len(m.dash.Dues))
	for _, d := range m.dash.Dues {
		rows = append(rows, []string{
			d.Office.Name,
			FormatMoney(m.deps.Currency, d.Total),
			FormatMoney(m.deps.Currency, d.Paid),
			FormatMoney(m.deps.Currency, d.Due),
		})
	}

	return s + titleStyle.Render("Dues per Office") + "\n" +
		staticTable([]string{"Office", "Billed", "Paid", "Due"}, rows)
}

type officeFields struct {
	name   string
	email  string
	mobile string
}

type AddOfficeModel struct {
	CommonModel
	deps     Deps
	vendorID string

	form   *huh.Form
	fields *officeFields

	status string
	err    error
	busy   bool
}

func NewAddOfficeModel(deps Deps, vendorID string) AddOfficeModel {
	m := AddOfficeModel{deps: deps, vendorID: vendorID, fields: &officeFields{}}
	m.form = m.buildForm()

	return m
}

func (m AddOfficeModel) Title() string     { return "Add Office" }
func (m AddOfficeModel) ShortHelp() string { return "Enter: next | Esc: back" }

func (m AddOfficeModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddOfficeModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Name").Value(&m.fields.name).Validate(required("name")),
			huh.NewInput().Key("email").Title("Email").Value(&m.fields.email),
			huh.NewInput().
				Key("mobile").
				Title("Mobile").
				Description("The office logs in with its email or mobile; the mobile is its password").
				Value(&m.fields.mobile).
				Validate(required("mobile")),
		),
	).WithWidth(50).WithShowHelp(false)
}

type officeSavedMsg struct {
	office *ledger.Office
	err    error
}

func (m AddOfficeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		return m, Back
	}

	if saved, ok := msg.(officeSavedMsg); ok {
		m.busy = false
		m.err = saved.err
		m.status = ""

		if saved.err == nil {
			m.status = fmt.Sprintf("Office %s added.", saved.office.Name)
			m.fields = &officeFields{}
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

func (m AddOfficeModel) saveCmd(f officeFields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		vendor, err := m.deps.Accounts.Vendor(ctx, m.vendorID)
		if err != nil {
			return officeSavedMsg{err: err}
		}

		o, err := m.deps.Ledger.AddOffice(ctx, vendor, ledger.OfficeParams{
			Name:   f.name,
			Email:  f.email,
			Mobile: f.mobile,
		})

		return officeSavedMsg{office: o, err: err}
	}
}

func (m AddOfficeModel) View() string {
	s := m.form.View()

	if line := status(m.status, m.err); line != "" {
		s += "\n" + line
	}

	return s
}

type OfficesModel struct {
	CommonModel
	deps     Deps
	vendorID string

	table   table.Model
	offices []*ledger.Office
	loading bool
	err     error
}

func NewOfficesModel(deps Deps, vendorID string) OfficesModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 24},
		{Title: "Mobile", Width: 14},
		{Title: "Logins", Width: 30},
		{Title: "Added", Width: 10},
	}

	return OfficesModel{deps: deps, vendorID: vendorID, table: newTable(columns, 12), loading: true}
}

func (m OfficesModel) Title() string     { return "Manage Offices" }
func (m OfficesModel) ShortHelp() string { return "Esc: back | r: refresh" }

type officesMsg struct {
	offices []*ledger.Office
	err     error
}

func (m OfficesModel) Init() tea.Cmd {
	return loadOfficesCmd(m.deps, m.vendorID)
}

func loadOfficesCmd(deps Deps, vendorID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		offices, err := deps.Ledger.Offices(ctx, vendorID)

		return officesMsg{offices: offices, err: err}
	}
}

func (m OfficesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case officesMsg:
		m.loading = false
		m.offices, m.err = msg.offices, msg.err

		rows := make([]table.Row, 0, len(m.offices))
		for _, o := range m.offices {
			added := ""
			if !o.CreatedAt.IsZero() {
				added = o.CreatedAt.Format(time.DateOnly)
			}

			rows = append(rows, table.Row{o.Name, o.Email, o.Mobile, strings.Join(o.Credential.Logins, ", "), added})
		}

		m.table.SetRows(rows)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OfficesModel) View() string {
	if m.loading {
		return "Loading offices..."
	}

	if m.err != nil {
		return status("", m.err)
	}

	if len(m.offices) == 0 {
		return "No offices yet."
	}

	return boxed(m.table.View())
}

type entryFields struct {
	office      uuid.UUID
	tea         string
	coffee      string
	teaPrice    string
	coffeePrice string
	date        string
}

func newEntryFields() *entryFields {
	return &entryFields{
		tea:         "0",
		coffee:      "0",
		teaPrice:    "0",
		coffeePrice: "0",
		date:        time.Now().Format(time.DateOnly),
	}
}

type EntryModel struct {
	CommonModel
	deps     Deps
	vendorID string

	offices []*ledger.Office
	form    *huh.Form
	fields  *entryFields

	loading bool
	busy    bool
	status  string
	err     error
}

func NewEntryModel(deps Deps, vendorID string) EntryModel {
	return EntryModel{deps: deps, vendorID: vendorID, fields: newEntryFields(), loading: true}
}

func (m EntryModel) Title() string     { return "Tea Entry" }
func (m EntryModel) ShortHelp() string { return "Enter: next | Esc: back" }

func (m EntryModel) Init() tea.Cmd {
	return loadOfficesCmd(m.deps, m.vendorID)
}

func (m EntryModel) buildForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], 0, len(m.offices))
	for _, o := range m.offices {
		options = append(options, huh.NewOption(o.Name, o.ID))
	}

	if m.fields.office == uuid.Nil {
		m.fields.office = m.offices[0].ID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().Key("office").Title("Office").Options(options...).Value(&m.fields.office),
			huh.NewInput().Key("tea").Title("Tea").Value(&m.fields.tea).Validate(validCount),
			huh.NewInput().Key("coffee").Title("Coffee").Value(&m.fields.coffee).Validate(validCount),
			huh.NewInput().Key("tea_price").Title("Tea Price").Value(&m.fields.teaPrice).Validate(validPrice),
			huh.NewInput().Key("coffee_price").Title("Coffee Price").Value(&m.fields.coffeePrice).Validate(validPrice),
			huh.NewInput().Key("date").Title("Date").Placeholder("YYYY-MM-DD").Value(&m.fields.date).Validate(validDate),
		),
	).WithWidth(50).WithShowHelp(false)
}

type entrySavedMsg struct {
	entry *ledger.Entry
	err   error
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		return m, Back
	}

	switch msg := msg.(type) {
	case officesMsg:
		m.loading = false
		m.offices, m.err = msg.offices, msg.err

		if m.err != nil || len(m.offices) == 0 {
			return m, nil
		}

		m.form = m.buildForm()

		return m, m.form.Init()

	case entrySavedMsg:
		m.busy = false
		m.err = msg.err
		m.status = ""

		if msg.err == nil {
			m.status = fmt.Sprintf("Entry saved: %s, %s.", msg.entry.Office, FormatMoney(m.deps.Currency, msg.entry.Amount()))

			// Keep office, prices and date for the next delivery.
			m.fields.tea, m.fields.coffee = "0", "0"
		}

		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.form == nil || m.busy {
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

func (m EntryModel) saveCmd(f entryFields) tea.Cmd {
	return func() tea.Msg {
		teaCups, _ := strconv.Atoi(strings.TrimSpace(f.tea))
		coffeeCups, _ := strconv.Atoi(strings.TrimSpace(f.coffee))
		teaPrice, _ := decimal.NewFromString(strings.TrimSpace(f.teaPrice))
		coffeePrice, _ := decimal.NewFromString(strings.TrimSpace(f.coffeePrice))

		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.deps.Ledger.RecordEntry(ctx, m.vendorID, ledger.EntryParams{
			OfficeID:    f.office,
			Tea:         teaCups,
			Coffee:      coffeeCups,
			TeaPrice:    teaPrice,
			CoffeePrice: coffeePrice,
			Date:        strings.TrimSpace(f.date),
		})

		return entrySavedMsg{entry: e, err: err}
	}
}

func (m EntryModel) View() string {
	if m.loading {
		return "Loading offices..."
	}

	if m.form == nil {
		if m.err != nil {
			return status("", m.err)
		}

		return "Add an office first."
	}

	s := m.form.View()

	if line := status(m.status, m.err); line != "" {
		s += "\n" + line
	}

	return s
}

func validPrice(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return fmt.Errorf("must be a price of at least 0")
	}
	return nil
}
