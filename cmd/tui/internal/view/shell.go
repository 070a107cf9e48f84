package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/chaibook/internal/auth"
)

// MenuItem opens a screen. A nil Open logs out.
type MenuItem struct {
	Label string
	Open  func() View
}

// Shell is the menu of a logged-in role and hosts the screen opened from it.
type Shell struct {
	CommonModel

	heading string
	banner  string
	items   []MenuItem
	cursor  int
	current View

	// admit runs before every screen opens. It returns the banner to show, and
	// an error ends the session.
	admit func() (string, error)
}

func (m Shell) Init() tea.Cmd {
	return nil
}

func (m Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width, m.Height = size.Width, size.Height
	}

	if m.current != nil {
		if _, ok := msg.(BackMsg); ok {
			m.current = nil
			return m, nil
		}

		next, cmd := m.current.Update(msg)
		m.current = next.(View)

		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		return m.open(m.cursor)
	default:
		k := keyMsg.String()
		if len(k) != 1 || k[0] < '1' || k[0] > '9' {
			break
		}

		if n := int(k[0] - '1'); n < len(m.items) {
			m.cursor = n
			return m.open(n)
		}
	}

	return m, nil
}

func (m Shell) open(i int) (tea.Model, tea.Cmd) {
	item := m.items[i]
	if item.Open == nil {
		return m, Logout
	}

	if m.admit != nil {
		banner, err := m.admit()
		if err != nil {
			return m, func() tea.Msg { return LogoutMsg{Reason: err.Error()} }
		}

		m.banner = banner
	}

	m.current = item.Open()

	return m, m.current.Init()
}

func (m Shell) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.heading))

	if m.current != nil {
		b.WriteString(titleStyle.Render(" › " + m.current.Title()))
	}

	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(warnStyle.Render("🔔 "+m.banner) + "\n")
	}

	b.WriteString("\n")

	if m.current != nil {
		b.WriteString(m.current.View())
		b.WriteString("\n\n" + helpStyle.Render(m.current.ShortHelp()))

		return screenStyle.Render(b.String())
	}

	for i, item := range m.items {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %d. %s\n", cursor, i+1, item.Label)
	}

	b.WriteString("\n" + helpStyle.Render("Enter/number: open | q: quit"))

	return screenStyle.Render(b.String())
}

func NewAdminShell(deps Deps, s auth.Session) Shell {
	return Shell{
		heading: fmt.Sprintf("Chaibook · %s (admin)", s.Identifier()),
		items: []MenuItem{
			{Label: "Dashboard", Open: func() View { return NewAdminDashboardModel(deps) }},
			{Label: "Add Vendor", Open: func() View { return NewAddVendorModel(deps) }},
			{Label: "Manage Vendors", Open: func() View { return NewManageVendorsModel(deps) }},
			{Label: "Logout"},
		},
	}
}

// NewVendorShell re-checks the subscription before each screen, so a plan that
// lapses mid-session ends it.
func NewVendorShell(deps Deps, s auth.Session, warning string) Shell {
	return Shell{
		heading: fmt.Sprintf("Chaibook · %s (vendor)", s.Identifier()),
		banner:  warning,
		items: []MenuItem{
			{Label: "Dashboard", Open: func() View { return NewVendorDashboardModel(deps, s.VendorID()) }},
			{Label: "Add Office", Open: func() View { return NewAddOfficeModel(deps, s.VendorID()) }},
			{Label: "Manage Offices", Open: func() View { return NewOfficesModel(deps, s.VendorID()) }},
			{Label: "Tea Entry", Open: func() View { return NewEntryModel(deps, s.VendorID()) }},
			{Label: "Tea Report", Open: func() View { return NewReportModel(deps, s.VendorID()) }},
			{Label: "Import Entries", Open: func() View { return NewImportModel(deps, s.VendorID()) }},
			{Label: "Logout"},
		},
		admit: func() (string, error) {
			ctx, cancel := DbCtx()
			defer cancel()

			verdict, err := deps.Resolver.Admit(ctx, s)
			if err != nil {
				return "", err
			}

			return verdict.Warning(), nil
		},
	}
}

func NewOfficeShell(deps Deps, s auth.Session) Shell {
	return Shell{
		heading: fmt.Sprintf("Chaibook · %s (office)", s.Identifier()),
		items: []MenuItem{
			{Label: "My Bill", Open: func() View { return NewBillModel(deps, s.VendorID(), s.OfficeID()) }},
			{Label: "Logout"},
		},
	}
}
