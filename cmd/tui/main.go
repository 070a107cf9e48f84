package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/chaibook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/config"
	"github.com/MrJamesThe3rd/chaibook/internal/importer"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/storage"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

type model struct {
	deps view.Deps

	width, height int

	// screen is the login form or the shell of the logged-in role.
	screen tea.Model
}

func newModel(deps view.Deps) model {
	return model{deps: deps, screen: view.NewLoginModel(deps, "")}
}

func (m model) Init() tea.Cmd {
	return m.screen.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case view.LoggedInMsg:
		switch msg.Session.Role() {
		case account.RoleAdmin:
			m.screen = view.NewAdminShell(m.deps, msg.Session)
		case account.RoleVendor:
			m.screen = view.NewVendorShell(m.deps, msg.Session, msg.Warning)
		case account.RoleOffice:
			m.screen = view.NewOfficeShell(m.deps, msg.Session)
		}

		return m, m.resize(m.screen.Init())

	case view.LogoutMsg:
		m.screen = view.NewLoginModel(m.deps, msg.Reason)
		return m, m.resize(m.screen.Init())
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)

	return m, cmd
}

// resize replays the last window size to a freshly created screen.
func (m model) resize(cmd tea.Cmd) tea.Cmd {
	if m.width == 0 {
		return cmd
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return tea.Batch(cmd, func() tea.Msg { return size })
}

func (m model) View() string {
	return m.screen.View()
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The screen owns stdout; service logs go to a file instead.
	logFile, err := tea.LogToFile("chaibook-tui.log", "chaibook")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gate := subscription.NewGate(cfg.Billing.ExpiryWarnDays)

	var (
		accountService = account.NewService(store, gate)
		ledgerService  = ledger.NewService(store)
	)

	if err := accountService.SeedAdmin(ctx, cfg.Auth.AdminPassword); err != nil {
		slog.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	deps := view.Deps{
		Accounts:   accountService,
		Ledger:     ledgerService,
		Billing:    billing.NewService(ledgerService),
		Parser:     importer.NewParser(),
		Resolver:   auth.NewResolver(accountService, ledgerService, gate),
		Gate:       gate,
		Currency:   cfg.Billing.Currency,
		DueDays:    cfg.Billing.InvoiceDueDays,
		InvoiceDir: cfg.Billing.InvoiceDir,
	}

	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
