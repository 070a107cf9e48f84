package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/importer"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LogoutMsg ends the session. Reason is shown on the login screen.
type LogoutMsg struct {
	Reason string
}

func Logout() tea.Msg {
	return LogoutMsg{}
}

// Deps are the services shared by every screen.
type Deps struct {
	Accounts *account.Service
	Ledger   *ledger.Service
	Billing  *billing.Service
	Parser   *importer.Parser
	Resolver *auth.Resolver
	Gate     subscription.Gate

	Currency   string
	DueDays    int
	InvoiceDir string
}
