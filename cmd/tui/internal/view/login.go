package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/chaibook/internal/auth"
)

// LoggedInMsg carries the session of a successful login.
type LoggedInMsg struct {
	Session auth.Session
	Warning string
}

type loginFields struct {
	identifier string
	secret     string
}

type LoginModel struct {
	CommonModel
	deps Deps

	form   *huh.Form
	fields *loginFields

	reason string
	err    error

	busy bool
}

func NewLoginModel(deps Deps, reason string) LoginModel {
	m := LoginModel{deps: deps, fields: &loginFields{}, reason: reason}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string     { return "Login" }
func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("identifier").
				Title("Username, email or mobile").
				Value(&m.fields.identifier).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("secret").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.secret),
		),
	).WithWidth(50).WithShowHelp(false)
}

type loginFailedMsg struct {
	err error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if failed, ok := msg.(loginFailedMsg); ok {
		m.busy = false
		m.err = failed.err
		m.reason = ""
		m.fields.secret = ""
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
		return m, tea.Quit
	case huh.StateCompleted:
		m.busy = true
		return m, m.loginCmd(strings.TrimSpace(m.fields.identifier), m.fields.secret)
	}

	return m, cmd
}

func (m LoginModel) loginCmd(identifier, secret string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, verdict, err := m.deps.Resolver.Login(ctx, identifier, secret)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				err = errors.New("invalid credentials")
			}

			return loginFailedMsg{err: err}
		}

		return LoggedInMsg{Session: s, Warning: verdict.Warning()}
	}
}

func (m LoginModel) View() string {
	s := titleStyle.Render("☕ Chaibook Login") + "\n\n"

	if m.reason != "" {
		s += warnStyle.Render(m.reason) + "\n\n"
	}

	s += m.form.View()

	if m.err != nil {
		s += "\n" + status("", m.err)
	}

	return screenStyle.Render(s)
}
