package view

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStatePreview
	importStateImporting
	importStateResult
)

// ImportModel loads delivery entries from a CSV file. The whole file is
// rejected when any row is invalid.
type ImportModel struct {
	CommonModel
	deps     Deps
	vendorID string

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	preview    table.Model

	path   string
	params []ledger.EntryParams

	status string
	err    error
}

func NewImportModel(deps Deps, vendorID string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Office", Width: 20},
		{Title: "Tea", Width: 5},
		{Title: "Coffee", Width: 6},
		{Title: "Tea Price", Width: 9},
		{Title: "Coffee Price", Width: 12},
	}

	return ImportModel{
		deps:       deps,
		vendorID:   vendorID,
		filePicker: fp,
		spinner:    s,
		preview:    newTable(columns, 10),
	}
}

func (m ImportModel) Title() string { return "Import Entries" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: import all | Esc: pick another file"
	case importStateImporting:
		return "Importing..."
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

type parsedMsg struct {
	params []ledger.EntryParams
	err    error
}

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview && msg.Type == tea.KeyEnter {
			m.state = importStateImporting
			return m, tea.Batch(m.spinner.Tick, m.importCmd())
		}

	case parsedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err

			return m, nil
		}

		m.params = msg.params
		m.refreshPreview()
		m.state = importStatePreview

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Imported %d entries.", msg.count)
		}

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case importStatePreview:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)

		return m, cmd
	case importStateFilePick:
	default:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.params = nil
		m.status, m.err = "", nil

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		params, err := m.deps.Parser.ParseFile(path, f)

		return parsedMsg{params: params, err: err}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	params := m.params

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		entries, err := m.deps.Ledger.ImportEntries(ctx, m.vendorID, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(entries)}
	}
}

func (m *ImportModel) refreshPreview() {
	rows := make([]table.Row, 0, len(m.params))

	for _, p := range m.params {
		rows = append(rows, table.Row{
			p.Date,
			p.OfficeName,
			strconv.Itoa(p.Tea),
			strconv.Itoa(p.Coffee),
			p.TeaPrice.String(),
			p.CoffeePrice.String(),
		})
	}

	m.preview.SetRows(rows)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return fmt.Sprintf("Select entries file (CSV with date, office, tea, coffee, tea_price, coffee_price):\n\n%s",
			m.filePicker.View())
	case importStatePreview:
		return fmt.Sprintf("%s: %d entries\n\n%s", m.path, len(m.params), boxed(m.preview.View()))
	case importStateImporting:
		return fmt.Sprintf("%s Importing %d entries...", m.spinner.View(), len(m.params))
	case importStateResult:
		return status(m.status, m.err) + "\n\n(Esc to pick another file)"
	}

	return ""
}
