package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	screenStyle  = lipgloss.NewStyle().Padding(1, 2)
)

// FormatMoney renders an amount with two decimals behind the currency symbol.
func FormatMoney(currency string, d decimal.Decimal) string {
	return fmt.Sprintf("%s%s", currency, d.StringFixed(2))
}

// DbCtx returns a context with a standard timeout for storage operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// status renders the outcome line of the last action.
func status(msg string, err error) string {
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	if msg == "" {
		return ""
	}

	return successStyle.Render(msg)
}
