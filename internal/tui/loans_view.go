package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nivkeidan/finbook/internal/api"
	"github.com/nivkeidan/finbook/internal/loans"
)

func (m model) enterLoans() (tea.Model, tea.Cmd) {
	m.screen = screenLoans
	m.loanCursor = 0
	m.breakdownLoanID = ""
	m.breakdownRows = nil
	m.breakdownErr = ""

	if len(m.state.SavedLoans) == 1 {
		return m.selectLoan(0)
	}
	return m, nil
}

func (m model) selectLoan(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.state.SavedLoans) {
		return m, nil
	}
	loan := m.state.SavedLoans[idx]
	m.loanCursor = idx
	m.breakdownLoanID = loan.ID
	m.breakdownLoading = true
	m.breakdownErr = ""
	return m, m.loadBreakdownCmd(loan.ID)
}

func (m model) loadBreakdownCmd(loanID string) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.breakdowns.Get(context.Background(), loanID)
		return breakdownLoadedMsg{loanID: loanID, entries: entries, err: err}
	}
}

func (m model) handleBreakdownLoaded(msg breakdownLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.loanID != m.breakdownLoanID {
		return m, nil
	}
	m.breakdownLoading = false
	if msg.err != nil {
		m.log.WithError(msg.err).WithField("loan", msg.loanID).Error("breakdown load failed")
		m.breakdownErr = "Could not load the payment breakdown."
		return m, nil
	}

	m.breakdownRows = msg.entries
	totals, err := loans.SumBreakdown(msg.entries)
	if err != nil {
		m.log.WithError(err).WithField("loan", msg.loanID).Error("breakdown totals failed")
		m.breakdownErr = "Could not compute loan totals."
		return m, nil
	}
	m.breakdownTotals = totals
	m.breakdownErr = ""
	return m, nil
}

func (m model) handleLoansKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "q":
		m.screen = screenHome
		return m, nil
	case "up", "k":
		if m.loanCursor > 0 {
			m.loanCursor--
		}
	case "down", "j":
		if m.loanCursor < len(m.state.SavedLoans)-1 {
			m.loanCursor++
		}
	case "enter":
		return m.selectLoan(m.loanCursor)
	case "r":
		if m.breakdownLoanID != "" {
			m.breakdowns.Invalidate(m.breakdownLoanID)
			m.breakdownLoading = true
			m.breakdownErr = ""
			return m, m.loadBreakdownCmd(m.breakdownLoanID)
		}
	}
	return m, nil
}

func (m model) renderLoansScreen() string {
	title := activeStyle.Render("LOANS")

	if len(m.state.SavedLoans) == 0 {
		body := []string{
			title,
			"",
			mutedStyle.Render("No loans yet. Add them during onboarding."),
			"",
			hintStyle.Render("esc home"),
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(body, "\n"))
	}

	rows := []string{title, ""}
	for i, loan := range m.state.SavedLoans {
		line := loan.Name
		if loan.ID == m.breakdownLoanID {
			line += mutedStyle.Render("  (shown)")
		}
		if i == m.loanCursor {
			rows = append(rows, activeStyle.Render("> ")+line)
		} else {
			rows = append(rows, "  "+line)
		}
	}
	rows = append(rows, "")

	switch {
	case m.breakdownLoading:
		rows = append(rows, mutedStyle.Render("loading breakdown..."))
	case m.breakdownErr != "":
		rows = append(rows, errStyle.Render(m.breakdownErr))
	case m.breakdownLoanID != "":
		rows = append(rows, m.renderBreakdownTable()...)
	default:
		rows = append(rows, hintStyle.Render("enter shows the payment breakdown"))
	}

	rows = append(rows, "", hintStyle.Render("up/down move  enter show  r refresh  esc home"))
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(rows, "\n"))
}

func (m model) renderBreakdownTable() []string {
	if len(m.breakdownRows) == 0 {
		return []string{mutedStyle.Render("no payments")}
	}

	rows := []string{
		hintStyle.Render(fmt.Sprintf("%3s  %-10s  %10s  %10s  %10s  %12s", "#", "date", "payment", "principal", "interest", "remaining")),
	}
	for _, entry := range m.breakdownRows {
		line := fmt.Sprintf("%3d  %-10s  %10s  %10s  %10s  %12s",
			entry.PaymentNumber, entry.Date, entry.Payment, entry.Principal, entry.Interest, entry.RemainingBalance)
		rows = append(rows, breakdownRowStyle(entry.Status).Render(line))
	}

	rows = append(rows, "", labelStyle.Render(fmt.Sprintf("%3s  %-10s  %10s  %10s  %10s",
		"", "total", m.breakdownTotals.Payment.StringFixed(2),
		m.breakdownTotals.Principal.StringFixed(2),
		m.breakdownTotals.Interest.StringFixed(2))))
	return rows
}

func breakdownRowStyle(status string) lipgloss.Style {
	switch status {
	case api.BreakdownStatusPaid:
		return mutedStyle
	case api.BreakdownStatusUpcoming:
		return warnStyle
	default:
		return labelStyle
	}
}
