package tui

import (
	"context"
	"database/sql"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/nivkeidan/finbook/internal/api"
	"github.com/nivkeidan/finbook/internal/draft"
	"github.com/nivkeidan/finbook/internal/loans"
	"github.com/nivkeidan/finbook/internal/storage"
	"github.com/nivkeidan/finbook/internal/wizard"
)

type connectionState int

const (
	stateChecking connectionState = iota
	stateConnected
	stateDisconnected
)

type screenMode int

const (
	screenHome screenMode = iota
	screenWizard
	screenLoans
)

type checkConnectionMsg struct {
	connected bool
	err       error
}

type profilePrefillMsg struct {
	profile *api.Profile
	err     error
}

type categoriesLoadedMsg struct {
	categories []api.Category
	err        error
}

type categoryToggledMsg struct {
	id       string
	archived bool
	err      error
}

type categoryCreatedMsg struct {
	created *api.Created
	err     error
}

type advanceDoneMsg struct {
	step   wizard.Step
	result wizard.Result
	state  draft.WizardState
}

type completeDoneMsg struct {
	result wizard.Result
}

type stepTransitionMsg struct{}

type breakdownLoadedMsg struct {
	loanID  string
	entries []api.BreakdownEntry
	err     error
}

type model struct {
	db         *sql.DB
	client     *api.Client
	log        *logrus.Logger
	store      *draft.Store
	machine    *wizard.Machine
	handlers   *wizard.Handlers
	breakdowns *loans.Service

	state draft.WizardState

	width  int
	height int

	screen       screenMode
	status       connectionState
	statusDetail string

	menuItems  []string
	menuCursor int

	// Session flag set on successful completion; suppresses re-entering
	// the wizard for the rest of the run.
	onboardingDone bool

	// Wizard screen state.
	wizardErr        string
	wizardValidation bool
	submitting       bool
	focus            int
	inputs           []textinput.Model
	listCursor       int
	stepScroll       int
	editingRow       int
	currencyIdx      int
	selectorIdx      int
	categories       []api.Category
	categoriesLoaded bool

	// Loans screen state.
	loanCursor       int
	breakdownLoanID  string
	breakdownRows    []api.BreakdownEntry
	breakdownTotals  loans.Totals
	breakdownLoading bool
	breakdownErr     string

	quitting bool
}

// New builds the root model. The draft is rehydrated synchronously so
// the wizard resumes exactly where the user left off.
func New(db *sql.DB, client *api.Client, log *logrus.Logger) tea.Model {
	store := draft.NewStore(storage.NewAppConfigRepo(db), log)
	state := store.Load(context.Background())

	m := model{
		db:         db,
		client:     client,
		log:        log,
		store:      store,
		machine:    wizard.NewMachine(state.CurrentStep),
		handlers:   wizard.NewHandlers(client, log),
		breakdowns: loans.NewService(client),
		state:      state,
		screen:     screenHome,
		status:     stateChecking,
		menuItems: []string{
			"onboarding",
			"loans",
			"quit",
		},
		statusDetail: "not connected",
		editingRow:   -1,
	}
	m.currencyIdx = currencyIndex(state.Currency)
	return m
}

func (m model) Init() tea.Cmd {
	return m.checkConnectionCmd()
}

func (m model) checkConnectionCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.client.Ping(context.Background())
		return checkConnectionMsg{connected: err == nil, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = max(24, msg.Width-40)
		}
		return m, nil

	case checkConnectionMsg:
		if msg.connected {
			m.status = stateConnected
			m.statusDetail = "connected"
		} else {
			m.status = stateDisconnected
			m.statusDetail = "not connected"
			if msg.err != nil {
				m.log.WithError(msg.err).Warn("connection check failed")
			}
		}
		return m, nil

	case profilePrefillMsg:
		return m.handleProfilePrefill(msg)

	case categoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg)

	case categoryToggledMsg:
		return m.handleCategoryToggled(msg)

	case categoryCreatedMsg:
		return m.handleCategoryCreated(msg)

	case advanceDoneMsg:
		return m.handleAdvanceDone(msg)

	case completeDoneMsg:
		return m.handleCompleteDone(msg)

	case stepTransitionMsg:
		return m.handleStepTransition()

	case breakdownLoadedMsg:
		return m.handleBreakdownLoaded(msg)

	case tea.KeyMsg:
		switch m.screen {
		case screenWizard:
			return m.handleWizardKey(msg)
		case screenLoans:
			return m.handleLoansKey(msg)
		default:
			return m.handleHomeKey(msg)
		}
	}

	return m.updateFocusedInput(msg)
}

func (m model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.menuItems)-1 {
			m.menuCursor++
		}
	case "enter":
		switch m.menuItems[m.menuCursor] {
		case "onboarding":
			if m.onboardingDone {
				return m, nil
			}
			return m.enterWizard()
		case "loans":
			return m.enterLoans()
		case "quit":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.screen != screenWizard || m.focus < 0 || m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenWizard:
		return m.renderWizardScreen()
	case screenLoans:
		return m.renderLoansScreen()
	}
	return m.renderHomeScreen()
}

func (m model) renderHomeScreen() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB")).
		Bold(true).
		Render("finbook")

	statusStyle := okStyle
	if m.status != stateConnected {
		statusStyle = errStyle
	}

	rows := []string{title, statusStyle.Render(m.statusDetail), ""}
	for i, item := range m.menuItems {
		label := item
		if item == "onboarding" && m.onboardingDone {
			label += " (done)"
		}
		if i == m.menuCursor {
			rows = append(rows, activeStyle.Render("> "+label))
		} else {
			rows = append(rows, "  "+label)
		}
	}
	rows = append(rows, "", hintStyle.Render("up/down move  enter select  q quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(rows, "\n"))
}

var (
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
)

func currencyIndex(code string) int {
	for i, v := range draft.CurrencyOptions() {
		if v == code {
			return i
		}
	}
	return 0
}
