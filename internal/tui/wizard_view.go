package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nivkeidan/finbook/internal/api"
	"github.com/nivkeidan/finbook/internal/draft"
	"github.com/nivkeidan/finbook/internal/wizard"
)

func (m model) enterWizard() (tea.Model, tea.Cmd) {
	m.screen = screenWizard
	m.wizardErr = ""
	m.wizardValidation = false
	m.submitting = false
	m.stepScroll = 0
	m.rebuildStepUI()
	return m, m.stepEntryCmd()
}

// rebuildStepUI resets per-step widgets for the machine's current step.
func (m *model) rebuildStepUI() {
	m.focus = 0
	m.listCursor = 0
	m.editingRow = -1
	m.selectorIdx = 0
	m.inputs = nil

	switch m.machine.Current() {
	case wizard.StepProfile:
		m.inputs = buildInputs(
			inputSpec{placeholder: "full name", value: m.state.FullName},
			inputSpec{placeholder: "phone number", value: m.state.PhoneNumber},
		)
	case wizard.StepBalance:
		m.inputs = buildInputs(
			inputSpec{placeholder: "0.00", prompt: "amount: ", value: m.state.BalanceAmount},
			inputSpec{placeholder: "YYYY-MM-DD (today)", prompt: "date: ", value: m.state.BalanceDate},
			inputSpec{placeholder: "notes", prompt: "notes: ", value: m.state.BalanceNotes},
		)
		m.currencyIdx = currencyIndex(m.state.Currency)
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

type inputSpec struct {
	prompt      string
	placeholder string
	value       string
}

func buildInputs(specs ...inputSpec) []textinput.Model {
	inputs := make([]textinput.Model, 0, len(specs))
	for _, spec := range specs {
		in := textinput.New()
		in.Prompt = spec.prompt
		if in.Prompt == "" {
			in.Prompt = "> "
		}
		in.Placeholder = spec.placeholder
		in.SetValue(spec.value)
		in.Width = 40
		inputs = append(inputs, in)
	}
	return inputs
}

// stepEntryCmd fires the step's load-on-entry work.
func (m model) stepEntryCmd() tea.Cmd {
	switch m.machine.Current() {
	case wizard.StepProfile:
		if m.state.FullName == "" && m.state.PhoneNumber == "" {
			return m.prefillProfileCmd()
		}
	case wizard.StepCategories:
		if !m.categoriesLoaded {
			return m.loadCategoriesCmd()
		}
	}
	return nil
}

func (m model) prefillProfileCmd() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.client.GetProfile(context.Background())
		return profilePrefillMsg{profile: profile, err: err}
	}
}

func (m model) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		categories, err := m.client.ListCategories(context.Background())
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

func (m model) toggleCategoryCmd(id string, archived bool) tea.Cmd {
	return func() tea.Msg {
		err := m.client.SetCategoryArchived(context.Background(), id, archived)
		return categoryToggledMsg{id: id, archived: archived, err: err}
	}
}

func (m model) advanceCmd() tea.Cmd {
	step := m.machine.Current()
	stateCopy := m.state.Clone()
	handlers := m.handlers
	return func() tea.Msg {
		result := handlers.Advance(context.Background(), step, &stateCopy)
		return advanceDoneMsg{step: step, result: result, state: stateCopy}
	}
}

func (m model) completeCmd() tea.Cmd {
	stateCopy := m.state.Clone()
	handlers := m.handlers
	store := m.store
	language := envOr("FINBOOK_LANG", "en")
	theme := envOr("FINBOOK_THEME", "dark")
	return func() tea.Msg {
		result := handlers.Complete(context.Background(), store, &stateCopy, language, theme)
		return completeDoneMsg{result: result}
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func transitionCmd() tea.Cmd {
	return tea.Tick(wizard.TransitionDelay, func(time.Time) tea.Msg {
		return stepTransitionMsg{}
	})
}

func (m model) handleProfilePrefill(msg profilePrefillMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Prefill is a nicety; the user can type the fields.
		m.log.WithError(msg.err).Warn("profile prefill failed")
		return m, nil
	}
	if msg.profile == nil {
		return m, nil
	}
	if m.state.FullName == "" {
		m.state.FullName = msg.profile.FullName
	}
	if m.state.PhoneNumber == "" {
		m.state.PhoneNumber = msg.profile.PhoneNumber
	}
	if m.machine.Current() == wizard.StepProfile && len(m.inputs) == 2 {
		m.inputs[0].SetValue(m.state.FullName)
		m.inputs[1].SetValue(m.state.PhoneNumber)
	}
	m.persist()
	return m, nil
}

func (m model) handleCategoriesLoaded(msg categoriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("categories load failed")
		return m, nil
	}
	m.categories = msg.categories
	m.categoriesLoaded = true
	return m, nil
}

func (m model) handleCategoryToggled(msg categoryToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Best-effort; the local toggle already happened.
		m.log.WithError(msg.err).WithField("category", msg.id).Warn("category archive toggle failed")
	}
	return m, nil
}

func (m model) handleAdvanceDone(msg advanceDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.step != m.machine.Current() {
		// Stale response from a step the user already left.
		return m, nil
	}

	m.state = msg.state
	m.persist()

	if !msg.result.Advance {
		m.wizardErr = msg.result.ErrMsg
		m.wizardValidation = msg.result.Validation
		return m, nil
	}

	if !m.machine.BeginNext() {
		return m, nil
	}
	m.wizardErr = ""
	m.wizardValidation = false
	return m, transitionCmd()
}

func (m model) handleCompleteDone(msg completeDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if !msg.result.Advance {
		m.wizardErr = msg.result.ErrMsg
		return m, nil
	}

	// Draft is cleared by the completion handler; drop the in-memory
	// copy too and go home. Back does not return to the wizard.
	m.onboardingDone = true
	m.state = draft.Default()
	m.machine = wizard.NewMachine(0)
	m.screen = screenHome
	m.menuCursor = 0
	m.wizardErr = ""
	return m, nil
}

func (m model) handleStepTransition() (tea.Model, tea.Cmd) {
	step := m.machine.Finish()
	m.state.CurrentStep = int(step)
	m.stepScroll = 0
	m.rebuildStepUI()
	m.persist()
	return m, m.stepEntryCmd()
}

// persist saves the draft. Best-effort by contract.
func (m *model) persist() {
	m.store.Save(context.Background(), m.state)
}

// commitStepInputs writes the focused widgets back into the draft.
func (m *model) commitStepInputs() {
	switch m.machine.Current() {
	case wizard.StepProfile:
		if len(m.inputs) == 2 {
			m.state.FullName = strings.TrimSpace(m.inputs[0].Value())
			m.state.PhoneNumber = strings.TrimSpace(m.inputs[1].Value())
		}
	case wizard.StepBalance:
		if len(m.inputs) == 3 {
			m.state.BalanceAmount = strings.TrimSpace(m.inputs[0].Value())
			m.state.BalanceDate = strings.TrimSpace(m.inputs[1].Value())
			m.state.BalanceNotes = strings.TrimSpace(m.inputs[2].Value())
		}
		m.state.Currency = draft.CurrencyOptions()[m.currencyIdx]
	}
	m.persist()
}

func (m model) handleWizardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global wizard shortcuts. Ctrl combinations never collide with the
	// text inputs.
	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.editingRow >= 0 {
			m.editingRow = -1
			m.inputs = nil
			return m, nil
		}
		m.commitStepInputs()
		m.screen = screenHome
		return m, nil
	case "ctrl+p":
		return m.goPrev()
	case "ctrl+s":
		return m.skipStep()
	}

	switch m.machine.Current() {
	case wizard.StepWelcome:
		return m.handleWelcomeKey(key)
	case wizard.StepProfile, wizard.StepBalance:
		return m.handleFormStepKey(msg)
	case wizard.StepCategories:
		return m.handleCategoriesKey(msg)
	case wizard.StepFixedItems:
		return m.handleFixedItemsKey(msg)
	case wizard.StepBankAccounts, wizard.StepCreditCards, wizard.StepLoans, wizard.StepSubscriptions:
		return m.handleListStepKey(msg)
	case wizard.StepSummary:
		return m.handleSummaryKey(key)
	}
	return m, nil
}

func (m model) goNext() (tea.Model, tea.Cmd) {
	if m.submitting || m.machine.InFlight() {
		return m, nil
	}
	m.commitStepInputs()
	m.submitting = true
	m.wizardErr = ""
	m.wizardValidation = false
	return m, m.advanceCmd()
}

func (m model) goPrev() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.commitStepInputs()
	if !m.machine.BeginPrev() {
		return m, nil
	}
	m.wizardErr = ""
	m.wizardValidation = false
	return m, transitionCmd()
}

// skipStep advances without submitting anything.
func (m model) skipStep() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if requiresValidation(m.machine.Current()) {
		return m, nil
	}
	m.commitStepInputs()
	if !m.machine.BeginNext() {
		return m, nil
	}
	m.wizardErr = ""
	return m, transitionCmd()
}

// requiresValidation marks the steps without a skip affordance.
func requiresValidation(step wizard.Step) bool {
	return step == wizard.StepBalance || step == wizard.StepSummary
}

func (m model) jumpToStep(target wizard.Step) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.commitStepInputs()
	if !m.machine.BeginJump(target) {
		return m, nil
	}
	m.wizardErr = ""
	m.wizardValidation = false
	return m, transitionCmd()
}

func (m model) handleWelcomeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		return m.goNext()
	case "q":
		m.screen = screenHome
	}
	return m, nil
}

func (m model) handleFormStepKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	focusable := len(m.inputs)
	if m.machine.Current() == wizard.StepBalance {
		focusable++ // trailing currency selector
	}

	switch msg.String() {
	case "enter":
		return m.goNext()
	case "tab", "down":
		return m.moveFocus(1, focusable), nil
	case "shift+tab", "up":
		return m.moveFocus(-1, focusable), nil
	case "left", "right":
		if m.machine.Current() == wizard.StepBalance && m.focus == len(m.inputs) {
			options := draft.CurrencyOptions()
			if msg.String() == "left" {
				m.currencyIdx = (m.currencyIdx + len(options) - 1) % len(options)
			} else {
				m.currencyIdx = (m.currencyIdx + 1) % len(options)
			}
			m.state.Currency = options[m.currencyIdx]
			m.persist()
			return m, nil
		}
	}
	return m.updateFocusedInput(msg)
}

func (m model) moveFocus(delta, focusable int) model {
	if focusable == 0 {
		return m
	}
	if m.focus >= 0 && m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.commitStepInputs()
	m.focus = (m.focus + delta + focusable) % focusable
	if m.focus >= 0 && m.focus < len(m.inputs) {
		m.inputs[m.focus].Focus()
	}
	return m
}

func (m model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// New-category name entry.
	if m.editingRow >= 0 {
		if msg.String() == "enter" {
			name := ""
			if len(m.inputs) == 1 {
				name = strings.TrimSpace(m.inputs[0].Value())
			}
			m.editingRow = -1
			m.inputs = nil
			if name == "" {
				return m, nil
			}
			return m, m.createCategoryCmd(name)
		}
		return m.updateFocusedInput(msg)
	}

	switch msg.String() {
	case "enter":
		return m.goNext()
	case "up", "k":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "down", "j":
		if m.listCursor < len(m.categories)-1 {
			m.listCursor++
		}
	case " ":
		if m.listCursor >= 0 && m.listCursor < len(m.categories) {
			m.categories[m.listCursor].Archived = !m.categories[m.listCursor].Archived
			cat := m.categories[m.listCursor]
			return m, m.toggleCategoryCmd(cat.ID, cat.Archived)
		}
	case "n":
		m.editingRow = 0
		m.focus = 0
		m.inputs = buildInputs(inputSpec{prompt: "name: ", placeholder: "groceries"})
		m.inputs[0].Focus()
	case "r":
		m.categoriesLoaded = false
		return m, m.loadCategoriesCmd()
	}
	return m, nil
}

func (m model) createCategoryCmd(name string) tea.Cmd {
	return func() tea.Msg {
		created, err := m.client.CreateCategory(context.Background(), api.CategoryCreate{
			NameEN: name,
			NameHE: name,
			Type:   "expense",
		})
		return categoryCreatedMsg{created: created, err: err}
	}
}

func (m model) handleCategoryCreated(msg categoryCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Best-effort like the archive toggles, so no error banner.
		m.log.WithError(msg.err).Warn("category create failed")
		return m, nil
	}
	if msg.created != nil {
		m.categories = append(m.categories, api.Category{
			ID:     msg.created.ID,
			NameEN: msg.created.Name,
			NameHE: msg.created.Name,
			Type:   "expense",
		})
	}
	return m, nil
}

func (m model) handleFixedItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Amount edit mode: one input bound to the cursored item.
	if m.editingRow >= 0 {
		switch msg.String() {
		case "enter":
			if m.editingRow < len(m.state.FixedItems) && len(m.inputs) == 1 {
				m.state.FixedItems[m.editingRow].Amount = strings.TrimSpace(m.inputs[0].Value())
				m.persist()
			}
			m.editingRow = -1
			m.inputs = nil
			return m, nil
		}
		return m.updateFocusedInput(msg)
	}

	switch msg.String() {
	case "enter":
		return m.goNext()
	case "up", "k":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "down", "j":
		if m.listCursor < len(m.state.FixedItems)-1 {
			m.listCursor++
		}
	case " ":
		if m.listCursor < len(m.state.FixedItems) {
			m.state.FixedItems[m.listCursor].Enabled = !m.state.FixedItems[m.listCursor].Enabled
			m.persist()
		}
	case "e":
		if m.listCursor < len(m.state.FixedItems) {
			m.editingRow = m.listCursor
			m.inputs = buildInputs(inputSpec{
				prompt:      "amount: ",
				placeholder: "0.00",
				value:       m.state.FixedItems[m.listCursor].Amount,
			})
			m.focus = 0
			m.inputs[0].Focus()
		}
	case "left":
		m.adjustFixedItemDay(-1)
	case "right":
		m.adjustFixedItemDay(1)
	}
	return m, nil
}

func (m *model) adjustFixedItemDay(delta int) {
	if m.listCursor >= len(m.state.FixedItems) {
		return
	}
	item := &m.state.FixedItems[m.listCursor]
	day := item.DayOfMonth + delta
	if day < 1 {
		day = 1
	}
	if day > 31 {
		day = 31
	}
	item.DayOfMonth = day
	m.persist()
}

// List steps share one editing flow: a row of fields per draft entry,
// reference selectors cycled with left/right over the saved list from
// the prior step.
func (m model) handleListStepKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingRow >= 0 {
		return m.handleRowEditKey(msg)
	}

	rows := m.listStepRowCount()
	switch msg.String() {
	case "enter":
		return m.goNext()
	case "up", "k":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "down", "j":
		if m.listCursor < rows-1 {
			m.listCursor++
		}
	case "a":
		m.appendDraftRow()
		m.startRowEdit(m.listStepRowCount() - 1)
	case "e":
		if rows > 0 && m.listCursor < rows {
			m.startRowEdit(m.listCursor)
		}
	case "d":
		m.deleteDraftRow(m.listCursor)
	}
	return m, nil
}

func (m model) handleRowEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	focusable := len(m.inputs)
	if m.rowSelector() != nil {
		focusable++
	}

	switch msg.String() {
	case "enter":
		m.commitRowEdit()
		return m, nil
	case "tab", "down":
		return m.moveFocus(1, focusable), nil
	case "shift+tab", "up":
		return m.moveFocus(-1, focusable), nil
	case "left", "right":
		if refs := m.rowSelector(); refs != nil && m.focus == len(m.inputs) {
			n := len(refs) + 1 // trailing "none"
			if msg.String() == "left" {
				m.selectorIdx = (m.selectorIdx + n - 1) % n
			} else {
				m.selectorIdx = (m.selectorIdx + 1) % n
			}
			return m, nil
		}
	}
	return m.updateFocusedInput(msg)
}

// rowSelector returns the saved refs feeding the current step's
// reference field, or nil when the step has none.
func (m model) rowSelector() []draft.SavedRef {
	switch m.machine.Current() {
	case wizard.StepCreditCards:
		return m.state.SavedBankAccounts
	case wizard.StepSubscriptions:
		return m.state.SavedCreditCards
	}
	return nil
}

func (m model) listStepRowCount() int {
	switch m.machine.Current() {
	case wizard.StepBankAccounts:
		return len(m.state.BankAccounts)
	case wizard.StepCreditCards:
		return len(m.state.CreditCards)
	case wizard.StepLoans:
		return len(m.state.Loans)
	case wizard.StepSubscriptions:
		return len(m.state.Subscriptions)
	}
	return 0
}

func (m *model) appendDraftRow() {
	switch m.machine.Current() {
	case wizard.StepBankAccounts:
		m.state.BankAccounts = append(m.state.BankAccounts, draft.BankAccountDraft{})
	case wizard.StepCreditCards:
		m.state.CreditCards = append(m.state.CreditCards, draft.CreditCardDraft{})
	case wizard.StepLoans:
		m.state.Loans = append(m.state.Loans, draft.LoanDraft{})
	case wizard.StepSubscriptions:
		m.state.Subscriptions = append(m.state.Subscriptions, draft.SubscriptionDraft{})
	}
	m.persist()
}

func (m *model) deleteDraftRow(idx int) {
	switch m.machine.Current() {
	case wizard.StepBankAccounts:
		m.state.BankAccounts = removeAt(m.state.BankAccounts, idx)
	case wizard.StepCreditCards:
		m.state.CreditCards = removeAt(m.state.CreditCards, idx)
	case wizard.StepLoans:
		m.state.Loans = removeAt(m.state.Loans, idx)
	case wizard.StepSubscriptions:
		m.state.Subscriptions = removeAt(m.state.Subscriptions, idx)
	}
	if rows := m.listStepRowCount(); m.listCursor >= rows && m.listCursor > 0 {
		m.listCursor = rows - 1
	}
	m.persist()
}

func removeAt[T any](items []T, idx int) []T {
	if idx < 0 || idx >= len(items) {
		return items
	}
	return append(items[:idx], items[idx+1:]...)
}

func (m *model) startRowEdit(idx int) {
	m.editingRow = idx
	m.focus = 0
	m.selectorIdx = 0

	switch m.machine.Current() {
	case wizard.StepBankAccounts:
		row := m.state.BankAccounts[idx]
		m.inputs = buildInputs(
			inputSpec{prompt: "name: ", placeholder: "checking", value: row.Name},
			inputSpec{prompt: "bank: ", placeholder: "leumi", value: row.Bank},
			inputSpec{prompt: "number: ", placeholder: "123456", value: row.Number},
			inputSpec{prompt: "balance: ", placeholder: "0.00", value: row.Balance},
		)
	case wizard.StepCreditCards:
		row := m.state.CreditCards[idx]
		m.inputs = buildInputs(
			inputSpec{prompt: "name: ", placeholder: "visa", value: row.Name},
			inputSpec{prompt: "last digits: ", placeholder: "1234", value: row.LastDigits},
			inputSpec{prompt: "billing day: ", placeholder: "10", value: row.BillingDay},
		)
		m.selectorIdx = savedRefIndex(m.state.SavedBankAccounts, row.BankAccountID)
	case wizard.StepLoans:
		row := m.state.Loans[idx]
		m.inputs = buildInputs(
			inputSpec{prompt: "name: ", placeholder: "car loan", value: row.Name},
			inputSpec{prompt: "principal: ", placeholder: "50000", value: row.Principal},
			inputSpec{prompt: "interest %: ", placeholder: "4.5", value: row.InterestRate},
			inputSpec{prompt: "months: ", placeholder: "60", value: row.Months},
			inputSpec{prompt: "start date: ", placeholder: "YYYY-MM-DD", value: row.StartDate},
		)
	case wizard.StepSubscriptions:
		row := m.state.Subscriptions[idx]
		m.inputs = buildInputs(
			inputSpec{prompt: "name: ", placeholder: "streaming", value: row.Name},
			inputSpec{prompt: "amount: ", placeholder: "19.90", value: row.Amount},
			inputSpec{prompt: "billing day: ", placeholder: "3", value: row.BillingDay},
		)
		m.selectorIdx = savedRefIndex(m.state.SavedCreditCards, row.CreditCardID)
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// savedRefIndex maps a stored id back to its selector position.
// Position 0 is "none".
func savedRefIndex(refs []draft.SavedRef, id string) int {
	for i, ref := range refs {
		if ref.ID == id {
			return i + 1
		}
	}
	return 0
}

func selectedRefID(refs []draft.SavedRef, idx int) string {
	if idx <= 0 || idx > len(refs) {
		return ""
	}
	return refs[idx-1].ID
}

func (m *model) commitRowEdit() {
	idx := m.editingRow
	if idx < 0 {
		return
	}

	switch m.machine.Current() {
	case wizard.StepBankAccounts:
		if idx < len(m.state.BankAccounts) && len(m.inputs) == 4 {
			m.state.BankAccounts[idx] = draft.BankAccountDraft{
				Name:    strings.TrimSpace(m.inputs[0].Value()),
				Bank:    strings.TrimSpace(m.inputs[1].Value()),
				Number:  strings.TrimSpace(m.inputs[2].Value()),
				Balance: strings.TrimSpace(m.inputs[3].Value()),
			}
		}
	case wizard.StepCreditCards:
		if idx < len(m.state.CreditCards) && len(m.inputs) == 3 {
			m.state.CreditCards[idx] = draft.CreditCardDraft{
				Name:          strings.TrimSpace(m.inputs[0].Value()),
				LastDigits:    strings.TrimSpace(m.inputs[1].Value()),
				BillingDay:    strings.TrimSpace(m.inputs[2].Value()),
				BankAccountID: selectedRefID(m.state.SavedBankAccounts, m.selectorIdx),
			}
		}
	case wizard.StepLoans:
		if idx < len(m.state.Loans) && len(m.inputs) == 5 {
			m.state.Loans[idx] = draft.LoanDraft{
				Name:         strings.TrimSpace(m.inputs[0].Value()),
				Principal:    strings.TrimSpace(m.inputs[1].Value()),
				InterestRate: strings.TrimSpace(m.inputs[2].Value()),
				Months:       strings.TrimSpace(m.inputs[3].Value()),
				StartDate:    strings.TrimSpace(m.inputs[4].Value()),
			}
		}
	case wizard.StepSubscriptions:
		if idx < len(m.state.Subscriptions) && len(m.inputs) == 3 {
			m.state.Subscriptions[idx] = draft.SubscriptionDraft{
				Name:         strings.TrimSpace(m.inputs[0].Value()),
				Amount:       strings.TrimSpace(m.inputs[1].Value()),
				BillingDay:   strings.TrimSpace(m.inputs[2].Value()),
				CreditCardID: selectedRefID(m.state.SavedCreditCards, m.selectorIdx),
			}
		}
	}

	m.editingRow = -1
	m.inputs = nil
	m.persist()
}

func (m model) handleSummaryKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		m.wizardErr = ""
		return m, m.completeCmd()
	}
	// Digits jump backward to a visited step.
	if target, ok := stepFromDigit(key); ok {
		return m.jumpToStep(target)
	}
	return m, nil
}

func stepFromDigit(key string) (wizard.Step, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	n, _ := strconv.Atoi(key)
	if n >= wizard.StepCount {
		return 0, false
	}
	return wizard.Step(n), true
}

// ---- rendering ----

func (m model) renderWizardScreen() string {
	step := m.machine.Current()

	sections := []string{
		m.renderProgressDots(),
		"",
		activeStyle.Render(strings.ToUpper(step.String())),
		"",
	}

	if m.machine.InFlight() {
		sections = append(sections, mutedStyle.Render("..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
	}

	switch step {
	case wizard.StepWelcome:
		sections = append(sections, m.renderWelcomeStep()...)
	case wizard.StepProfile:
		sections = append(sections, m.renderFormStep("Tell us about yourself.")...)
	case wizard.StepBalance:
		sections = append(sections, m.renderBalanceStep()...)
	case wizard.StepCategories:
		sections = append(sections, m.renderCategoriesStep()...)
	case wizard.StepFixedItems:
		sections = append(sections, m.renderFixedItemsStep()...)
	case wizard.StepBankAccounts, wizard.StepCreditCards, wizard.StepLoans, wizard.StepSubscriptions:
		sections = append(sections, m.renderListStep()...)
	case wizard.StepSummary:
		sections = append(sections, m.renderSummaryStep()...)
	}

	if m.wizardErr != "" {
		banner := errStyle.Render(m.wizardErr)
		if m.wizardValidation {
			banner = warnStyle.Render(m.wizardErr)
		}
		sections = append(sections, "", banner)
	}
	if m.submitting {
		sections = append(sections, "", mutedStyle.Render("saving..."))
	}

	sections = append(sections, "", m.renderWizardFooter())
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
}

// renderProgressDots draws one dot per step. Only dots behind the
// current position respond to jumps.
func (m model) renderProgressDots() string {
	current := int(m.machine.Current())
	dots := make([]string, 0, wizard.StepCount)
	for i := 0; i < wizard.StepCount; i++ {
		switch {
		case i < current:
			dots = append(dots, okStyle.Render("●"))
		case i == current:
			dots = append(dots, activeStyle.Render("●"))
		default:
			dots = append(dots, mutedStyle.Render("○"))
		}
	}
	return strings.Join(dots, " ")
}

func (m model) renderWelcomeStep() []string {
	return []string{
		labelStyle.Render("Welcome to finbook."),
		"",
		hintStyle.Render("A few quick steps set up your accounts, recurring"),
		hintStyle.Render("items and loans. Progress is saved locally, so you"),
		hintStyle.Render("can stop and pick up where you left off."),
	}
}

func (m model) renderFormStep(intro string) []string {
	rows := []string{hintStyle.Render(intro), ""}
	for i, input := range m.inputs {
		line := input.View()
		if i == m.focus {
			line = "› " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return rows
}

func (m model) renderBalanceStep() []string {
	rows := m.renderFormStep("Your opening balance. Amount is required.")

	options := draft.CurrencyOptions()
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		if i == m.currencyIdx {
			parts = append(parts, activeStyle.Render(opt))
		} else {
			parts = append(parts, mutedStyle.Render(opt))
		}
	}
	currencyLine := "  currency: " + strings.Join(parts, "  ")
	if m.focus == len(m.inputs) {
		currencyLine = "› currency: " + strings.Join(parts, "  ")
	}
	return append(rows, currencyLine)
}

func (m model) renderCategoriesStep() []string {
	if !m.categoriesLoaded {
		return []string{mutedStyle.Render("loading categories...")}
	}
	if len(m.categories) == 0 {
		return []string{mutedStyle.Render("no categories")}
	}

	rows := []string{hintStyle.Render("Hide the categories you do not use."), ""}
	for i, cat := range m.categories {
		mark := "[ ]"
		if cat.Archived {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, cat.NameEN)
		if i == m.listCursor {
			line = activeStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	if m.editingRow >= 0 && len(m.inputs) == 1 {
		rows = append(rows, "", "› new category "+m.inputs[0].View())
	}
	return rows
}

func (m model) renderFixedItemsStep() []string {
	rows := []string{hintStyle.Render("Toggle your recurring items and set amounts."), ""}
	for i, item := range m.state.FixedItems {
		mark := "[ ]"
		if item.Enabled {
			mark = okStyle.Render("[x]")
		}
		amount := item.Amount
		if amount == "" {
			amount = "-"
		}
		line := fmt.Sprintf("%s %-12s %8s  day %2d  (%s)", mark, item.Name, amount, item.DayOfMonth, item.Type)
		if i == m.listCursor && m.editingRow < 0 {
			line = activeStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	if m.editingRow >= 0 && len(m.inputs) == 1 {
		rows = append(rows, "", "› "+m.inputs[0].View())
	}
	return rows
}

func (m model) renderListStep() []string {
	step := m.machine.Current()

	if refs := m.rowSelector(); refs != nil && len(refs) == 0 {
		// The prior step has not produced any saved records yet, so
		// reference selection is empty. The step itself still works.
		label := "bank accounts"
		if step == wizard.StepSubscriptions {
			label = "credit cards"
		}
		return []string{
			hintStyle.Render("No saved " + label + " to link yet."),
			hintStyle.Render("You can still add entries, or skip this step."),
			"",
			m.renderDraftRows(),
		}
	}

	rows := []string{m.renderDraftRows()}
	if m.editingRow >= 0 {
		rows = append(rows, "", m.renderRowEditor())
	}
	return rows
}

func (m model) renderDraftRows() string {
	var lines []string
	render := func(i int, text string) {
		if i == m.listCursor && m.editingRow < 0 {
			lines = append(lines, activeStyle.Render("> ")+text)
		} else {
			lines = append(lines, "  "+text)
		}
	}

	switch m.machine.Current() {
	case wizard.StepBankAccounts:
		for i, row := range m.state.BankAccounts {
			render(i, fmt.Sprintf("%s  %s  %s", orDash(row.Name), orDash(row.Bank), orDash(row.Number)))
		}
	case wizard.StepCreditCards:
		for i, row := range m.state.CreditCards {
			render(i, fmt.Sprintf("%s  *%s  day %s", orDash(row.Name), orDash(row.LastDigits), orDash(row.BillingDay)))
		}
	case wizard.StepLoans:
		for i, row := range m.state.Loans {
			render(i, fmt.Sprintf("%s  %s @ %s%%  %s months", orDash(row.Name), orDash(row.Principal), orDash(row.InterestRate), orDash(row.Months)))
		}
	case wizard.StepSubscriptions:
		for i, row := range m.state.Subscriptions {
			render(i, fmt.Sprintf("%s  %s  day %s", orDash(row.Name), orDash(row.Amount), orDash(row.BillingDay)))
		}
	}

	if len(lines) == 0 {
		return mutedStyle.Render("nothing here yet -- press a to add")
	}
	return strings.Join(lines, "\n")
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func (m model) renderRowEditor() string {
	var lines []string
	for i, input := range m.inputs {
		line := input.View()
		if i == m.focus {
			line = "› " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	if refs := m.rowSelector(); refs != nil {
		parts := []string{}
		for i := 0; i <= len(refs); i++ {
			label := "none"
			if i > 0 {
				label = refs[i-1].Name
			}
			if i == m.selectorIdx {
				parts = append(parts, activeStyle.Render(label))
			} else {
				parts = append(parts, mutedStyle.Render(label))
			}
		}
		prefix := "  linked to: "
		if m.focus == len(m.inputs) {
			prefix = "› linked to: "
		}
		lines = append(lines, prefix+strings.Join(parts, "  "))
	}

	return strings.Join(lines, "\n")
}

func (m model) renderSummaryStep() []string {
	rows := []string{
		labelStyle.Render("Almost done. Here is what you set up:"),
		"",
		fmt.Sprintf("  currency        %s", m.state.Currency),
		fmt.Sprintf("  fixed items     %d", m.state.FixedItemsCreated),
		fmt.Sprintf("  bank accounts   %d", len(m.state.SavedBankAccounts)),
		fmt.Sprintf("  credit cards    %d", len(m.state.SavedCreditCards)),
		fmt.Sprintf("  loans           %d", len(m.state.SavedLoans)),
		fmt.Sprintf("  subscriptions   %d", len(m.state.SavedSubscriptions)),
		"",
		hintStyle.Render("enter finishes and opens the dashboard."),
	}
	return rows
}

func (m model) renderWizardFooter() string {
	step := m.machine.Current()
	hints := []string{"enter next", "ctrl+p back"}
	if !requiresValidation(step) {
		hints = append(hints, "ctrl+s skip")
	}
	switch step {
	case wizard.StepCategories:
		hints = append(hints, "space toggle", "n new", "r reload")
	case wizard.StepFixedItems:
		hints = append(hints, "space toggle", "e amount", "left/right day")
	case wizard.StepBankAccounts, wizard.StepCreditCards, wizard.StepLoans, wizard.StepSubscriptions:
		hints = append(hints, "a add", "e edit", "d delete")
	}
	hints = append(hints, "esc home")
	return hintStyle.Render(strings.Join(hints, "  "))
}
