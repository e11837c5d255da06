package wizard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nivkeidan/finbook/internal/api"
	"github.com/nivkeidan/finbook/internal/draft"
)

// GenericErrMsg is the only failure text shown at the step level.
// Backend error detail goes to the log, never to the banner.
const GenericErrMsg = "Something went wrong. Please try again."

// Backend is the narrow slice of the API client the advance handlers
// need. Tests substitute fakes.
type Backend interface {
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) error
	CreateBalance(ctx context.Context, create api.BalanceCreate) error
	CreateFixedItem(ctx context.Context, create api.FixedItemCreate) (*api.Created, error)
	CreateBankAccount(ctx context.Context, create api.BankAccountCreate) (*api.Created, error)
	CreateCreditCard(ctx context.Context, create api.CreditCardCreate) (*api.Created, error)
	CreateLoan(ctx context.Context, create api.LoanCreate) (*api.Created, error)
	CreateSubscription(ctx context.Context, create api.SubscriptionCreate) (*api.Created, error)
	UpdateSettings(ctx context.Context, update api.SettingsUpdate) error
}

// Result is the outcome of an advance attempt. Validation marks a
// client-side rejection surfaced inline; otherwise a non-empty ErrMsg is
// the step-level banner.
type Result struct {
	Advance    bool
	ErrMsg     string
	Validation bool
}

type advanceFunc func(ctx context.Context, state *draft.WizardState) Result

// Handlers maps each step to its advance behavior. Dispatch is by step
// identity, so reordering steps is a localized change.
type Handlers struct {
	backend  Backend
	log      *logrus.Logger
	now      func() time.Time
	advances map[Step]advanceFunc
}

func NewHandlers(backend Backend, log *logrus.Logger) *Handlers {
	if log == nil {
		log = logrus.New()
	}
	h := &Handlers{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
	h.advances = map[Step]advanceFunc{
		StepWelcome:       h.advanceAlways,
		StepProfile:       h.advanceProfile,
		StepBalance:       h.advanceBalance,
		StepCategories:    h.advanceAlways,
		StepFixedItems:    h.advanceFixedItems,
		StepBankAccounts:  h.advanceBankAccounts,
		StepCreditCards:   h.advanceCreditCards,
		StepLoans:         h.advanceLoans,
		StepSubscriptions: h.advanceSubscriptions,
	}
	return h
}

// Advance runs the step's handler and reports whether to move forward.
// Mutates state with server-returned identifiers on success.
func (h *Handlers) Advance(ctx context.Context, step Step, state *draft.WizardState) Result {
	fn, ok := h.advances[step]
	if !ok {
		// Summary advances through Complete, never here.
		return Result{}
	}
	return fn(ctx, state)
}

// Welcome and categories never block: category archive toggles and
// custom category creation are best-effort calls made as the user acts,
// not on advance.
func (h *Handlers) advanceAlways(ctx context.Context, state *draft.WizardState) Result {
	return Result{Advance: true}
}

// Profile save is best-effort: a failed save is logged and the wizard
// moves on.
func (h *Handlers) advanceProfile(ctx context.Context, state *draft.WizardState) Result {
	name := strings.TrimSpace(state.FullName)
	phone := strings.TrimSpace(state.PhoneNumber)
	if name == "" && phone == "" {
		return Result{Advance: true}
	}

	err := h.backend.UpdateProfile(ctx, api.ProfileUpdate{
		FullName:    name,
		PhoneNumber: phone,
	})
	if err != nil {
		h.log.WithError(err).Warn("profile save failed, advancing anyway")
	}
	return Result{Advance: true}
}

func (h *Handlers) advanceBalance(ctx context.Context, state *draft.WizardState) Result {
	amount := strings.TrimSpace(state.BalanceAmount)
	if !isDecimal(amount) {
		return Result{Validation: true, ErrMsg: "Enter your current balance to continue."}
	}

	effectiveDate := strings.TrimSpace(state.BalanceDate)
	if effectiveDate == "" {
		effectiveDate = h.now().UTC().Format("2006-01-02")
	}

	err := h.backend.CreateBalance(ctx, api.BalanceCreate{
		Amount:        amount,
		EffectiveDate: effectiveDate,
		Notes:         strings.TrimSpace(state.BalanceNotes),
	})
	if err != nil {
		h.log.WithError(err).Error("balance create failed")
		return Result{ErrMsg: GenericErrMsg}
	}
	return Result{Advance: true}
}

// advanceFixedItems submits enabled, fully-filled items one at a time in
// draft order. Zero complete items means no network call at all. A
// mid-sequence failure keeps the user on the step; a later retry
// resubmits every complete item, including ones already created before
// the failure, so duplicates are possible. FixedItemsCreated feeds the
// completion summary only.
func (h *Handlers) advanceFixedItems(ctx context.Context, state *draft.WizardState) Result {
	complete := make([]draft.FixedItem, 0, len(state.FixedItems))
	for _, item := range state.FixedItems {
		if fixedItemComplete(item) {
			complete = append(complete, item)
		}
	}
	if len(complete) == 0 {
		return Result{Advance: true}
	}

	startDate := h.now().UTC().Format("2006-01-02")
	for _, item := range complete {
		_, err := h.backend.CreateFixedItem(ctx, api.FixedItemCreate{
			Name:       item.Name,
			Amount:     strings.TrimSpace(item.Amount),
			Type:       item.Type,
			DayOfMonth: item.DayOfMonth,
			StartDate:  startDate,
		})
		if err != nil {
			h.log.WithError(err).WithField("item", item.Key).Error("fixed item create failed")
			return Result{ErrMsg: GenericErrMsg}
		}
		state.FixedItemsCreated++
	}
	return Result{Advance: true}
}

func (h *Handlers) advanceBankAccounts(ctx context.Context, state *draft.WizardState) Result {
	complete := make([]draft.BankAccountDraft, 0, len(state.BankAccounts))
	for _, acc := range state.BankAccounts {
		if strings.TrimSpace(acc.Name) != "" && strings.TrimSpace(acc.Bank) != "" && strings.TrimSpace(acc.Number) != "" {
			complete = append(complete, acc)
		}
	}
	if len(complete) == 0 {
		return Result{Advance: true}
	}

	for _, acc := range complete {
		created, err := h.backend.CreateBankAccount(ctx, api.BankAccountCreate{
			Name:    strings.TrimSpace(acc.Name),
			Bank:    strings.TrimSpace(acc.Bank),
			Number:  strings.TrimSpace(acc.Number),
			Balance: strings.TrimSpace(acc.Balance),
		})
		if err != nil {
			h.log.WithError(err).Error("bank account create failed")
			return Result{ErrMsg: GenericErrMsg}
		}
		state.SavedBankAccounts = append(state.SavedBankAccounts, draft.SavedRef{ID: created.ID, Name: created.Name})
	}
	return Result{Advance: true}
}

func (h *Handlers) advanceCreditCards(ctx context.Context, state *draft.WizardState) Result {
	complete := make([]draft.CreditCardDraft, 0, len(state.CreditCards))
	for _, card := range state.CreditCards {
		if strings.TrimSpace(card.Name) != "" &&
			strings.TrimSpace(card.BankAccountID) != "" &&
			strings.TrimSpace(card.LastDigits) != "" &&
			isDayOfMonth(card.BillingDay) {
			complete = append(complete, card)
		}
	}
	if len(complete) == 0 {
		return Result{Advance: true}
	}

	for _, card := range complete {
		billingDay, _ := strconv.Atoi(strings.TrimSpace(card.BillingDay))
		created, err := h.backend.CreateCreditCard(ctx, api.CreditCardCreate{
			Name:          strings.TrimSpace(card.Name),
			BankAccountID: strings.TrimSpace(card.BankAccountID),
			LastDigits:    strings.TrimSpace(card.LastDigits),
			BillingDay:    billingDay,
		})
		if err != nil {
			h.log.WithError(err).Error("credit card create failed")
			return Result{ErrMsg: GenericErrMsg}
		}
		state.SavedCreditCards = append(state.SavedCreditCards, draft.SavedRef{ID: created.ID, Name: created.Name})
	}
	return Result{Advance: true}
}

func (h *Handlers) advanceLoans(ctx context.Context, state *draft.WizardState) Result {
	complete := make([]draft.LoanDraft, 0, len(state.Loans))
	for _, loan := range state.Loans {
		months, err := strconv.Atoi(strings.TrimSpace(loan.Months))
		if strings.TrimSpace(loan.Name) != "" &&
			isDecimal(loan.Principal) &&
			isDecimal(loan.InterestRate) &&
			err == nil && months > 0 &&
			strings.TrimSpace(loan.StartDate) != "" {
			complete = append(complete, loan)
		}
	}
	if len(complete) == 0 {
		return Result{Advance: true}
	}

	for _, loan := range complete {
		months, _ := strconv.Atoi(strings.TrimSpace(loan.Months))
		created, err := h.backend.CreateLoan(ctx, api.LoanCreate{
			Name:         strings.TrimSpace(loan.Name),
			Principal:    strings.TrimSpace(loan.Principal),
			InterestRate: strings.TrimSpace(loan.InterestRate),
			Months:       months,
			StartDate:    strings.TrimSpace(loan.StartDate),
		})
		if err != nil {
			h.log.WithError(err).Error("loan create failed")
			return Result{ErrMsg: GenericErrMsg}
		}
		state.SavedLoans = append(state.SavedLoans, draft.SavedRef{ID: created.ID, Name: created.Name})
	}
	return Result{Advance: true}
}

func (h *Handlers) advanceSubscriptions(ctx context.Context, state *draft.WizardState) Result {
	complete := make([]draft.SubscriptionDraft, 0, len(state.Subscriptions))
	for _, sub := range state.Subscriptions {
		if strings.TrimSpace(sub.Name) != "" &&
			isDecimal(sub.Amount) &&
			isDayOfMonth(sub.BillingDay) {
			complete = append(complete, sub)
		}
	}
	if len(complete) == 0 {
		return Result{Advance: true}
	}

	for _, sub := range complete {
		billingDay, _ := strconv.Atoi(strings.TrimSpace(sub.BillingDay))
		created, err := h.backend.CreateSubscription(ctx, api.SubscriptionCreate{
			Name:         strings.TrimSpace(sub.Name),
			Amount:       strings.TrimSpace(sub.Amount),
			BillingDay:   billingDay,
			CreditCardID: strings.TrimSpace(sub.CreditCardID),
		})
		if err != nil {
			h.log.WithError(err).Error("subscription create failed")
			return Result{ErrMsg: GenericErrMsg}
		}
		state.SavedSubscriptions = append(state.SavedSubscriptions, draft.SavedRef{ID: created.ID, Name: created.Name})
	}
	return Result{Advance: true}
}

// Complete packages the terminal settings write. On success the draft
// blob is cleared; on failure the user stays on the summary step and may
// retry.
func (h *Handlers) Complete(
	ctx context.Context,
	store *draft.Store,
	state *draft.WizardState,
	language, theme string,
) Result {
	err := h.backend.UpdateSettings(ctx, api.SettingsUpdate{
		Currency:            state.Currency,
		Language:            language,
		Theme:               theme,
		OnboardingCompleted: true,
	})
	if err != nil {
		h.log.WithError(err).Error("settings update failed")
		return Result{ErrMsg: GenericErrMsg}
	}
	if store != nil {
		store.Clear(ctx)
	}
	return Result{Advance: true}
}

func fixedItemComplete(item draft.FixedItem) bool {
	return item.Enabled &&
		strings.TrimSpace(item.Name) != "" &&
		isDecimal(item.Amount) &&
		item.DayOfMonth >= 1 && item.DayOfMonth <= 31
}

func isDecimal(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	_, err := decimal.NewFromString(trimmed)
	return err == nil
}

func isDayOfMonth(raw string) bool {
	day, err := strconv.Atoi(strings.TrimSpace(raw))
	return err == nil && day >= 1 && day <= 31
}
