package draft

// WizardState is the client-local onboarding draft. It is the single
// source of truth for in-progress data; once a step submits, the server
// copy is authoritative and the draft keeps values only for display.
type WizardState struct {
	CurrentStep int `json:"currentStep"`

	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`

	Currency string `json:"currency"`

	BalanceAmount string `json:"balanceAmount"`
	BalanceDate   string `json:"balanceDate"`
	BalanceNotes  string `json:"balanceNotes"`

	FixedItems        []FixedItem `json:"fixedItems"`
	FixedItemsCreated int         `json:"fixedItemsCreated"`

	BankAccounts  []BankAccountDraft  `json:"bankAccounts"`
	CreditCards   []CreditCardDraft   `json:"creditCards"`
	Loans         []LoanDraft         `json:"loans"`
	Subscriptions []SubscriptionDraft `json:"subscriptions"`

	// Saved* hold backend-assigned identifiers returned by create calls.
	// Later steps populate their reference selectors only from these.
	SavedBankAccounts  []SavedRef `json:"savedBankAccounts"`
	SavedCreditCards   []SavedRef `json:"savedCreditCards"`
	SavedLoans         []SavedRef `json:"savedLoans"`
	SavedSubscriptions []SavedRef `json:"savedSubscriptions"`
}

// SavedRef is a server-confirmed record: id plus display name.
type SavedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fixed item types.
const (
	FixedItemIncome  = "income"
	FixedItemExpense = "expense"
)

// FixedItem is a recurring income/expense template. Key is stable across
// sessions so edits survive a reload.
type FixedItem struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Enabled    bool   `json:"enabled"`
	Amount     string `json:"amount"`
	DayOfMonth int    `json:"dayOfMonth"`
}

type BankAccountDraft struct {
	Name    string `json:"name"`
	Bank    string `json:"bank"`
	Number  string `json:"number"`
	Balance string `json:"balance"`
}

type CreditCardDraft struct {
	Name          string `json:"name"`
	BankAccountID string `json:"bankAccountId"`
	LastDigits    string `json:"lastDigits"`
	BillingDay    string `json:"billingDay"`
}

type LoanDraft struct {
	Name         string `json:"name"`
	Principal    string `json:"principal"`
	InterestRate string `json:"interestRate"`
	Months       string `json:"months"`
	StartDate    string `json:"startDate"`
}

type SubscriptionDraft struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	BillingDay   string `json:"billingDay"`
	CreditCardID string `json:"creditCardId"`
}

// Clone returns a deep copy. Advance handlers run off the UI loop and
// mutate their copy; sharing slice backing arrays with the rendering
// copy would race.
func (s WizardState) Clone() WizardState {
	out := s
	out.FixedItems = append([]FixedItem(nil), s.FixedItems...)
	out.BankAccounts = append([]BankAccountDraft(nil), s.BankAccounts...)
	out.CreditCards = append([]CreditCardDraft(nil), s.CreditCards...)
	out.Loans = append([]LoanDraft(nil), s.Loans...)
	out.Subscriptions = append([]SubscriptionDraft(nil), s.Subscriptions...)
	out.SavedBankAccounts = append([]SavedRef(nil), s.SavedBankAccounts...)
	out.SavedCreditCards = append([]SavedRef(nil), s.SavedCreditCards...)
	out.SavedLoans = append([]SavedRef(nil), s.SavedLoans...)
	out.SavedSubscriptions = append([]SavedRef(nil), s.SavedSubscriptions...)
	return out
}

// Currencies the wizard offers. ILS is the default.
func CurrencyOptions() []string {
	return []string{"ILS", "USD", "EUR", "GBP"}
}

// Default returns a fresh draft: step zero, ILS, and the stock fixed
// item templates, all disabled.
func Default() WizardState {
	return WizardState{
		CurrentStep: 0,
		Currency:    "ILS",
		FixedItems: []FixedItem{
			{Key: "salary", Name: "Salary", Type: FixedItemIncome, DayOfMonth: 10},
			{Key: "rent", Name: "Rent", Type: FixedItemExpense, DayOfMonth: 1},
			{Key: "electricity", Name: "Electricity", Type: FixedItemExpense, DayOfMonth: 15},
			{Key: "water", Name: "Water", Type: FixedItemExpense, DayOfMonth: 15},
			{Key: "phone", Name: "Phone", Type: FixedItemExpense, DayOfMonth: 20},
			{Key: "internet", Name: "Internet", Type: FixedItemExpense, DayOfMonth: 20},
		},
	}
}
