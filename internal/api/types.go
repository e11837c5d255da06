package api

// Monetary fields travel as decimal strings. The client never does
// arithmetic on them except display aggregation.

// Created is the minimal shape every create endpoint returns, consumed
// by later onboarding steps to populate reference selectors.
type Created struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile is the authenticated user's profile.
type Profile struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

// BalanceCreate is an opening balance snapshot.
type BalanceCreate struct {
	Amount        string `json:"amount"`
	EffectiveDate string `json:"effectiveDate"`
	Notes         string `json:"notes,omitempty"`
}

// Category is a spending category. Names are kept in two locales.
type Category struct {
	ID       string `json:"id"`
	NameEN   string `json:"nameEn"`
	NameHE   string `json:"nameHe"`
	Type     string `json:"type"`
	Archived bool   `json:"archived"`
}

// CategoryCreate creates a custom category.
type CategoryCreate struct {
	NameEN string `json:"nameEn"`
	NameHE string `json:"nameHe"`
	Type   string `json:"type"`
}

// FixedItemCreate is a recurring income/expense template.
type FixedItemCreate struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	DayOfMonth int    `json:"dayOfMonth"`
	StartDate  string `json:"startDate"`
	CategoryID string `json:"categoryId,omitempty"`
}

// BankAccountCreate creates a bank account record.
type BankAccountCreate struct {
	Name    string `json:"name"`
	Bank    string `json:"bank"`
	Number  string `json:"number"`
	Balance string `json:"balance,omitempty"`
}

// CreditCardCreate creates a credit card linked to a bank account.
type CreditCardCreate struct {
	Name          string `json:"name"`
	BankAccountID string `json:"bankAccountId"`
	LastDigits    string `json:"lastDigits"`
	BillingDay    int    `json:"billingDay"`
}

// LoanCreate creates a loan record. Amortization is computed server-side.
type LoanCreate struct {
	Name          string `json:"name"`
	Principal     string `json:"principal"`
	InterestRate  string `json:"interestRate"`
	Months        int    `json:"months"`
	StartDate     string `json:"startDate"`
	BankAccountID string `json:"bankAccountId,omitempty"`
}

// SubscriptionCreate creates a subscription charged to a credit card.
type SubscriptionCreate struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	BillingDay   int    `json:"billingDay"`
	CreditCardID string `json:"creditCardId,omitempty"`
}

// SettingsUpdate is the terminal onboarding settings write.
type SettingsUpdate struct {
	Currency            string `json:"currency"`
	Language            string `json:"language"`
	Theme               string `json:"theme"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// Breakdown entry statuses as the backend reports them.
const (
	BreakdownStatusPaid     = "paid"
	BreakdownStatusUpcoming = "upcoming"
	BreakdownStatusFuture   = "future"
)

// BreakdownEntry is one row of a loan's payment schedule. The backend
// owns these values; the client only renders and sums them.
type BreakdownEntry struct {
	PaymentNumber    int    `json:"paymentNumber"`
	Date             string `json:"date"`
	Payment          string `json:"payment"`
	Principal        string `json:"principal"`
	Interest         string `json:"interest"`
	RemainingBalance string `json:"remainingBalance"`
	Status           string `json:"status"`
}
