package wizard

// Step enumerates each screen of the onboarding wizard. Ordering is a
// design invariant, not presentation: bank accounts must be created and
// return ids before credit cards can reference them, and credit cards
// before subscriptions.
type Step int

const (
	StepWelcome Step = iota
	StepProfile
	StepBalance
	StepCategories
	StepFixedItems
	StepBankAccounts
	StepCreditCards
	StepLoans
	StepSubscriptions
	StepSummary
)

const StepCount = 10

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepProfile:
		return "profile"
	case StepBalance:
		return "balance"
	case StepCategories:
		return "categories"
	case StepFixedItems:
		return "fixed items"
	case StepBankAccounts:
		return "bank accounts"
	case StepCreditCards:
		return "credit cards"
	case StepLoans:
		return "loans"
	case StepSubscriptions:
		return "subscriptions"
	case StepSummary:
		return "summary"
	}
	return "unknown"
}

// StepLabels returns the labels shown on the progress indicator.
func StepLabels() []string {
	labels := make([]string, 0, StepCount)
	for s := StepWelcome; s < StepCount; s++ {
		labels = append(labels, s.String())
	}
	return labels
}
