package loans

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nivkeidan/finbook/internal/api"
)

// Totals are the footer sums of a breakdown table. Display aggregation
// only; the schedule itself is server-computed.
type Totals struct {
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
}

// SumBreakdown accumulates payment, principal and interest across all
// entries. Monetary fields arrive as decimal strings; a malformed value
// fails the whole aggregation rather than rendering a wrong total.
func SumBreakdown(entries []api.BreakdownEntry) (Totals, error) {
	totals := Totals{
		Payment:   decimal.Zero,
		Principal: decimal.Zero,
		Interest:  decimal.Zero,
	}

	for _, entry := range entries {
		payment, err := decimal.NewFromString(entry.Payment)
		if err != nil {
			return Totals{}, fmt.Errorf("parse payment %d amount %q: %w", entry.PaymentNumber, entry.Payment, err)
		}
		principal, err := decimal.NewFromString(entry.Principal)
		if err != nil {
			return Totals{}, fmt.Errorf("parse payment %d principal %q: %w", entry.PaymentNumber, entry.Principal, err)
		}
		interest, err := decimal.NewFromString(entry.Interest)
		if err != nil {
			return Totals{}, fmt.Errorf("parse payment %d interest %q: %w", entry.PaymentNumber, entry.Interest, err)
		}

		totals.Payment = totals.Payment.Add(payment)
		totals.Principal = totals.Principal.Add(principal)
		totals.Interest = totals.Interest.Add(interest)
	}

	return totals, nil
}
