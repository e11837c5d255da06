package loans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nivkeidan/finbook/internal/api"
)

func TestSumBreakdownAccumulatesColumns(t *testing.T) {
	t.Parallel()

	entries := []api.BreakdownEntry{
		{PaymentNumber: 1, Payment: "100", Principal: "80", Interest: "20", Status: api.BreakdownStatusPaid},
		{PaymentNumber: 2, Payment: "100", Principal: "82", Interest: "18", Status: api.BreakdownStatusUpcoming},
	}

	totals, err := SumBreakdown(entries)
	if err != nil {
		t.Fatalf("SumBreakdown() unexpected error: %v", err)
	}
	if got := totals.Payment.String(); got != "200" {
		t.Fatalf("Payment total = %s, want 200", got)
	}
	if got := totals.Principal.String(); got != "162" {
		t.Fatalf("Principal total = %s, want 162", got)
	}
	if got := totals.Interest.String(); got != "38" {
		t.Fatalf("Interest total = %s, want 38", got)
	}
}

func TestSumBreakdownKeepsDecimalPrecision(t *testing.T) {
	t.Parallel()

	entries := []api.BreakdownEntry{
		{PaymentNumber: 1, Payment: "0.10", Principal: "0.07", Interest: "0.03"},
		{PaymentNumber: 2, Payment: "0.20", Principal: "0.14", Interest: "0.06"},
	}

	totals, err := SumBreakdown(entries)
	if err != nil {
		t.Fatalf("SumBreakdown() unexpected error: %v", err)
	}
	if got := totals.Payment.StringFixed(2); got != "0.30" {
		t.Fatalf("Payment total = %s, want 0.30", got)
	}
}

func TestSumBreakdownEmptyIsZero(t *testing.T) {
	t.Parallel()

	totals, err := SumBreakdown(nil)
	if err != nil {
		t.Fatalf("SumBreakdown() unexpected error: %v", err)
	}
	if !totals.Payment.IsZero() || !totals.Principal.IsZero() || !totals.Interest.IsZero() {
		t.Fatalf("totals = %+v, want all zero", totals)
	}
}

func TestSumBreakdownRejectsMalformedAmount(t *testing.T) {
	t.Parallel()

	entries := []api.BreakdownEntry{
		{PaymentNumber: 1, Payment: "not-money", Principal: "80", Interest: "20"},
	}

	if _, err := SumBreakdown(entries); err == nil {
		t.Fatal("SumBreakdown() error = nil, want parse failure")
	}
}

type fakeFetcher struct {
	calls   int
	entries []api.BreakdownEntry
	err     error
}

func (f *fakeFetcher) LoanBreakdown(ctx context.Context, loanID string) ([]api.BreakdownEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestServiceCachesPerLoan(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{entries: []api.BreakdownEntry{{PaymentNumber: 1}}}
	svc := NewService(fetcher)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1 (second hit cached)", fetcher.calls)
	}

	if _, err := svc.Get(ctx, "loan-2"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetch calls = %d, want 2 (cache is keyed by loan id)", fetcher.calls)
	}
}

func TestServiceRefetchesWhenStale(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	svc := NewService(fetcher)

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	current = current.Add(defaultStaleTTL + time.Second)
	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetch calls = %d, want 2 after staleness", fetcher.calls)
	}
}

func TestServiceFallsBackToStaleCopyOnFetchError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{entries: []api.BreakdownEntry{{PaymentNumber: 1}}}
	svc := NewService(fetcher)

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	current = current.Add(defaultStaleTTL + time.Second)
	fetcher.err = errors.New("backend down")

	entries, err := svc.Get(ctx, "loan-1")
	if err != nil {
		t.Fatalf("Get() = error %v, want stale fallback", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want cached copy", entries)
	}
}

func TestServiceErrorWithNoCacheSurfaces(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: errors.New("backend down")}
	svc := NewService(fetcher)

	if _, err := svc.Get(context.Background(), "loan-1"); err == nil {
		t.Fatal("Get() error = nil, want fetch failure")
	}
}

func TestServiceInvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	svc := NewService(fetcher)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	svc.Invalidate("loan-1")
	if _, err := svc.Get(ctx, "loan-1"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetch calls = %d, want 2 after invalidation", fetcher.calls)
	}
}
