package draft

import (
	"context"
	"errors"
	"testing"
)

type memKV struct {
	values map[string]string
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string)}
}

func (m *memKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type brokenKV struct{}

func (brokenKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (brokenKV) Set(ctx context.Context, key, value string) error {
	return errors.New("storage unavailable")
}

func (brokenKV) Delete(ctx context.Context, key string) error {
	return errors.New("storage unavailable")
}

func TestLoadReturnsDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(newMemKV(), nil)
	state := store.Load(context.Background())

	if state.CurrentStep != 0 {
		t.Fatalf("CurrentStep = %d, want 0", state.CurrentStep)
	}
	if state.Currency != "ILS" {
		t.Fatalf("Currency = %q, want %q", state.Currency, "ILS")
	}
	if len(state.FixedItems) == 0 {
		t.Fatal("default state has no fixed item templates")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Parallel()

	kv := newMemKV()
	store := NewStore(kv, nil)
	ctx := context.Background()

	state := store.Load(ctx)
	state.CurrentStep = 3
	state.FullName = "Dana Levi"
	state.BalanceAmount = "1234.56"
	state.SavedBankAccounts = []SavedRef{{ID: "ba-1", Name: "checking"}}
	store.Save(ctx, state)

	got := store.Load(ctx)
	if got.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d, want 3", got.CurrentStep)
	}
	if got.FullName != "Dana Levi" {
		t.Fatalf("FullName = %q, want %q", got.FullName, "Dana Levi")
	}
	if got.BalanceAmount != "1234.56" {
		t.Fatalf("BalanceAmount = %q, want %q", got.BalanceAmount, "1234.56")
	}
	if len(got.SavedBankAccounts) != 1 || got.SavedBankAccounts[0].ID != "ba-1" {
		t.Fatalf("SavedBankAccounts = %+v, want one entry with id ba-1", got.SavedBankAccounts)
	}
}

func TestLoadMergesPartialBlobOntoDefaults(t *testing.T) {
	t.Parallel()

	kv := newMemKV()
	kv.values[draftKey] = `{"currentStep":3,"fullName":"Dana Levi"}`
	store := NewStore(kv, nil)

	state := store.Load(context.Background())
	if state.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d, want 3", state.CurrentStep)
	}
	if state.FullName != "Dana Levi" {
		t.Fatalf("FullName = %q, want %q", state.FullName, "Dana Levi")
	}
	// Missing keys keep their defaults.
	if state.Currency != "ILS" {
		t.Fatalf("Currency = %q, want default %q", state.Currency, "ILS")
	}
	if len(state.FixedItems) == 0 {
		t.Fatal("partial blob lost the default fixed item templates")
	}
}

func TestLoadReturnsDefaultsOnCorruptBlob(t *testing.T) {
	t.Parallel()

	kv := newMemKV()
	kv.values[draftKey] = `{not json`
	store := NewStore(kv, nil)

	state := store.Load(context.Background())
	if state.CurrentStep != 0 || state.Currency != "ILS" {
		t.Fatalf("corrupt blob did not yield defaults: %+v", state)
	}
}

func TestClearRemovesBlob(t *testing.T) {
	t.Parallel()

	kv := newMemKV()
	store := NewStore(kv, nil)
	ctx := context.Background()

	state := store.Load(ctx)
	state.CurrentStep = 5
	store.Save(ctx, state)
	store.Clear(ctx)

	got := store.Load(ctx)
	if got.CurrentStep != 0 {
		t.Fatalf("CurrentStep after Clear = %d, want 0", got.CurrentStep)
	}
}

func TestBrokenStorageIsSwallowed(t *testing.T) {
	t.Parallel()

	store := NewStore(brokenKV{}, nil)
	ctx := context.Background()

	// None of these may panic or surface errors.
	state := store.Load(ctx)
	store.Save(ctx, state)
	store.Clear(ctx)

	if state.Currency != "ILS" {
		t.Fatalf("Currency = %q, want default %q", state.Currency, "ILS")
	}
}
