package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadTokenUsesEnvVarFirst(t *testing.T) {
	t.Setenv("FINBOOK_TOKEN", "  env-token  ")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringCalled := false
	keyringGet = func(service, user string) (string, error) {
		keyringCalled = true
		return "keyring-token", nil
	}

	got, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken() unexpected error: %v", err)
	}
	if got != "env-token" {
		t.Fatalf("LoadToken() = %q, want %q", got, "env-token")
	}
	if keyringCalled {
		t.Fatal("LoadToken() called keyringGet even though FINBOOK_TOKEN was set")
	}
}

func TestLoadTokenFallsBackToKeyring(t *testing.T) {
	t.Setenv("FINBOOK_TOKEN", "")
	t.Setenv("FINBOOK_KEYCHAIN_SERVICE", "svc")
	t.Setenv("FINBOOK_KEYCHAIN_ACCOUNT", "acct")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	var gotService, gotUser string
	keyringGet = func(service, user string) (string, error) {
		gotService = service
		gotUser = user
		return "  keyring-token  ", nil
	}

	got, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken() unexpected error: %v", err)
	}
	if got != "keyring-token" {
		t.Fatalf("LoadToken() = %q, want %q", got, "keyring-token")
	}
	if gotService != "svc" || gotUser != "acct" {
		t.Fatalf("keyringGet called with (%q, %q), want (%q, %q)", gotService, gotUser, "svc", "acct")
	}
}

func TestLoadTokenReturnsErrorWhenKeyringFails(t *testing.T) {
	t.Setenv("FINBOOK_TOKEN", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "", errors.New("boom")
	}

	_, err := LoadToken()
	if err == nil {
		t.Fatal("LoadToken() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "failed to read keyring item") {
		t.Fatalf("LoadToken() error = %q, expected keyring read context", err.Error())
	}
}

func TestLoadTokenReturnsErrorWhenTokenEmpty(t *testing.T) {
	t.Setenv("FINBOOK_TOKEN", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "   ", nil
	}

	_, err := LoadToken()
	if err == nil {
		t.Fatal("LoadToken() error = nil, want non-nil")
	}
	if err.Error() != "api token is empty" {
		t.Fatalf("LoadToken() error = %q, want %q", err.Error(), "api token is empty")
	}
}

func TestSaveTokenSavesTrimmedToken(t *testing.T) {
	t.Setenv("FINBOOK_KEYCHAIN_SERVICE", "svc")
	t.Setenv("FINBOOK_KEYCHAIN_ACCOUNT", "acct")

	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	var gotService, gotUser, gotSecret string
	keyringSet = func(service, user, secret string) error {
		gotService = service
		gotUser = user
		gotSecret = secret
		return nil
	}

	if err := SaveToken("  my-token  "); err != nil {
		t.Fatalf("SaveToken() unexpected error: %v", err)
	}
	if gotService != "svc" || gotUser != "acct" || gotSecret != "my-token" {
		t.Fatalf(
			"SaveToken() called keyringSet with (%q, %q, %q), want (%q, %q, %q)",
			gotService, gotUser, gotSecret, "svc", "acct", "my-token",
		)
	}
}

func TestSaveTokenRejectsEmptyToken(t *testing.T) {
	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	called := false
	keyringSet = func(service, user, secret string) error {
		called = true
		return nil
	}

	err := SaveToken("   ")
	if err == nil {
		t.Fatal("SaveToken() error = nil, want non-nil")
	}
	if err.Error() != "api token cannot be empty" {
		t.Fatalf("SaveToken() error = %q, want %q", err.Error(), "api token cannot be empty")
	}
	if called {
		t.Fatal("SaveToken() called keyringSet for empty token")
	}
}

func TestSaveTokenReturnsErrorWhenKeyringSetFails(t *testing.T) {
	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	keyringSet = func(service, user, secret string) error {
		return errors.New("write failed")
	}

	err := SaveToken("token")
	if err == nil {
		t.Fatal("SaveToken() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "failed to store keyring item") {
		t.Fatalf("SaveToken() error = %q, expected keyring write context", err.Error())
	}
}

func TestDBKeySecretsUseDedicatedAccount(t *testing.T) {
	t.Setenv("FINBOOK_KEYCHAIN_SERVICE", "svc")
	t.Setenv("FINBOOK_KEYCHAIN_ACCOUNT", "acct")

	origGet := keyringGet
	origSet := keyringSet
	defer func() {
		keyringGet = origGet
		keyringSet = origSet
	}()

	var getAccount, setAccount string
	keyringGet = func(service, user string) (string, error) {
		getAccount = user
		return "stored-key", nil
	}
	keyringSet = func(service, user, secret string) error {
		setAccount = user
		return nil
	}

	if _, err := LoadDBKey(); err != nil {
		t.Fatalf("LoadDBKey() unexpected error: %v", err)
	}
	if err := SaveDBKey("new-key"); err != nil {
		t.Fatalf("SaveDBKey() unexpected error: %v", err)
	}

	// FINBOOK_KEYCHAIN_ACCOUNT overrides the token account only.
	if getAccount != "db_key" || setAccount != "db_key" {
		t.Fatalf("db key accounts = (%q, %q), want (%q, %q)", getAccount, setAccount, "db_key", "db_key")
	}
}
