package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "finbook"
	defaultTokenAccount  = "api_token"
	defaultDBKeyAccount  = "db_key"
)

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// LoadToken loads the finbook API token.
//
// Order of precedence:
// 1) FINBOOK_TOKEN environment variable.
// 2) System credential store item referenced by service/account.
func LoadToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv("FINBOOK_TOKEN")); token != "" {
		return token, nil
	}

	token, err := loadSecret(defaultTokenAccount)
	if err != nil {
		return "", err
	}

	if token == "" {
		return "", errors.New("api token is empty")
	}

	return token, nil
}

// SaveToken stores the API token in the system credential store.
func SaveToken(token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return errors.New("api token cannot be empty")
	}
	return saveSecret(defaultTokenAccount, trimmed)
}

// DeleteToken removes the API token from the system credential store.
func DeleteToken() error {
	service := envOrDefault("FINBOOK_KEYCHAIN_SERVICE", defaultSecretService)
	account := envOrDefault("FINBOOK_KEYCHAIN_ACCOUNT", defaultTokenAccount)

	if err := keyringDelete(service, account); err != nil {
		return fmt.Errorf(
			"failed to delete keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// LoadDBKey loads the local database encryption key.
func LoadDBKey() (string, error) {
	return loadSecret(defaultDBKeyAccount)
}

// SaveDBKey stores the local database encryption key.
func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("db key cannot be empty")
	}
	return saveSecret(defaultDBKeyAccount, trimmed)
}

func loadSecret(defaultAccount string) (string, error) {
	service := envOrDefault("FINBOOK_KEYCHAIN_SERVICE", defaultSecretService)
	account := keyringAccount(defaultAccount)

	secret, err := keyringGet(service, account)
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	return strings.TrimSpace(secret), nil
}

func saveSecret(defaultAccount, value string) error {
	service := envOrDefault("FINBOOK_KEYCHAIN_SERVICE", defaultSecretService)
	account := keyringAccount(defaultAccount)

	if err := keyringSet(service, account, value); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func keyringAccount(defaultAccount string) string {
	if defaultAccount == defaultTokenAccount {
		return envOrDefault("FINBOOK_KEYCHAIN_ACCOUNT", defaultAccount)
	}
	return defaultAccount
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
