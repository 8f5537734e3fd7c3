package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "todoterm"
	tokenKey    = "api-token"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/todoterm/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("todoterm-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token retrieves the stored API token. A missing token is not an
// error: it returns "" so startup can proceed to the login screen.
func Token() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting token: %w", err)
	}

	return string(item.Data), nil
}

// StoreToken saves the API token in the system keyring. The token is
// the only state this client persists outside of its config file.
func StoreToken(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// ClearToken removes the API token, on logout or account deletion.
func ClearToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing token: %w", err)
	}

	return nil
}
