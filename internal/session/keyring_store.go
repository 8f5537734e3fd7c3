package session

import "github.com/kerem/todoterm/internal/credential"

// KeyringStore persists the token in the system keyring.
type KeyringStore struct{}

func (KeyringStore) Token() (string, error)      { return credential.Token() }
func (KeyringStore) StoreToken(tok string) error { return credential.StoreToken(tok) }
func (KeyringStore) ClearToken() error           { return credential.ClearToken() }
