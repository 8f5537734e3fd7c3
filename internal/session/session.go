package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/internal/model"
)

// TokenStore persists the bearer token across runs. The keyring-backed
// implementation lives in internal/credential; tests substitute an
// in-memory one.
type TokenStore interface {
	Token() (string, error)
	StoreToken(token string) error
	ClearToken() error
}

// Session owns authentication state: the bearer token and the current
// user's identity. It implements api.TokenSource so the client reads
// the live token on every request. API calls run from Bubble Tea
// commands on their own goroutines, hence the lock.
type Session struct {
	mu     sync.RWMutex
	store  TokenStore
	client *api.Client
	token  string
	user   *model.User
}

// New creates a session backed by the given token store. Call Load to
// pick up a persisted token, then Attach once the API client exists.
func New(store TokenStore) *Session {
	return &Session{store: store}
}

// Attach wires in the API client. The client is constructed after the
// session because it takes the session as its token source.
func (s *Session) Attach(client *api.Client) {
	s.client = client
}

// Load reads any persisted token into memory. A stored token means the
// UI can skip the login screen; the first 401 will force it back.
func (s *Session) Load() error {
	token, err := s.store.Token()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a token is present.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// User returns the current user's identity, or nil when only a
// persisted token is known (identity arrives with the next login or
// account update).
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login authenticates, persists the returned token, and records the
// user's identity.
func (s *Session) Login(ctx context.Context, username, password string) (model.User, error) {
	resp, err := s.client.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return model.User{}, err
	}
	return s.establish(resp)
}

// Register creates an account. It does not log in; the user signs in
// with the new credentials afterward.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	return s.client.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
}

// Update changes the account's username/email, confirmed by password.
// The server issues a fresh token for the updated identity.
func (s *Session) Update(ctx context.Context, username, email, password string) (model.User, error) {
	resp, err := s.client.UpdateAccount(ctx, api.UpdateAccountRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return model.User{}, err
	}
	return s.establish(resp)
}

// DeleteAccount destroys the account and ends the session.
func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	err := s.client.DeleteAccount(ctx, api.DeleteAccountRequest{
		Password: password,
	})
	if err != nil {
		return err
	}
	return s.Logout()
}

// Logout clears the in-memory session and the persisted token. Also
// used for forced logout on a 401: the in-memory state is always
// cleared, even if the store fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.ClearToken(); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

func (s *Session) establish(resp *api.AuthResponse) (model.User, error) {
	user := resp.User()

	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()

	if err := s.store.StoreToken(resp.Token); err != nil {
		return user, fmt.Errorf("persisting token: %w", err)
	}
	return user, nil
}
