package api

import (
	"context"

	"github.com/kerem/todoterm/internal/model"
)

// LoginRequest carries login credentials. Username also accepts the
// account's email address; the server resolves either.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAccountRequest mutates the account. Password is required as
// confirmation of the change.
type UpdateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DeleteAccountRequest confirms account deletion with the password.
// Deletion cascades to all owned lists and items on the server.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// AuthResponse is returned by login and account update: a fresh token
// plus the identity it encodes.
type AuthResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// User converts the response's identity fields into a model.User.
func (r AuthResponse) User() model.User {
	return model.User{ID: r.ID, Username: r.Username, Email: r.Email}
}

// Login authenticates and returns a token for subsequent requests.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. The user logs in separately afterward.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/api/auth/register", req, nil)
}

// UpdateAccount changes the username and/or email. The server issues a
// new token reflecting the updated identity.
func (c *Client) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.put(ctx, "/api/auth/update", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteAccount destroys the account and everything it owns.
func (c *Client) DeleteAccount(ctx context.Context, req DeleteAccountRequest) error {
	return c.delete(ctx, "/api/auth/delete", req, nil)
}
