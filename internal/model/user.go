package model

// User is the authenticated account. The password is write-only: it is
// sent on registration and account changes but never returned by the
// server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Account credential limits enforced client-side before submission.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 6
)
