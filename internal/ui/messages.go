package ui

// RequestFailedMsg is emitted by child views when an API call fails.
// The root model extracts a user-facing message for the status bar and
// forces logout when the failure is a 401.
type RequestFailedMsg struct {
	Err error
}
