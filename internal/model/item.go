package model

import (
	"net/mail"
	"strings"
	"time"
)

// Item status constants as stored and returned by the backend.
// StatusExpired is derived by the server (and by IsExpired locally for
// display); it is never submitted through the item form.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusExpired    = "EXPIRED"
)

// Validation limits enforced by the forms before any request is made.
// They mirror the server-side constraints.
const (
	MaxListNameLen        = 100
	MaxItemNameLen        = 50
	MaxItemDescriptionLen = 150
)

// TodoItem is a single entry in a todo list. Dependencies are the items
// that must reach COMPLETED before this one can be marked COMPLETED;
// the server owns cycle detection for the dependency graph.
type TodoItem struct {
	ID           int64      `json:"id"`
	ListID       int64      `json:"listId"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	Dependencies []TodoItem `json:"dependencies,omitempty"`
}

// IsExpired reports whether the item's deadline has passed as of today.
// The comparison is on calendar dates with the time of day stripped, so
// an item due today is not expired until tomorrow. Completed items and
// items without a deadline never expire.
func IsExpired(item TodoItem, today time.Time) bool {
	if item.Deadline == nil || item.Status == StatusCompleted {
		return false
	}
	return calendarDate(*item.Deadline).Before(calendarDate(today))
}

// IsLastDay reports whether the item's deadline falls on today's
// calendar date. Same preconditions as IsExpired.
func IsLastDay(item TodoItem, today time.Time) bool {
	if item.Deadline == nil || item.Status == StatusCompleted {
		return false
	}
	return calendarDate(*item.Deadline).Equal(calendarDate(today))
}

// DisplayStatus returns the status to render for the item: the stored
// status, or StatusExpired when the deadline has passed. The server
// returns EXPIRED itself; this keeps the display consistent between
// fetches.
func DisplayStatus(item TodoItem, today time.Time) string {
	if IsExpired(item, today) {
		return StatusExpired
	}
	return item.Status
}

// StatusDisplayName maps a status constant to its human-readable label.
// Unknown values are returned unchanged.
func StatusDisplayName(status string) string {
	switch status {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusExpired:
		return "Expired"
	default:
		return status
	}
}

// FormStatuses are the statuses offered by the item form's selector.
// EXPIRED is excluded: it is derived, never set directly.
func FormStatuses() []string {
	return []string{StatusNotStarted, StatusInProgress, StatusCompleted}
}

// EligibleDependencies returns the items from the active list that may
// be added as dependencies of item: everything except the item itself
// and its existing direct dependencies.
func EligibleDependencies(item TodoItem, items []TodoItem) []TodoItem {
	existing := make(map[int64]bool, len(item.Dependencies))
	for _, dep := range item.Dependencies {
		existing[dep.ID] = true
	}

	var eligible []TodoItem
	for _, candidate := range items {
		if candidate.ID == item.ID || existing[candidate.ID] {
			continue
		}
		eligible = append(eligible, candidate)
	}
	return eligible
}

// DeadlineInput returns the item's deadline as a date-only string for
// pre-populating the form's date field, truncating any time component.
func DeadlineInput(item TodoItem) string {
	if item.Deadline == nil {
		return ""
	}
	return item.Deadline.Format("2006-01-02")
}

// calendarDate strips the time of day, keeping the location so that a
// deadline near midnight does not cross a day boundary when compared.
func calendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ValidEmail reports whether s has the basic shape of an email address:
// a bare RFC 5322 address with a dotted domain. The server performs
// authoritative validation.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
