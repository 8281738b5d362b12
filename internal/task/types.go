package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// Priorities lists the valid priorities in the order the UI cycles them.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh}

// Rank returns the sort weight of the priority. High sorts first.
// Unknown values rank as Normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Next returns the priority after p in the Low, Normal, High cycle.
func (p Priority) Next() Priority {
	for i, candidate := range Priorities {
		if candidate == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityNormal
}

// ParsePriority parses a priority name case-insensitively.
// An empty string yields PriorityNormal.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityNormal, nil
	case "low", "l":
		return PriorityLow, nil
	case "normal", "n", "medium":
		return PriorityNormal, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q, must be one of: Low, Normal, High", s)
}

// Task represents a single to-do item.
type Task struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Done     bool     `json:"done"`
	Priority Priority `json:"priority"`
	DueDate  string   `json:"due_date"`
	Notified bool     `json:"notified,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Label renders the task the way the checklist shows it.
func (t Task) Label() string {
	return fmt.Sprintf("%s [%s] — Due: %s", t.Text, t.Priority, t.DueDate)
}

// Due parses the task's due date in loc.
func (t Task) Due(loc *time.Location) (time.Time, error) {
	return ParseDue(t.DueDate, loc)
}

// NeedsNotice reports whether a notification should fire for t at now.
// The task must be pending, not yet notified, and due within (0, window].
func (t Task) NeedsNotice(now time.Time, window time.Duration) bool {
	if t.Done || t.Notified {
		return false
	}
	due, err := t.Due(now.Location())
	if err != nil {
		return false
	}
	delta := due.Sub(now)
	return delta > 0 && delta <= window
}

// ErrNoDueDate is returned by ParseDue for blank input.
var ErrNoDueDate = errors.New("no due date")

// DateLayout is the layout of a date-only due date.
const DateLayout = "2006-01-02"

var dueLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseDue parses an ISO date or date-time. Values without a zone are
// interpreted in loc; a bare date is midnight in loc.
func ParseDue(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrNoDueDate
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}

// Today returns the ISO date of now, used as the default due date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
