// Package types defines shared types used across all Rin modules.
package types

import "time"

// ═══════════════════════════════════════════════════════════════════════════════
// REMINDER TYPES
// ═══════════════════════════════════════════════════════════════════════════════

// ReminderKind distinguishes duration-based timers from absolute-time reminders.
type ReminderKind string

const (
	// KindTimer is a duration-based one-shot reminder ("set a timer for 5 minutes").
	KindTimer ReminderKind = "timer"
	// KindScheduled is an absolute-time reminder ("remind me at 3:30").
	KindScheduled ReminderKind = "scheduled"
)

// String returns the string representation of a ReminderKind.
func (k ReminderKind) String() string {
	return string(k)
}

// IsValid checks if a ReminderKind is a known valid kind.
func (k ReminderKind) IsValid() bool {
	return k == KindTimer || k == KindScheduled
}

// Reminder is a scheduled one-shot notification. The durable record is the
// source of truth; runtime scheduling state is derived from it and never
// stored. Completed is monotonic: once true, the reminder is terminal and is
// never rescheduled or re-notified.
type Reminder struct {
	ID          string       `json:"id"`
	Kind        ReminderKind `json:"kind"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	DueAt       time.Time    `json:"due_at"`

	// DurationSeconds is the original requested duration. Timers only;
	// zero for scheduled reminders.
	DurationSeconds int64 `json:"duration_seconds,omitempty"`

	Completed bool `json:"completed"`
}

// ═══════════════════════════════════════════════════════════════════════════════
// LIST TYPES
// ═══════════════════════════════════════════════════════════════════════════════

// List is a named, ordered collection of item strings. Names are unique and
// case-sensitive; duplicate items are allowed and order is significant.
type List struct {
	Name      string    `json:"name"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// ═══════════════════════════════════════════════════════════════════════════════
// EMAIL DRAFT TYPES
// ═══════════════════════════════════════════════════════════════════════════════

// EmailDraft is a generated email body plus the request that produced it.
// Immutable once created, except for deletion.
type EmailDraft struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Tone      string    `json:"tone"`
	Prompt    string    `json:"prompt"`
}

// ═══════════════════════════════════════════════════════════════════════════════
// INTERACTION TYPES
// ═══════════════════════════════════════════════════════════════════════════════

// Interaction is one (query, response) pair in the append-only history log.
type Interaction struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ═══════════════════════════════════════════════════════════════════════════════
// SEARCH TYPES
// ═══════════════════════════════════════════════════════════════════════════════

// SearchResult is one web search hit returned by a search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
