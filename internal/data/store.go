package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// Sentinel errors returned by store operations. Callers branch on these to
// produce user-facing "couldn't find X" responses instead of generic errors.
var (
	// ErrNotFound is returned when a referenced list, reminder, or draft
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when creating a list whose name is taken.
	ErrExists = errors.New("already exists")
)

// ═══════════════════════════════════════════════════════════════════════════════
// INTERACTION OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════

// SaveInteraction appends one (query, response) pair to the history log.
func (s *Store) SaveInteraction(ctx context.Context, query, response string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (query, response) VALUES (?, ?)`,
		query, response,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns up to limit interactions, newest first.
func (s *Store) RecentInteractions(ctx context.Context, limit int) ([]types.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, response, timestamp FROM interactions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []types.Interaction
	for rows.Next() {
		var it types.Interaction
		if err := rows.Scan(&it.ID, &it.Query, &it.Response, &it.Timestamp); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// LIST OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════

// CreateList creates a new list with optional initial items. Returns
// ErrExists when the name is already taken (idempotent-create guard).
func (s *Store) CreateList(ctx context.Context, name string, items []string) error {
	if items == nil {
		items = []string{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lists (name, items, created_at) VALUES (?, ?, ?)`,
		name, string(itemsJSON), time.Now(),
	)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("list %q: %w", name, ErrExists)
		}
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

// ListNames returns the names of all lists, in creation order.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM lists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan list name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetList retrieves a list by name. Returns ErrNotFound when absent.
func (s *Store) GetList(ctx context.Context, name string) (*types.List, error) {
	var itemsJSON string
	var list types.List

	err := s.db.QueryRowContext(ctx,
		`SELECT name, items, created_at FROM lists WHERE name = ?`, name,
	).Scan(&list.Name, &itemsJSON, &list.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("list %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("query list: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &list.Items); err != nil {
		return nil, fmt.Errorf("decode items for list %q: %w", name, err)
	}
	return &list, nil
}

// AddItem appends an item to the named list. Returns ErrNotFound for an
// unknown list name.
func (s *Store) AddItem(ctx context.Context, name, item string) error {
	list, err := s.GetList(ctx, name)
	if err != nil {
		return err
	}

	list.Items = append(list.Items, item)
	return s.saveItems(ctx, name, list.Items)
}

// RemoveItem removes the item at index from the named list. Returns false
// and leaves the list unchanged when index is out of range.
func (s *Store) RemoveItem(ctx context.Context, name string, index int) (bool, error) {
	list, err := s.GetList(ctx, name)
	if err != nil {
		return false, err
	}

	if index < 0 || index >= len(list.Items) {
		return false, nil
	}

	list.Items = append(list.Items[:index], list.Items[index+1:]...)
	if err := s.saveItems(ctx, name, list.Items); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteList removes a list entirely. Returns ErrNotFound when absent.
func (s *Store) DeleteList(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	return nil
}

// saveItems writes the full item sequence back for the named list.
func (s *Store) saveItems(ctx context.Context, name string, items []string) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE lists SET items = ? WHERE name = ?`, string(itemsJSON), name,
	)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// REMINDER OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════

// InsertReminder persists a new reminder record.
func (s *Store) InsertReminder(ctx context.Context, r *types.Reminder) error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("invalid reminder kind %q", r.Kind)
	}

	var duration interface{}
	if r.Kind == types.KindTimer {
		duration = r.DurationSeconds
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, kind, description, created_at, due_at, duration_seconds, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind.String(), r.Description, r.CreatedAt, r.DueAt, duration, boolToInt(r.Completed),
	)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// GetReminder retrieves a reminder by id. Returns ErrNotFound when absent.
func (s *Store) GetReminder(ctx context.Context, id string) (*types.Reminder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, description, created_at, due_at, duration_seconds, completed
		 FROM reminders WHERE id = ?`, id,
	)
	r, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reminder %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// PendingReminders returns all non-terminal reminders ordered ascending by
// due time. This is what the scheduler reconciles from at startup.
func (s *Store) PendingReminders(ctx context.Context) ([]types.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, description, created_at, due_at, duration_seconds, completed
		 FROM reminders WHERE completed = 0 ORDER BY due_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending reminders: %w", err)
	}
	defer rows.Close()

	var reminders []types.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// CompleteReminder atomically claims the completed flag for a reminder.
// Returns true only for the single caller that transitions the record from
// pending to terminal; false when the reminder is unknown or already
// terminal. This is the linearization point for the fire/cancel race: the
// side that claims first wins, so a reminder is never notified twice.
func (s *Store) CompleteReminder(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET completed = 1 WHERE id = ? AND completed = 0`, id,
	)
	if err != nil {
		return false, fmt.Errorf("complete reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete reminder rows: %w", err)
	}
	return n > 0, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanReminder.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner) (*types.Reminder, error) {
	var r types.Reminder
	var kind string
	var duration sql.NullInt64
	var completed int

	err := row.Scan(&r.ID, &kind, &r.Description, &r.CreatedAt, &r.DueAt, &duration, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan reminder: %w", err)
	}

	r.Kind = types.ReminderKind(kind)
	if duration.Valid {
		r.DurationSeconds = duration.Int64
	}
	r.Completed = completed != 0
	return &r, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// EMAIL DRAFT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════

// InsertDraft persists a new email draft.
func (s *Store) InsertDraft(ctx context.Context, d *types.EmailDraft) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO email_drafts (id, recipient, subject, content, created_at, tone, prompt)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Recipient, d.Subject, d.Content, d.CreatedAt, d.Tone, d.Prompt,
	)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

// Drafts returns all email drafts, newest first.
func (s *Store) Drafts(ctx context.Context) ([]types.EmailDraft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient, subject, content, created_at, tone, prompt
		 FROM email_drafts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []types.EmailDraft
	for rows.Next() {
		var d types.EmailDraft
		if err := rows.Scan(&d.ID, &d.Recipient, &d.Subject, &d.Content, &d.CreatedAt, &d.Tone, &d.Prompt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// GetDraft retrieves a draft by id. Returns ErrNotFound when absent.
func (s *Store) GetDraft(ctx context.Context, id string) (*types.EmailDraft, error) {
	var d types.EmailDraft
	err := s.db.QueryRowContext(ctx,
		`SELECT id, recipient, subject, content, created_at, tone, prompt
		 FROM email_drafts WHERE id = ?`, id,
	).Scan(&d.ID, &d.Recipient, &d.Subject, &d.Content, &d.CreatedAt, &d.Tone, &d.Prompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query draft: %w", err)
	}
	return &d, nil
}

// DeleteDraft removes a draft by id. Returns ErrNotFound when absent.
func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM email_drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %q: %w", id, ErrNotFound)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
