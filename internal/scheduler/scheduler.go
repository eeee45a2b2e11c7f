// Package scheduler durably tracks reminders and fires each notification at
// most once at or after its due time. The durable store is the source of
// truth; the in-memory wait index is a cache rebuilt from it on Start.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// completeTimeout bounds the store write performed when a wait fires.
const completeTimeout = 10 * time.Second

// Store is the persistence surface the scheduler needs.
type Store interface {
	InsertReminder(ctx context.Context, r *types.Reminder) error
	PendingReminders(ctx context.Context) ([]types.Reminder, error)
	// CompleteReminder atomically claims the completed flag. Exactly one
	// caller per reminder sees true.
	CompleteReminder(ctx context.Context, id string) (bool, error)
}

// Notifier delivers a fired reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, kind types.ReminderKind, message string)
}

// wait is one pending in-memory timer. The once guard lets Cancel and Stop
// race without a double close.
type wait struct {
	cancel chan struct{}
	once   sync.Once
}

func (w *wait) stop() {
	w.once.Do(func() { close(w.cancel) })
}

// Scheduler owns the runtime index from reminder id to pending wait.
// The index is never authoritative; every transition goes through the store.
type Scheduler struct {
	store    Store
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	waits map[string]*wait
	wg    sync.WaitGroup
}

// Option is a functional option for configuring the Scheduler.
type Option func(*Scheduler)

// WithClock injects the wall-clock source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a Scheduler. Call Start before relying on reminders persisted
// by an earlier process.
func New(store Store, notifier Notifier, logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
		waits:    make(map[string]*wait),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start reconciles runtime state from the durable store: future reminders
// get a wait, past-due ones become terminal without a notification. The
// scheduler is not ready until Start returns.
func (s *Scheduler) Start(ctx context.Context) error {
	pending, err := s.store.PendingReminders(ctx)
	if err != nil {
		return fmt.Errorf("load pending reminders: %w", err)
	}

	now := s.now()
	scheduled := 0
	for _, r := range pending {
		if r.DueAt.After(now) {
			s.schedule(r)
			scheduled++
			continue
		}
		// Missed while the process was down. No backlog delivery.
		if _, err := s.store.CompleteReminder(ctx, r.ID); err != nil {
			return fmt.Errorf("complete past-due reminder %s: %w", r.ID, err)
		}
		s.logger.Info().Str("id", r.ID).Time("due", r.DueAt).Msg("past-due reminder closed without notification")
	}

	s.logger.Info().Int("scheduled", scheduled).Int("pending", len(pending)).Msg("scheduler started")
	return nil
}

// SetTimer creates a duration-based reminder. A non-positive duration
// degenerates to an immediately terminal record with no notification.
func (s *Scheduler) SetTimer(ctx context.Context, seconds int64, description string) (*types.Reminder, error) {
	now := s.now()
	r := &types.Reminder{
		ID:              fmt.Sprintf("timer_%d", now.UnixNano()),
		Kind:            types.KindTimer,
		Description:     description,
		CreatedAt:       now,
		DueAt:           now.Add(time.Duration(seconds) * time.Second),
		DurationSeconds: seconds,
	}
	return r, s.insert(ctx, r, now)
}

// SetReminder creates an absolute-time reminder. A due time at or before now
// is handled like startup reconciliation: terminal, no notification.
func (s *Scheduler) SetReminder(ctx context.Context, dueAt time.Time, description string) (*types.Reminder, error) {
	now := s.now()
	r := &types.Reminder{
		ID:          fmt.Sprintf("scheduled_%d", now.UnixNano()),
		Kind:        types.KindScheduled,
		Description: description,
		CreatedAt:   now,
		DueAt:       dueAt,
	}
	return r, s.insert(ctx, r, now)
}

func (s *Scheduler) insert(ctx context.Context, r *types.Reminder, now time.Time) error {
	if err := s.store.InsertReminder(ctx, r); err != nil {
		return err
	}

	if !r.DueAt.After(now) {
		if _, err := s.store.CompleteReminder(ctx, r.ID); err != nil {
			return err
		}
		r.Completed = true
		s.logger.Warn().Str("id", r.ID).Msg("reminder created already past due")
		return nil
	}

	s.schedule(*r)
	s.logger.Info().Str("id", r.ID).Time("due", r.DueAt).Str("description", r.Description).Msg("reminder scheduled")
	return nil
}

// Cancel marks a pending reminder terminal and stops its wait. Returns
// false when the reminder is unknown or already terminal, so repeated
// cancels and cancel-after-fire are no-ops.
func (s *Scheduler) Cancel(ctx context.Context, id string) (bool, error) {
	claimed, err := s.store.CompleteReminder(ctx, id)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	s.mu.Lock()
	w := s.waits[id]
	s.mu.Unlock()
	if w != nil {
		w.stop()
	}

	s.logger.Info().Str("id", id).Msg("reminder cancelled")
	return true, nil
}

// Active returns all non-terminal reminders ordered ascending by due time.
func (s *Scheduler) Active(ctx context.Context) ([]types.Reminder, error) {
	return s.store.PendingReminders(ctx)
}

// Stop cancels every wait without completing the records. Lost waits are
// rebuilt by the next Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for _, w := range s.waits {
		w.stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// schedule establishes a wait for the reminder. An id that already has a
// live wait is left alone, so reconciliation and explicit creation never
// double-schedule.
func (s *Scheduler) schedule(r types.Reminder) {
	s.mu.Lock()
	if _, exists := s.waits[r.ID]; exists {
		s.mu.Unlock()
		s.logger.Debug().Str("id", r.ID).Msg("wait already scheduled")
		return
	}
	w := &wait{cancel: make(chan struct{})}
	s.waits[r.ID] = w
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runWait(r, w)
}

// runWait sleeps until due time, then claims the completed flag and
// notifies only on a successful claim. The id always leaves the wait index,
// on the cancellation path too.
func (s *Scheduler) runWait(r types.Reminder, w *wait) {
	defer s.wg.Done()
	defer s.removeWait(r.ID)

	timer := time.NewTimer(r.DueAt.Sub(s.now()))
	defer timer.Stop()

	select {
	case <-w.cancel:
		return
	case <-timer.C:
	}

	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	claimed, err := s.store.CompleteReminder(ctx, r.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("id", r.ID).Msg("failed to complete fired reminder")
		return
	}
	if !claimed {
		// Cancelled during the wait.
		s.logger.Debug().Str("id", r.ID).Msg("reminder completed before firing")
		return
	}

	s.notifier.Notify(ctx, r.Kind, notificationMessage(r))
	s.logger.Info().Str("id", r.ID).Msg("reminder fired")
}

func (s *Scheduler) removeWait(id string) {
	s.mu.Lock()
	delete(s.waits, id)
	s.mu.Unlock()
}

func notificationMessage(r types.Reminder) string {
	if r.Kind == types.KindTimer {
		return "Timer complete: " + r.Description
	}
	return "Reminder: " + r.Description
}
