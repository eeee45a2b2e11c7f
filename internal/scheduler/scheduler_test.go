package scheduler

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSkinnerTech/rin-v0-extended/internal/data"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// recordingNotifier captures notifications and signals each delivery.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	fired    chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{fired: make(chan string, 16)}
}

func (n *recordingNotifier) Notify(_ context.Context, _ types.ReminderKind, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
	n.fired <- message
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *recordingNotifier) waitForNotification(t *testing.T, timeout time.Duration) string {
	t.Helper()
	select {
	case msg := <-n.fired:
		return msg
	case <-time.After(timeout):
		t.Fatal("timed out waiting for notification")
		return ""
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *data.Store, *recordingNotifier) {
	t.Helper()

	store, err := data.Open(filepath.Join(t.TempDir(), "rin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notifier := newRecordingNotifier()
	s := New(store, notifier, zerolog.Nop())
	t.Cleanup(s.Stop)
	return s, store, notifier
}

func TestTimerFiresOnce(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	r, err := s.SetTimer(ctx, 1, "pasta")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, types.KindTimer, r.Kind)

	msg := notifier.waitForNotification(t, 3*time.Second)
	assert.Equal(t, "Timer complete: pasta", msg)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	// The fired reminder is terminal; cancel is a no-op.
	cancelled, err := s.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, cancelled)

	got, err := store.GetReminder(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, 1, notifier.count())
}

func TestCancelPreventsNotification(t *testing.T) {
	s, _, notifier := newTestScheduler(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	r, err := s.SetReminder(ctx, time.Now().Add(time.Hour), "call dentist")
	require.NoError(t, err)

	cancelled, err := s.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Second cancel returns false.
	cancelled, err = s.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, cancelled)

	assert.Equal(t, 0, notifier.count())
}

func TestZeroDurationTimerIsTerminal(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	r, err := s.SetTimer(ctx, 0, "instant")
	require.NoError(t, err)
	assert.True(t, r.Completed)

	got, err := store.GetReminder(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Equal(t, 0, notifier.count())
}

func TestPastDueReminderIsTerminal(t *testing.T) {
	s, _, notifier := newTestScheduler(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	r, err := s.SetReminder(ctx, time.Now().Add(-time.Minute), "already late")
	require.NoError(t, err)
	assert.True(t, r.Completed)
	assert.Equal(t, 0, notifier.count())
}

func TestStartupReconciliation(t *testing.T) {
	store, err := data.Open(filepath.Join(t.TempDir(), "rin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	now := time.Now()
	// A reminder left over from a previous process, already past due.
	require.NoError(t, store.InsertReminder(ctx, &types.Reminder{
		ID:          "scheduled_old",
		Kind:        types.KindScheduled,
		Description: "missed while down",
		CreatedAt:   now.Add(-2 * time.Hour),
		DueAt:       now.Add(-time.Hour),
	}))
	// And one still in the future.
	require.NoError(t, store.InsertReminder(ctx, &types.Reminder{
		ID:          "scheduled_future",
		Kind:        types.KindScheduled,
		Description: "still ahead",
		CreatedAt:   now,
		DueAt:       now.Add(time.Hour),
	}))

	notifier := newRecordingNotifier()
	s := New(store, notifier, zerolog.Nop())
	t.Cleanup(s.Stop)
	require.NoError(t, s.Start(ctx))

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "scheduled_future", active[0].ID)

	// The missed reminder was closed silently.
	old, err := store.GetReminder(ctx, "scheduled_old")
	require.NoError(t, err)
	assert.True(t, old.Completed)
	assert.Equal(t, 0, notifier.count())
}

func TestRescheduleGuard(t *testing.T) {
	s, _, notifier := newTestScheduler(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	r, err := s.SetReminder(ctx, time.Now().Add(time.Hour), "once only")
	require.NoError(t, err)

	// Reconciliation runs again while the wait is live: no double wait.
	require.NoError(t, s.Start(ctx))

	s.mu.Lock()
	waitCount := len(s.waits)
	s.mu.Unlock()
	assert.Equal(t, 1, waitCount)

	cancelled, err := s.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, 0, notifier.count())
}

func TestStopKeepsRecordsPending(t *testing.T) {
	store, err := data.Open(filepath.Join(t.TempDir(), "rin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	notifier := newRecordingNotifier()
	s := New(store, notifier, zerolog.Nop())
	require.NoError(t, s.Start(ctx))

	r, err := s.SetReminder(ctx, time.Now().Add(time.Hour), "survives shutdown")
	require.NoError(t, err)

	s.Stop()

	// The record stays pending for the next Start to pick up.
	pending, err := store.PendingReminders(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, r.ID, pending[0].ID)
	assert.Equal(t, 0, notifier.count())
}

func TestActiveOrdering(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	later, err := s.SetReminder(ctx, time.Now().Add(2*time.Hour), "later")
	require.NoError(t, err)
	sooner, err := s.SetReminder(ctx, time.Now().Add(time.Hour), "sooner")
	require.NoError(t, err)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, sooner.ID, active[0].ID)
	assert.Equal(t, later.ID, active[1].ID)
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(zerolog.Nop(), WithWriter(&buf))

	n.Notify(context.Background(), types.KindTimer, "Timer complete: pasta")

	out := buf.String()
	assert.Contains(t, out, "NOTIFICATION")
	assert.Contains(t, out, "Timer complete: pasta")
}

// speakRecorder verifies the spoken path of the console notifier.
type speakRecorder struct {
	spoken []string
}

func (s *speakRecorder) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return nil
}

func TestConsoleNotifierSpeaks(t *testing.T) {
	var buf bytes.Buffer
	speaker := &speakRecorder{}
	n := NewConsoleNotifier(zerolog.Nop(), WithWriter(&buf), WithSpeaker(speaker))

	n.Notify(context.Background(), types.KindScheduled, "Reminder: call dentist")

	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, "Reminder: call dentist", speaker.spoken[0])
}

func TestDesktopNotifierAlwaysHitsConsole(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleNotifier(zerolog.Nop(), WithWriter(&buf))
	n := NewDesktopNotifier(console, zerolog.Nop())

	n.Notify(context.Background(), types.KindTimer, "Timer complete: tea")

	assert.Contains(t, buf.String(), "Timer complete: tea")
}

func TestEscapeScriptString(t *testing.T) {
	assert.Equal(t, `say \"hi\"`, escapeScriptString(`say "hi"`))
	assert.Equal(t, `a\\b`, escapeScriptString(`a\b`))
}
