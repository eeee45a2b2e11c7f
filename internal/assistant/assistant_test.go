package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSkinnerTech/rin-v0-extended/internal/data"
	"github.com/PSkinnerTech/rin-v0-extended/internal/router"
	"github.com/PSkinnerTech/rin-v0-extended/internal/search"
	"github.com/PSkinnerTech/rin-v0-extended/internal/voice"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(context.Context, string) (string, error) {
	return f.reply, f.err
}

type fakeScheduler struct{}

func (f *fakeScheduler) SetTimer(ctx context.Context, seconds int64, description string) (*types.Reminder, error) {
	return &types.Reminder{ID: "timer_1", Description: description}, nil
}

func (f *fakeScheduler) SetReminder(ctx context.Context, dueAt time.Time, description string) (*types.Reminder, error) {
	return &types.Reminder{ID: "scheduled_1", Description: description, DueAt: dueAt}, nil
}

func (f *fakeScheduler) Cancel(context.Context, string) (bool, error) { return false, nil }

func (f *fakeScheduler) Active(context.Context) ([]types.Reminder, error) { return nil, nil }

type fakeSearcher struct{}

func (f *fakeSearcher) SearchAndSummarize(ctx context.Context, query string, n int) (*search.Summary, error) {
	return &search.Summary{Query: query, Summary: "summary of " + query}, nil
}

type fakeDrafter struct{}

func (f *fakeDrafter) CreateDraft(ctx context.Context, recipient, subject, prompt, tone string) (*types.EmailDraft, error) {
	return &types.EmailDraft{ID: "email_1", Recipient: recipient, Subject: subject, Content: "draft"}, nil
}

type fakeSpeaker struct {
	spoken []string
	err    error
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.spoken = append(f.spoken, text)
	return nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (string, error) { return f.text, f.err }

func (f *fakeTranscriber) TranscribeFromMic(context.Context, int) (string, error) {
	return f.text, f.err
}

func (f *fakeTranscriber) Name() string { return "fake" }

func newTestAssistant(t *testing.T, llm *fakeCompleter, speaker Speaker, tr *fakeTranscriber) (*Assistant, *data.Store) {
	t.Helper()

	store, err := data.Open(filepath.Join(t.TempDir(), "rin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	r := router.New(store, &fakeScheduler{}, &fakeSearcher{}, &fakeDrafter{}, llm, zerolog.Nop())
	var transcriber voice.Transcriber
	if tr != nil {
		transcriber = tr
	}
	return New(r, store, speaker, transcriber, zerolog.Nop()), store
}

func TestProcessSavesHistory(t *testing.T) {
	a, store := newTestAssistant(t, &fakeCompleter{reply: "hello there"}, nil, nil)

	res := a.Process(context.Background(), "say hello", false)
	assert.Equal(t, "hello there", res.Text)
	assert.Equal(t, "llm", res.Handler)
	assert.False(t, res.Spoken)

	history, err := store.RecentInteractions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "say hello", history[0].Query)
	assert.Equal(t, "hello there", history[0].Response)
}

func TestProcessApologizesOnError(t *testing.T) {
	a, store := newTestAssistant(t, &fakeCompleter{err: errors.New("provider down")}, nil, nil)

	res := a.Process(context.Background(), "say hello", false)
	assert.Equal(t, apologyText, res.Text)
	assert.Equal(t, "error", res.Handler)

	// The failed exchange is still part of history.
	history, err := store.RecentInteractions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, apologyText, history[0].Response)
}

func TestProcessSpeaks(t *testing.T) {
	speaker := &fakeSpeaker{}
	a, _ := newTestAssistant(t, &fakeCompleter{reply: "spoken reply"}, speaker, nil)

	res := a.Process(context.Background(), "say hello", true)
	assert.True(t, res.Spoken)
	assert.Equal(t, []string{"spoken reply"}, speaker.spoken)
}

func TestProcessSpeechFailureIsNotFatal(t *testing.T) {
	speaker := &fakeSpeaker{err: errors.New("no audio device")}
	a, _ := newTestAssistant(t, &fakeCompleter{reply: "ok"}, speaker, nil)

	res := a.Process(context.Background(), "say hello", true)
	assert.Equal(t, "ok", res.Text)
	assert.False(t, res.Spoken)
}

func TestListenAndRespond(t *testing.T) {
	speaker := &fakeSpeaker{}
	tr := &fakeTranscriber{text: "what time is it"}
	a, _ := newTestAssistant(t, &fakeCompleter{}, speaker, tr)

	res, err := a.ListenAndRespond(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "what time is it", res.Query)
	assert.Equal(t, "time", res.Handler)
	assert.True(t, res.Spoken)
}

func TestListenAndRespondTranscriptionError(t *testing.T) {
	tr := &fakeTranscriber{err: errors.New("mic busy")}
	a, _ := newTestAssistant(t, &fakeCompleter{}, nil, tr)

	_, err := a.ListenAndRespond(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcribing voice input")
}

func TestHistory(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeCompleter{reply: "r"}, nil, nil)

	for _, q := range []string{"first", "second", "third"} {
		a.Process(context.Background(), q, false)
	}

	history, err := a.History(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "third", history[0].Query)
	assert.Equal(t, "second", history[1].Query)
}
