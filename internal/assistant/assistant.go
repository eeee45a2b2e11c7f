// Package assistant is the top-level facade. It routes a query, records
// the exchange in history, and optionally voices the response.
package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/router"
	"github.com/PSkinnerTech/rin-v0-extended/internal/voice"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// apologyText is the user-facing reply when a collaborator fails. The
// underlying error is logged, never surfaced in the response text.
const apologyText = "I encountered an error while processing your request."

// listenSeconds is how long a single voice capture runs.
const listenSeconds = 5

// HistoryStore records and replays past exchanges.
type HistoryStore interface {
	SaveInteraction(ctx context.Context, query, response string) error
	RecentInteractions(ctx context.Context, limit int) ([]types.Interaction, error)
}

// Speaker voices a response out loud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Result is the outcome of one processed query.
type Result struct {
	// Query is the text that was routed. For voice input this is the
	// transcription, not the raw audio.
	Query string
	// Text is the assistant's reply.
	Text string
	// Handler names the module that produced the reply.
	Handler string
	// Spoken reports whether the reply was voiced.
	Spoken bool
}

// Assistant wires the router, history store, and voice engines together.
type Assistant struct {
	router      *router.Router
	history     HistoryStore
	speaker     Speaker
	transcriber voice.Transcriber
	logger      zerolog.Logger
}

// New creates an Assistant. speaker and transcriber may be nil when the
// caller never uses voice.
func New(r *router.Router, history HistoryStore, speaker Speaker, transcriber voice.Transcriber, logger zerolog.Logger) *Assistant {
	return &Assistant{
		router:      r,
		history:     history,
		speaker:     speaker,
		transcriber: transcriber,
		logger:      logger.With().Str("component", "assistant").Logger(),
	}
}

// Process routes a query and saves the exchange. Routing failures turn
// into a fixed apology so the caller always gets a speakable reply; the
// exchange is recorded either way. Nothing here is fatal, so there is no
// error return.
func (a *Assistant) Process(ctx context.Context, query string, withVoice bool) *Result {
	resp, err := a.router.Route(ctx, query)
	result := &Result{Query: query}
	if err != nil {
		a.logger.Error().Err(err).Str("query", query).Msg("routing failed")
		result.Text = apologyText
		result.Handler = "error"
	} else {
		result.Text = resp.Text
		result.Handler = resp.Handler
	}

	if herr := a.history.SaveInteraction(ctx, query, result.Text); herr != nil {
		a.logger.Error().Err(herr).Msg("failed to save interaction")
	}

	if withVoice && a.speaker != nil {
		if serr := a.speaker.Speak(ctx, result.Text); serr != nil {
			a.logger.Error().Err(serr).Msg("speech failed")
		} else {
			result.Spoken = true
		}
	}
	return result
}

// ListenAndRespond records from the microphone, transcribes the capture,
// and processes the transcription with voice output enabled.
func (a *Assistant) ListenAndRespond(ctx context.Context) (*Result, error) {
	if a.transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured")
	}
	query, err := a.transcriber.TranscribeFromMic(ctx, listenSeconds)
	if err != nil {
		return nil, fmt.Errorf("transcribing voice input: %w", err)
	}
	a.logger.Info().Str("query", query).Msg("transcribed voice input")
	return a.Process(ctx, query, true), nil
}

// History returns the most recent exchanges, newest first.
func (a *Assistant) History(ctx context.Context, limit int) ([]types.Interaction, error) {
	return a.history.RecentInteractions(ctx, limit)
}
