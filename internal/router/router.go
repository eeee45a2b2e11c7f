// Package router classifies a natural-language query through a fixed-priority
// chain of local handlers and falls back to the completion provider when
// nothing claims the query.
package router

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/search"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// Response is the result of routing one query. Text is never empty.
type Response struct {
	// Text is the answer shown or spoken to the user.
	Text string

	// Handler names the classifier that produced the response
	// (time, lists, reminders, search, email, llm).
	Handler string
}

// ListStore is the subset of the data store the list handler needs.
type ListStore interface {
	CreateList(ctx context.Context, name string, items []string) error
	ListNames(ctx context.Context) ([]string, error)
	GetList(ctx context.Context, name string) (*types.List, error)
	AddItem(ctx context.Context, name, item string) error
	RemoveItem(ctx context.Context, name string, index int) (bool, error)
	DeleteList(ctx context.Context, name string) error
}

// ReminderService is the scheduler surface the reminder handler needs.
type ReminderService interface {
	SetTimer(ctx context.Context, seconds int64, description string) (*types.Reminder, error)
	SetReminder(ctx context.Context, dueAt time.Time, description string) (*types.Reminder, error)
	Cancel(ctx context.Context, id string) (bool, error)
	Active(ctx context.Context) ([]types.Reminder, error)
}

// Searcher produces a summarized answer for a web query.
type Searcher interface {
	SearchAndSummarize(ctx context.Context, query string, n int) (*search.Summary, error)
}

// Drafter generates and persists an email draft.
type Drafter interface {
	CreateDraft(ctx context.Context, recipient, subject, prompt, tone string) (*types.EmailDraft, error)
}

// Completer is the fallback completion provider.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Router runs the classifier chain. Classifiers are tried strictly in order;
// the first one that claims the query produces the response, including
// clarifying questions for claimed-but-unparseable queries.
type Router struct {
	lists      ListStore
	reminders  ReminderService
	searcher   Searcher
	drafter    Drafter
	llm        Completer
	logger     zerolog.Logger
	now        func() time.Time
	maxResults int
}

// Option is a functional option for configuring the Router.
type Option func(*Router)

// WithClock injects the wall-clock source. Tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// WithMaxResults sets how many web results the search handler requests.
func WithMaxResults(n int) Option {
	return func(r *Router) {
		r.maxResults = n
	}
}

// New creates a Router over its collaborators.
func New(lists ListStore, reminders ReminderService, searcher Searcher, drafter Drafter, llm Completer, logger zerolog.Logger, opts ...Option) *Router {
	r := &Router{
		lists:      lists,
		reminders:  reminders,
		searcher:   searcher,
		drafter:    drafter,
		llm:        llm,
		logger:     logger.With().Str("component", "router").Logger(),
		now:        time.Now,
		maxResults: 5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route classifies one query and produces exactly one response.
// Collaborator errors propagate to the caller; the facade converts them to
// a user-safe apology.
func (r *Router) Route(ctx context.Context, query string) (*Response, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return &Response{Text: "I didn't catch that. Could you say it again?", Handler: "none"}, nil
	}

	// 1. Local date/time arithmetic; pure function of the injected clock.
	if text, ok := matchTime(normalized, r.now()); ok {
		r.logDecision(query, "time")
		return &Response{Text: text, Handler: "time"}, nil
	}

	// 2. List commands.
	if cmd, ok := parseListCommand(normalized); ok {
		r.logDecision(query, "lists")
		text, err := r.handleList(ctx, cmd)
		if err != nil {
			return nil, err
		}
		return &Response{Text: text, Handler: "lists"}, nil
	}

	// 3. Reminder and timer commands.
	if cmd, ok := parseReminderCommand(normalized); ok {
		r.logDecision(query, "reminders")
		text, err := r.handleReminder(ctx, cmd)
		if err != nil {
			return nil, err
		}
		return &Response{Text: text, Handler: "reminders"}, nil
	}

	// 4. Web search intent.
	if subject, ok := matchSearchIntent(normalized); ok {
		r.logDecision(query, "search")
		summary, err := r.searcher.SearchAndSummarize(ctx, subject, r.maxResults)
		if err != nil {
			return nil, err
		}
		return &Response{Text: summary.Summary, Handler: "search"}, nil
	}

	// 5. Email draft intent.
	if intent, ok := matchEmailIntent(normalized); ok {
		r.logDecision(query, "email")
		text, err := r.handleEmail(ctx, intent)
		if err != nil {
			return nil, err
		}
		return &Response{Text: text, Handler: "email"}, nil
	}

	// 6. Fallback to the completion provider.
	r.logDecision(query, "llm")
	text, err := r.llm.Complete(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Response{Text: text, Handler: "llm"}, nil
}

func (r *Router) logDecision(query, handler string) {
	r.logger.Debug().Str("handler", handler).Str("query", query).Msg("query classified")
}
