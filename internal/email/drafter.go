// Package email generates and manages LLM-written email drafts.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/llm"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// DefaultTone is used when the caller does not name one.
const DefaultTone = "professional"

// Store is the persistence surface the drafter needs.
type Store interface {
	InsertDraft(ctx context.Context, d *types.EmailDraft) error
	Drafts(ctx context.Context) ([]types.EmailDraft, error)
	GetDraft(ctx context.Context, id string) (*types.EmailDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Drafter writes email drafts through the completion provider and persists
// them.
type Drafter struct {
	store  Store
	llm    llm.Provider
	logger zerolog.Logger
	now    func() time.Time
}

// Option is a functional option for configuring the Drafter.
type Option func(*Drafter)

// WithClock injects the wall-clock source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(d *Drafter) {
		d.now = now
	}
}

// New creates a Drafter.
func New(store Store, provider llm.Provider, logger zerolog.Logger, opts ...Option) *Drafter {
	d := &Drafter{
		store:  store,
		llm:    provider,
		logger: logger.With().Str("component", "email").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateDraft generates the email body from the prompt and saves the draft.
func (d *Drafter) CreateDraft(ctx context.Context, recipient, subject, prompt, tone string) (*types.EmailDraft, error) {
	if tone == "" {
		tone = DefaultTone
	}

	content, err := d.llm.Complete(ctx, draftPrompt(recipient, subject, prompt, tone))
	if err != nil {
		return nil, fmt.Errorf("generate email content: %w", err)
	}

	draft := &types.EmailDraft{
		ID:        "email_" + uuid.NewString(),
		Recipient: recipient,
		Subject:   subject,
		Content:   strings.TrimSpace(content),
		CreatedAt: d.now(),
		Tone:      tone,
		Prompt:    prompt,
	}

	if err := d.store.InsertDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	d.logger.Info().Str("id", draft.ID).Str("recipient", recipient).Str("tone", tone).Msg("email draft saved")
	return draft, nil
}

// Drafts returns all saved drafts, newest first.
func (d *Drafter) Drafts(ctx context.Context) ([]types.EmailDraft, error) {
	return d.store.Drafts(ctx)
}

// GetDraft returns one draft by id.
func (d *Drafter) GetDraft(ctx context.Context, id string) (*types.EmailDraft, error) {
	return d.store.GetDraft(ctx, id)
}

// DeleteDraft removes one draft by id.
func (d *Drafter) DeleteDraft(ctx context.Context, id string) error {
	return d.store.DeleteDraft(ctx, id)
}

func draftPrompt(recipient, subject, prompt, tone string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s email to %s with the subject %q.\n\n", tone, recipient, subject)
	fmt.Fprintf(&sb, "Details to include in the email:\n%s\n\n", prompt)
	sb.WriteString("Format the email properly with greeting, body paragraphs, and sign-off.\n")
	sb.WriteString(`Do not include the "To:", "From:", or "Subject:" lines - just write the email body.`)
	return sb.String()
}
