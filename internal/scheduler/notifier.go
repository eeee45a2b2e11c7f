package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// Speaker optionally voices a notification.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// ConsoleNotifier prints a notification banner to the console and, when a
// speaker is configured, voices the message as well. Speech failures are
// logged and never block the notification.
type ConsoleNotifier struct {
	out     io.Writer
	speaker Speaker
	logger  zerolog.Logger
}

// ConsoleNotifierOption configures the ConsoleNotifier.
type ConsoleNotifierOption func(*ConsoleNotifier)

// WithSpeaker voices notifications through the given speaker.
func WithSpeaker(speaker Speaker) ConsoleNotifierOption {
	return func(n *ConsoleNotifier) {
		n.speaker = speaker
	}
}

// WithWriter redirects banner output. Used in tests.
func WithWriter(out io.Writer) ConsoleNotifierOption {
	return func(n *ConsoleNotifier) {
		n.out = out
	}
}

// NewConsoleNotifier creates a console notifier.
func NewConsoleNotifier(logger zerolog.Logger, opts ...ConsoleNotifierOption) *ConsoleNotifier {
	n := &ConsoleNotifier{
		out:    os.Stdout,
		logger: logger.With().Str("component", "notifier").Logger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify prints the banner and plays the spoken form when available.
func (n *ConsoleNotifier) Notify(ctx context.Context, kind types.ReminderKind, message string) {
	n.logger.Info().Str("kind", kind.String()).Str("message", message).Msg("notification")

	divider := strings.Repeat("=", 50)
	fmt.Fprintf(n.out, "\n%s\nNOTIFICATION: Rin Assistant\n%s\n%s\n\n", divider, message, divider)

	if n.speaker == nil {
		return
	}
	if err := n.speaker.Speak(ctx, message); err != nil {
		n.logger.Error().Err(err).Msg("spoken notification failed")
	}
}
