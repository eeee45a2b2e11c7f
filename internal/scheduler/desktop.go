package scheduler

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

const notificationTitle = "Rin Assistant"

// DesktopNotifier shows an OS notification in addition to the console
// banner. On macOS it uses osascript, on Linux notify-send; anywhere the
// tool is missing it degrades to the console banner alone.
type DesktopNotifier struct {
	console *ConsoleNotifier
	logger  zerolog.Logger
}

// NewDesktopNotifier wraps a console notifier with desktop notifications.
func NewDesktopNotifier(console *ConsoleNotifier, logger zerolog.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		console: console,
		logger:  logger.With().Str("component", "desktop_notifier").Logger(),
	}
}

// Notify delivers the console notification and best-effort posts a desktop
// one. A failed desktop post is logged, never an error: the console banner
// already delivered the message.
func (n *DesktopNotifier) Notify(ctx context.Context, kind types.ReminderKind, message string) {
	n.console.Notify(ctx, kind, message)

	cmd := desktopCommand(ctx, message)
	if cmd == nil {
		return
	}
	if err := cmd.Run(); err != nil {
		n.logger.Debug().Err(err).Msg("desktop notification failed")
	}
}

func desktopCommand(ctx context.Context, message string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "default"`,
			escapeScriptString(message), notificationTitle)
		return exec.CommandContext(ctx, "osascript", "-e", script)
	case "linux":
		if _, err := exec.LookPath("notify-send"); err != nil {
			return nil
		}
		return exec.CommandContext(ctx, "notify-send", notificationTitle, message)
	default:
		return nil
	}
}

// escapeScriptString neutralizes quotes and backslashes before the text is
// embedded in an AppleScript literal.
func escapeScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
