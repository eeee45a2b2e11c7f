package router

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// reminderAction identifies which reminder operation a query asks for.
type reminderAction int

const (
	reminderTimer reminderAction = iota
	reminderAtTime
	reminderTomorrow
	reminderList
	reminderCancel
	reminderClarify
)

// reminderCommand is the parsed form of a reminder query.
type reminderCommand struct {
	action      reminderAction
	description string
	target      string // id or description fragment for cancel
	amount      int    // timer quantity
	unit        string // hour, minute, second
	hour        int
	minute      int
	hasTime     bool // tomorrow form carried an explicit time
	question    string
}

var (
	timerRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:please )?set (?:a )?timer for (\d+) (hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)\b.*$`),
		regexp.MustCompile(`^(?:start|set) (?:a )?(\d+) (hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s) timer\.?$`),
	}

	remindTomorrowRe = regexp.MustCompile(`^(?:please )?remind me to (.+?) tomorrow(?: at (\d{1,2})(?::(\d{2}))?\s*(am|pm)?)?\.?$`)

	remindAtRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:please )?remind me to (.+) at (\d{1,2}):(\d{2})\.?$`),
		regexp.MustCompile(`^(?:please )?set (?:a )?reminder (?:to|for) (.+) at (\d{1,2}):(\d{2})\.?$`),
	}

	reminderListRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:list|show) (?:me )?(?:my )?(?:active )?(?:reminders|timers)\.?$`),
		regexp.MustCompile(`^what (?:reminders|timers) do i have\??$`),
	}

	reminderCancelRes = []*regexp.Regexp{
		regexp.MustCompile(`^cancel (?:the |my )?(?:reminder|timer)(?: (?:for|about|to))? (.+?)\.?$`),
		regexp.MustCompile(`^cancel (.+?) (?:reminder|timer)\.?$`),
	}

	reminderIntentRe = regexp.MustCompile(`\b(timer|remind(?:er)?)\b`)
	reminderVerbRe   = regexp.MustCompile(`\b(set|start|cancel|remind)\b`)
)

// unitSeconds normalizes duration unit synonyms.
func unitSeconds(unit string) (string, int) {
	switch {
	case strings.HasPrefix(unit, "h"):
		return "hour", 3600
	case strings.HasPrefix(unit, "m"):
		return "minute", 60
	default:
		return "second", 1
	}
}

// parseReminderCommand maps a lowercased query to a structured reminder
// command. Recognized intent with missing parameters claims the query with
// a clarifying question.
func parseReminderCommand(query string) (*reminderCommand, bool) {
	for _, re := range reminderListRes {
		if re.MatchString(query) {
			return &reminderCommand{action: reminderList}, true
		}
	}

	for _, re := range timerRes {
		if m := re.FindStringSubmatch(query); m != nil {
			amount, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			unit, _ := unitSeconds(m[2])
			return &reminderCommand{action: reminderTimer, amount: amount, unit: unit}, true
		}
	}

	if m := remindTomorrowRe.FindStringSubmatch(query); m != nil {
		cmd := &reminderCommand{
			action:      reminderTomorrow,
			description: strings.TrimSpace(m[1]),
			hour:        9,
		}
		if m[2] != "" {
			cmd.hasTime = true
			cmd.hour, _ = strconv.Atoi(m[2])
			if m[3] != "" {
				cmd.minute, _ = strconv.Atoi(m[3])
			}
			switch m[4] {
			case "pm":
				if cmd.hour < 12 {
					cmd.hour += 12
				}
			case "am":
				if cmd.hour == 12 {
					cmd.hour = 0
				}
			}
		}
		if cmd.hour > 23 || cmd.minute > 59 {
			return &reminderCommand{action: reminderClarify, question: "What time should I set the reminder for?"}, true
		}
		return cmd, true
	}

	for _, re := range remindAtRes {
		if m := re.FindStringSubmatch(query); m != nil {
			hour, _ := strconv.Atoi(m[2])
			minute, _ := strconv.Atoi(m[3])
			if hour > 23 || minute > 59 {
				return &reminderCommand{action: reminderClarify, question: "What time should I set the reminder for?"}, true
			}
			return &reminderCommand{
				action:      reminderAtTime,
				description: strings.TrimSpace(m[1]),
				hour:        hour,
				minute:      minute,
			}, true
		}
	}

	for _, re := range reminderCancelRes {
		if m := re.FindStringSubmatch(query); m != nil {
			return &reminderCommand{action: reminderCancel, target: strings.TrimSpace(m[1])}, true
		}
	}

	// Recognized reminder intent without usable parameters.
	if reminderIntentRe.MatchString(query) && reminderVerbRe.MatchString(query) {
		question := "When should I remind you, and about what?"
		if strings.Contains(query, "timer") {
			question = "For how long should I set the timer?"
		}
		return &reminderCommand{action: reminderClarify, question: question}, true
	}

	return nil, false
}

// dueLayout renders reminder due times, e.g. "5:30 PM on Tuesday, January 16".
const dueLayout = "3:04 PM on Monday, January 2"

// handleReminder executes a parsed reminder command against the scheduler.
func (r *Router) handleReminder(ctx context.Context, cmd *reminderCommand) (string, error) {
	switch cmd.action {
	case reminderClarify:
		return cmd.question, nil

	case reminderTimer:
		_, factor := unitSeconds(cmd.unit)
		seconds := int64(cmd.amount) * int64(factor)
		description := fmt.Sprintf("Timer for %d %s", cmd.amount, pluralNoun(cmd.unit, cmd.amount))
		if _, err := r.reminders.SetTimer(ctx, seconds, description); err != nil {
			return "", err
		}
		return fmt.Sprintf("Timer set for %d %s.", cmd.amount, pluralNoun(cmd.unit, cmd.amount)), nil

	case reminderAtTime:
		now := r.now()
		due := time.Date(now.Year(), now.Month(), now.Day(), cmd.hour, cmd.minute, 0, 0, now.Location())
		// A bare clock time in the past means the next occurrence.
		if !due.After(now) {
			due = due.AddDate(0, 0, 1)
		}
		if _, err := r.reminders.SetReminder(ctx, due, cmd.description); err != nil {
			return "", err
		}
		return fmt.Sprintf("I'll remind you to %s at %s.", cmd.description, due.Format(dueLayout)), nil

	case reminderTomorrow:
		now := r.now()
		tomorrow := now.AddDate(0, 0, 1)
		due := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), cmd.hour, cmd.minute, 0, 0, now.Location())
		if _, err := r.reminders.SetReminder(ctx, due, cmd.description); err != nil {
			return "", err
		}
		return fmt.Sprintf("I'll remind you to %s at %s.", cmd.description, due.Format(dueLayout)), nil

	case reminderList:
		active, err := r.reminders.Active(ctx)
		if err != nil {
			return "", err
		}
		if len(active) == 0 {
			return "You don't have any active reminders.", nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "You have %d active %s:", len(active), pluralNoun("reminder", len(active)))
		for i, rem := range active {
			fmt.Fprintf(&sb, "\n%d. %s at %s (ID: %s)", i+1, rem.Description, rem.DueAt.Format(dueLayout), rem.ID)
		}
		return sb.String(), nil

	case reminderCancel:
		return r.cancelReminder(ctx, cmd.target)
	}

	return "When should I remind you?", nil
}

// cancelReminder resolves the target as an exact id first, then as a
// case-insensitive description fragment among active reminders.
func (r *Router) cancelReminder(ctx context.Context, target string) (string, error) {
	active, err := r.reminders.Active(ctx)
	if err != nil {
		return "", err
	}

	match := findReminder(active, target)
	if match == nil {
		return fmt.Sprintf("I couldn't find an active reminder matching '%s'.", target), nil
	}

	cancelled, err := r.reminders.Cancel(ctx, match.ID)
	if err != nil {
		return "", err
	}
	if !cancelled {
		return fmt.Sprintf("The reminder '%s' is no longer active.", match.Description), nil
	}
	return fmt.Sprintf("I've cancelled the reminder: %s.", match.Description), nil
}

func findReminder(active []types.Reminder, target string) *types.Reminder {
	for i := range active {
		if strings.EqualFold(active[i].ID, target) {
			return &active[i]
		}
	}
	for i := range active {
		if strings.Contains(strings.ToLower(active[i].Description), strings.ToLower(target)) {
			return &active[i]
		}
	}
	return nil
}
