package router

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// searchTriggerRe extracts the search subject as everything after the
// trigger phrase.
var searchTriggerRe = regexp.MustCompile(`^(?:search for|look up|what is|what's|who is|who's|tell me about) (.+?)\??$`)

// matchSearchIntent recognizes web search queries.
func matchSearchIntent(query string) (string, bool) {
	m := searchTriggerRe.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	subject := strings.TrimSpace(m[1])
	if subject == "" {
		return "", false
	}
	return subject, true
}

// emailIntent is the parsed form of an email draft request.
type emailIntent struct {
	recipient string
	subject   string
	tone      string
}

var emailIntentRe = regexp.MustCompile(`^(?:please )?(?:write|draft|compose) (?:an |a )?email to (\S+) about (.+?)(?: in an? (\w+) tone)?\.?$`)

// matchEmailIntent recognizes email draft queries. Tone defaults to
// professional when the query does not name one.
func matchEmailIntent(query string) (*emailIntent, bool) {
	m := emailIntentRe.FindStringSubmatch(query)
	if m == nil {
		return nil, false
	}

	intent := &emailIntent{
		recipient: m[1],
		subject:   strings.TrimSpace(m[2]),
		tone:      m[3],
	}
	if intent.tone == "" {
		intent.tone = "professional"
	}
	return intent, true
}

// handleEmail delegates to the draft collaborator and reports the result.
func (r *Router) handleEmail(ctx context.Context, intent *emailIntent) (string, error) {
	draft, err := r.drafter.CreateDraft(ctx, intent.recipient, intent.subject, intent.subject, intent.tone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("I've drafted an email to %s about %s:\n\n%s\n\nThe draft is saved with ID %s.",
		draft.Recipient, intent.subject, draft.Content, draft.ID), nil
}
