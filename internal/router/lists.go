package router

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PSkinnerTech/rin-v0-extended/internal/data"
)

// listAction identifies which list operation a query asks for.
type listAction int

const (
	listCreate listAction = iota
	listShowAll
	listShowOne
	listAdd
	listRemove
	listDelete
	listClarify
)

// listCommand is the parsed form of a list query.
type listCommand struct {
	action   listAction
	name     string
	item     string
	index    int  // zero-based; only valid when hasIndex
	hasIndex bool
	question string // clarifying question for listClarify
}

// Anchored patterns per command kind, tried in order. The first match wins.
var (
	listCreateRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:please )?(?:create|make|start) (?:a |an )?(?:new )?list (?:called |named )(.+?)\.?$`),
		regexp.MustCompile(`^(?:please )?(?:create|make|start) (?:a |an )?(?:new )?(.+?) list\.?$`),
	}
	listShowAllRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:show|list) (?:me )?(?:all )?(?:of )?(?:my )?lists\.?$`),
		regexp.MustCompile(`^what lists do i have\??$`),
	}
	listShowOneRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:show|read) (?:me )?(?:the |my )?(.+?) list\.?$`),
		regexp.MustCompile(`^what(?:'s| is) on (?:the |my )?(.+?) list\??$`),
	}
	listAddRes = []*regexp.Regexp{
		regexp.MustCompile(`^add (.+?) to (?:the |my )?(.+?)(?: list)?\.?$`),
		regexp.MustCompile(`^put (.+?) on (?:the |my )?(.+?)(?: list)?\.?$`),
	}
	listRemoveRes = []*regexp.Regexp{
		regexp.MustCompile(`^remove (?:item )?(?:number )?(\d+) from (?:the |my )?(.+?)(?: list)?\.?$`),
		regexp.MustCompile(`^remove (.+?) from (?:the |my )?(.+?)(?: list)?\.?$`),
	}
	listDeleteRes = []*regexp.Regexp{
		regexp.MustCompile(`^delete (?:the |my )?(.+?) list\.?$`),
		regexp.MustCompile(`^delete list (.+?)\.?$`),
	}

	// listIntentRe recognizes a list query whose parameters failed to parse.
	listIntentRe = regexp.MustCompile(`\blists?\b`)
	listVerbRe   = regexp.MustCompile(`\b(create|make|start|show|read|add|put|remove|delete)\b`)
)

// bareListName reports whether a captured name is just the word "list",
// left over when the query never named one.
func bareListName(name string) bool {
	return name == "list" || name == "lists"
}

// parseListCommand maps a lowercased query to a structured list command.
// Recognized intent with missing parameters still claims the query and
// carries a clarifying question.
func parseListCommand(query string) (*listCommand, bool) {
	for _, re := range listShowAllRes {
		if re.MatchString(query) {
			return &listCommand{action: listShowAll}, true
		}
	}

	for _, re := range listCreateRes {
		if m := re.FindStringSubmatch(query); m != nil {
			name := strings.TrimSpace(m[1])
			// Articles left over from a name-less "create a list" query.
			if name == "" || name == "a" || name == "an" || name == "the" || name == "new" {
				break
			}
			return &listCommand{action: listCreate, name: name}, true
		}
	}

	for _, re := range listAddRes {
		if m := re.FindStringSubmatch(query); m != nil {
			name := strings.TrimSpace(m[2])
			// "add milk to my list" names no list; ask which one.
			if bareListName(name) {
				break
			}
			return &listCommand{
				action: listAdd,
				item:   strings.TrimSpace(m[1]),
				name:   name,
			}, true
		}
	}

	for _, re := range listRemoveRes {
		if m := re.FindStringSubmatch(query); m != nil {
			name := strings.TrimSpace(m[2])
			if bareListName(name) {
				break
			}
			cmd := &listCommand{action: listRemove, name: name}
			if n, err := strconv.Atoi(m[1]); err == nil {
				// Spoken indexes are one-based.
				cmd.index = n - 1
				cmd.hasIndex = true
			} else {
				cmd.item = strings.TrimSpace(m[1])
			}
			return cmd, true
		}
	}

	for _, re := range listDeleteRes {
		if m := re.FindStringSubmatch(query); m != nil {
			return &listCommand{action: listDelete, name: strings.TrimSpace(m[1])}, true
		}
	}

	for _, re := range listShowOneRes {
		if m := re.FindStringSubmatch(query); m != nil {
			return &listCommand{action: listShowOne, name: strings.TrimSpace(m[1])}, true
		}
	}

	// The query talks about lists but no pattern extracted parameters.
	// Claim it with a clarifying question instead of falling through.
	if listIntentRe.MatchString(query) && listVerbRe.MatchString(query) {
		return &listCommand{
			action:   listClarify,
			question: "Which list do you mean, and what should I do with it?",
		}, true
	}

	return nil, false
}

// handleList executes a parsed list command against the store.
func (r *Router) handleList(ctx context.Context, cmd *listCommand) (string, error) {
	switch cmd.action {
	case listClarify:
		return cmd.question, nil

	case listCreate:
		err := r.lists.CreateList(ctx, cmd.name, nil)
		if errors.Is(err, data.ErrExists) {
			return fmt.Sprintf("You already have a list called '%s'.", cmd.name), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("I've created a list called '%s'.", cmd.name), nil

	case listShowAll:
		names, err := r.lists.ListNames(ctx)
		if err != nil {
			return "", err
		}
		if len(names) == 0 {
			return "You don't have any lists yet.", nil
		}
		return fmt.Sprintf("You have %d %s: %s.", len(names), pluralNoun("list", len(names)), strings.Join(names, ", ")), nil

	case listShowOne:
		list, err := r.lists.GetList(ctx, cmd.name)
		if errors.Is(err, data.ErrNotFound) {
			return fmt.Sprintf("I couldn't find a list called '%s'.", cmd.name), nil
		}
		if err != nil {
			return "", err
		}
		if len(list.Items) == 0 {
			return fmt.Sprintf("The '%s' list is empty.", cmd.name), nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "The '%s' list has %d %s:", cmd.name, len(list.Items), pluralNoun("item", len(list.Items)))
		for i, item := range list.Items {
			fmt.Fprintf(&sb, "\n%d. %s", i+1, item)
		}
		return sb.String(), nil

	case listAdd:
		err := r.lists.AddItem(ctx, cmd.name, cmd.item)
		if errors.Is(err, data.ErrNotFound) {
			return fmt.Sprintf("I couldn't find a list called '%s'.", cmd.name), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("I've added '%s' to the '%s' list.", cmd.item, cmd.name), nil

	case listRemove:
		return r.removeListItem(ctx, cmd)

	case listDelete:
		err := r.lists.DeleteList(ctx, cmd.name)
		if errors.Is(err, data.ErrNotFound) {
			return fmt.Sprintf("I couldn't find a list called '%s'.", cmd.name), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("I've deleted the '%s' list.", cmd.name), nil
	}

	return "Which list do you mean?", nil
}

// removeListItem resolves a removal by index or by item text.
func (r *Router) removeListItem(ctx context.Context, cmd *listCommand) (string, error) {
	index := cmd.index
	if !cmd.hasIndex {
		list, err := r.lists.GetList(ctx, cmd.name)
		if errors.Is(err, data.ErrNotFound) {
			return fmt.Sprintf("I couldn't find a list called '%s'.", cmd.name), nil
		}
		if err != nil {
			return "", err
		}
		index = -1
		for i, item := range list.Items {
			if strings.EqualFold(item, cmd.item) {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Sprintf("I couldn't find '%s' on the '%s' list.", cmd.item, cmd.name), nil
		}
	}

	removed, err := r.lists.RemoveItem(ctx, cmd.name, index)
	if errors.Is(err, data.ErrNotFound) {
		return fmt.Sprintf("I couldn't find a list called '%s'.", cmd.name), nil
	}
	if err != nil {
		return "", err
	}
	if !removed {
		return fmt.Sprintf("The '%s' list doesn't have an item %d.", cmd.name, index+1), nil
	}
	return fmt.Sprintf("I've removed item %d from the '%s' list.", index+1, cmd.name), nil
}

func pluralNoun(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
