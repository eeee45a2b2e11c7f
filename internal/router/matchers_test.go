package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTime(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) // Monday

	tests := []struct {
		query string
		want  string
	}{
		{"what time is it", "The current time is 10:30 AM."},
		{"what's the time", "The current time is 10:30 AM."},
		{"what day is it", "Today is Monday, January 15, 2024."},
		{"what day is tomorrow", "Tomorrow will be Tuesday, January 16, 2024."},
		{"what day was yesterday", "Yesterday was Sunday, January 14, 2024."},
		{"next friday", "Next friday will be Friday, January 19, 2024."},
		{"next monday", "Next monday will be Monday, January 22, 2024."},
		{"what day is next friday", "Next friday will be Friday, January 19, 2024."},
		{"what day is this saturday?", "This saturday is Saturday, January 20, 2024."},
		{"this friday", "This friday is Friday, January 19, 2024."},
		{"this monday", "This monday is today, Monday, January 15, 2024."},
		{"what day will it be in 3 days", "In 3 days it will be Thursday, January 18, 2024."},
		{"what day is it in 1 day", "In 1 day it will be Tuesday, January 16, 2024."},
		{"what date will it be in 2 weeks", "In 2 weeks it will be Monday, January 29, 2024."},
		{"what day will it be in 1 month", "In 1 month it will be Thursday, February 15, 2024."},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := matchTime(tt.query, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchTimeDeclines(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	for _, query := range []string{
		"set a timer for 5 minutes",
		"create a list called groceries",
		"what is the capital of france",
		"remind me to stretch at 14:00",
		"remind me to pay rent next friday",
		"schedule dinner for this saturday",
	} {
		_, ok := matchTime(query, now)
		assert.False(t, ok, "query %q should not be a time query", query)
	}
}

func TestParseListCommand(t *testing.T) {
	tests := []struct {
		query  string
		action listAction
		name   string
		item   string
	}{
		{"create a list called groceries", listCreate, "groceries", ""},
		{"make a new list named chores", listCreate, "chores", ""},
		{"start a travel list", listCreate, "travel", ""},
		{"show me all my lists", listShowAll, "", ""},
		{"what lists do i have", listShowAll, "", ""},
		{"show me the groceries list", listShowOne, "groceries", ""},
		{"what's on my chores list", listShowOne, "chores", ""},
		{"add milk to the groceries list", listAdd, "groceries", "milk"},
		{"put sunscreen on the travel list", listAdd, "travel", "sunscreen"},
		{"remove item 2 from the groceries list", listRemove, "groceries", ""},
		{"remove milk from the groceries list", listRemove, "groceries", "milk"},
		{"delete the travel list", listDelete, "travel", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			cmd, ok := parseListCommand(tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.action, cmd.action)
			assert.Equal(t, tt.name, cmd.name)
			assert.Equal(t, tt.item, cmd.item)
		})
	}
}

func TestParseListCommandClaimsWithoutName(t *testing.T) {
	for _, query := range []string{
		"create a list",
		"add milk to my list",
		"remove milk from my list",
	} {
		t.Run(query, func(t *testing.T) {
			cmd, ok := parseListCommand(query)
			require.True(t, ok)
			assert.Equal(t, listClarify, cmd.action)
			assert.NotEmpty(t, cmd.question)
		})
	}
}

func TestParseListCommandDeclines(t *testing.T) {
	for _, query := range []string{
		"what time is it",
		"remind me to stretch at 14:00",
		"how are you today",
	} {
		_, ok := parseListCommand(query)
		assert.False(t, ok, "query %q should not be a list command", query)
	}
}

func TestParseReminderCommand(t *testing.T) {
	t.Run("timer units", func(t *testing.T) {
		tests := []struct {
			query  string
			amount int
			unit   string
		}{
			{"set a timer for 5 minutes", 5, "minute"},
			{"set a timer for 1 min", 1, "minute"},
			{"set a timer for 30 secs", 30, "second"},
			{"set a timer for 45 s", 45, "second"},
			{"set a timer for 2 hours", 2, "hour"},
			{"set timer for 1 h", 1, "hour"},
			{"start a 10 minute timer", 10, "minute"},
		}
		for _, tt := range tests {
			cmd, ok := parseReminderCommand(tt.query)
			require.True(t, ok, tt.query)
			assert.Equal(t, reminderTimer, cmd.action, tt.query)
			assert.Equal(t, tt.amount, cmd.amount, tt.query)
			assert.Equal(t, tt.unit, cmd.unit, tt.query)
		}
	})

	t.Run("absolute time", func(t *testing.T) {
		cmd, ok := parseReminderCommand("remind me to stretch at 14:05")
		require.True(t, ok)
		assert.Equal(t, reminderAtTime, cmd.action)
		assert.Equal(t, "stretch", cmd.description)
		assert.Equal(t, 14, cmd.hour)
		assert.Equal(t, 5, cmd.minute)
	})

	t.Run("tomorrow default time", func(t *testing.T) {
		cmd, ok := parseReminderCommand("remind me to water the plants tomorrow")
		require.True(t, ok)
		assert.Equal(t, reminderTomorrow, cmd.action)
		assert.False(t, cmd.hasTime)
		assert.Equal(t, 9, cmd.hour)
		assert.Equal(t, 0, cmd.minute)
	})

	t.Run("tomorrow pm", func(t *testing.T) {
		cmd, ok := parseReminderCommand("remind me to call mom tomorrow at 5 pm")
		require.True(t, ok)
		assert.Equal(t, reminderTomorrow, cmd.action)
		assert.True(t, cmd.hasTime)
		assert.Equal(t, 17, cmd.hour)
	})

	t.Run("tomorrow 12 am", func(t *testing.T) {
		cmd, ok := parseReminderCommand("remind me to check the oven tomorrow at 12 am")
		require.True(t, ok)
		assert.Equal(t, 0, cmd.hour)
	})

	t.Run("list and cancel", func(t *testing.T) {
		cmd, ok := parseReminderCommand("show my reminders")
		require.True(t, ok)
		assert.Equal(t, reminderList, cmd.action)

		cmd, ok = parseReminderCommand("cancel the timer for pasta")
		require.True(t, ok)
		assert.Equal(t, reminderCancel, cmd.action)
		assert.Equal(t, "pasta", cmd.target)
	})

	t.Run("claims with missing duration", func(t *testing.T) {
		cmd, ok := parseReminderCommand("set a timer")
		require.True(t, ok)
		assert.Equal(t, reminderClarify, cmd.action)
		assert.Contains(t, cmd.question, "timer")
	})

	t.Run("invalid clock time asks back", func(t *testing.T) {
		cmd, ok := parseReminderCommand("remind me to stretch at 25:00")
		require.True(t, ok)
		assert.Equal(t, reminderClarify, cmd.action)
	})
}

func TestMatchSearchIntent(t *testing.T) {
	subject, ok := matchSearchIntent("search for the eiffel tower")
	require.True(t, ok)
	assert.Equal(t, "the eiffel tower", subject)

	subject, ok = matchSearchIntent("what is quantum computing?")
	require.True(t, ok)
	assert.Equal(t, "quantum computing", subject)

	_, ok = matchSearchIntent("add milk to the groceries list")
	assert.False(t, ok)
}

func TestMatchEmailIntent(t *testing.T) {
	intent, ok := matchEmailIntent("write an email to bob@example.com about the offsite in a casual tone")
	require.True(t, ok)
	assert.Equal(t, "bob@example.com", intent.recipient)
	assert.Equal(t, "the offsite", intent.subject)
	assert.Equal(t, "casual", intent.tone)

	intent, ok = matchEmailIntent("compose an email to carol about friday's demo")
	require.True(t, ok)
	assert.Equal(t, "professional", intent.tone)

	_, ok = matchEmailIntent("send a text to bob")
	assert.False(t, ok)
}
