package router

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Recognized time and date phrases. Queries are lowercased before matching.
var (
	timeNowRe   = regexp.MustCompile(`\b(what time is it|what's the time|whats the time|current time|tell me the time)\b`)
	dateTodayRe = regexp.MustCompile(`\b(what day is it|what is today|what day is today|today's date|todays date|what is the date|current date)\b`)
	tomorrowRe  = regexp.MustCompile(`\b(what day is tomorrow|what is tomorrow|tomorrow's date|tomorrows date)\b`)
	yesterdayRe = regexp.MustCompile(`\b(what day was yesterday|what was yesterday|yesterday's date|yesterdays date)\b`)
	// Anchored so a weekday inside a longer command ("remind me to pay
	// rent next friday") is left for the other classifiers.
	weekdayRe  = regexp.MustCompile(`^(?:what day is )?(next|this)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\??$`)
	inOffsetRe = regexp.MustCompile(`\bwhat (?:day|date) (?:will it be |is it )?in (\d+) (day|week|month)s?\b`)
)

// dateLayout renders dates the assistant speaks, e.g.
// "Monday, January 15, 2024".
const dateLayout = "Monday, January 2, 2006"

// weekdayIndex maps Go's Sunday-based weekday to Monday=0..Sunday=6.
func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

var weekdayNames = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// matchTime answers date and time questions directly from the given instant.
// Pure function; returns false when the query is not a time/date question.
func matchTime(query string, now time.Time) (string, bool) {
	if timeNowRe.MatchString(query) {
		return fmt.Sprintf("The current time is %s.", now.Format("3:04 PM")), true
	}

	if tomorrowRe.MatchString(query) {
		return fmt.Sprintf("Tomorrow will be %s.", now.AddDate(0, 0, 1).Format(dateLayout)), true
	}

	if yesterdayRe.MatchString(query) {
		return fmt.Sprintf("Yesterday was %s.", now.AddDate(0, 0, -1).Format(dateLayout)), true
	}

	// Tried before the today patterns so "what day is it in 3 days" binds
	// to the offset form.
	if m := inOffsetRe.FindStringSubmatch(query); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		var target time.Time
		switch m[2] {
		case "day":
			target = now.AddDate(0, 0, n)
		case "week":
			target = now.AddDate(0, 0, 7*n)
		case "month":
			target = now.AddDate(0, n, 0)
		}
		return fmt.Sprintf("In %s %s%s it will be %s.", m[1], m[2], plural(n), target.Format(dateLayout)), true
	}

	if dateTodayRe.MatchString(query) {
		return fmt.Sprintf("Today is %s.", now.Format(dateLayout)), true
	}

	if m := weekdayRe.FindStringSubmatch(query); m != nil {
		target, ok := weekdayNames[m[2]]
		if !ok {
			return "", false
		}
		offset := (target - weekdayIndex(now.Weekday()) + 7) % 7

		switch m[1] {
		case "next":
			// "next monday" is never today.
			if offset == 0 {
				offset = 7
			}
			day := now.AddDate(0, 0, offset)
			return fmt.Sprintf("Next %s will be %s.", m[2], day.Format(dateLayout)), true
		default: // "this"
			day := now.AddDate(0, 0, offset)
			if offset == 0 {
				return fmt.Sprintf("This %s is today, %s.", m[2], day.Format(dateLayout)), true
			}
			return fmt.Sprintf("This %s is %s.", m[2], day.Format(dateLayout)), true
		}
	}

	return "", false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
