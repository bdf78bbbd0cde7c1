package tasks

import "strings"

// ParsePriority parses user input to a Priority.
// If input is empty or unrecognized, returns DefaultPriority.
func ParsePriority(input string) Priority {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "low", "l":
		return PriorityLow
	case "medium", "med", "m":
		return PriorityMedium
	case "high", "h":
		return PriorityHigh
	default:
		return DefaultPriority
	}
}

// ParseRecurrence parses user input to a Recurrence.
// If input is empty or unrecognized, returns RecurrenceNone.
func ParseRecurrence(input string) Recurrence {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "daily", "day":
		return RecurrenceDaily
	case "weekly", "week":
		return RecurrenceWeekly
	default:
		return RecurrenceNone
	}
}
