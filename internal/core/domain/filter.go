package domain

import (
	"time"

	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
)

// FilterCriteria defines the active view over a cleaned table: an inclusive
// calendar-date range plus inclusion sets for location and issue type.
type FilterCriteria struct {
	Start      time.Time
	End        time.Time
	Locations  []string
	IssueTypes []string
}

// Validate rejects a criteria whose start date falls after its end date.
// A rejected filter never touches the table it was aimed at.
func (c FilterCriteria) Validate() error {
	if c.Start.After(c.End) {
		return &apperrors.InvalidRangeError{
			Start: c.Start.Format(time.DateOnly),
			End:   c.End.Format(time.DateOnly),
		}
	}
	return nil
}

// Apply returns the tickets whose CreatedDate lies within [Start, End] and
// whose Location and IssueType are both in the allowed sets. An empty set
// matches nothing; there is no implicit select-all. The input is never
// mutated and an empty result is a valid outcome, not an error.
func (c FilterCriteria) Apply(tickets []Ticket) []Ticket {
	locations := toSet(c.Locations)
	issueTypes := toSet(c.IssueTypes)

	result := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.CreatedDate.Before(c.Start) || t.CreatedDate.After(c.End) {
			continue
		}
		if _, ok := locations[t.Location]; !ok {
			continue
		}
		if _, ok := issueTypes[t.IssueType]; !ok {
			continue
		}
		result = append(result, t)
	}
	return result
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
