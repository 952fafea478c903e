package domain

import (
	"math"
	"sort"
	"time"
)

// CountItem is one bucket of a grouped count.
type CountItem struct {
	Value string
	Count int
}

// VolumePoint is the ticket count for one calendar date.
type VolumePoint struct {
	Date  time.Time
	Count int
}

// SummaryMetrics are the headline numbers of a report.
type SummaryMetrics struct {
	TotalTickets       int
	AvgResolutionHours float64 // arithmetic mean, rounded to 2 decimal places
	UniqueLocations    int
}

// CountBy groups tickets by a categorical field and counts each distinct
// value, singletons included. Buckets are ordered by count descending; the
// relative order of equal counts is left to the presentation layer. The sum
// of all counts equals the number of input tickets.
func CountBy(tickets []Ticket, field Field) []CountItem {
	counts := make(map[string]int)
	order := make([]string, 0)
	for i := range tickets {
		v := tickets[i].FieldValue(field)
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	items := make([]CountItem, 0, len(order))
	for _, v := range order {
		items = append(items, CountItem{Value: v, Count: counts[v]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	return items
}

// DailyVolume counts tickets per CreatedDate, ordered by date ascending.
// Dates with no tickets are not synthesized.
func DailyVolume(tickets []Ticket) []VolumePoint {
	counts := make(map[time.Time]int)
	for i := range tickets {
		counts[tickets[i].CreatedDate]++
	}

	points := make([]VolumePoint, 0, len(counts))
	for date, count := range counts {
		points = append(points, VolumePoint{Date: date, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Summarize computes the headline metrics over a non-empty set of tickets.
// ok is false for an empty set; the mean is undefined there and callers are
// expected to treat the empty view as its own state.
func Summarize(tickets []Ticket) (SummaryMetrics, bool) {
	if len(tickets) == 0 {
		return SummaryMetrics{}, false
	}

	var sum float64
	locations := make(map[string]struct{})
	for i := range tickets {
		sum += tickets[i].ResolutionHours
		locations[tickets[i].Location] = struct{}{}
	}

	mean := sum / float64(len(tickets))
	return SummaryMetrics{
		TotalTickets:       len(tickets),
		AvgResolutionHours: math.Round(mean*100) / 100,
		UniqueLocations:    len(locations),
	}, true
}

// SortByResolutionDesc returns a copy of the tickets sorted by
// ResolutionHours descending. The sort is stable: ties keep their original
// relative order.
func SortByResolutionDesc(tickets []Ticket) []Ticket {
	sorted := make([]Ticket, len(tickets))
	copy(sorted, tickets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ResolutionHours > sorted[j].ResolutionHours
	})
	return sorted
}

// TopNByResolution returns the n slowest tickets. n <= 0 or n beyond the
// input length yields the full sorted set.
func TopNByResolution(tickets []Ticket, n int) []Ticket {
	sorted := SortByResolutionDesc(tickets)
	if n > 0 && n < len(sorted) {
		return sorted[:n]
	}
	return sorted
}

func distinctValues(tickets []Ticket, field Field) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range tickets {
		v := tickets[i].FieldValue(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
