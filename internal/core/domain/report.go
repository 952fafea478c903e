package domain

import (
	"math"
	"time"
)

// ProportionItem is one bucket of a grouped count expressed as a share of
// the whole, for charts rendered as proportions.
type ProportionItem struct {
	Value      string
	Count      int
	Proportion float64 // share of the filtered total, rounded to 4 decimals
}

// Report is the full rendered-report payload for one filtered view: the
// period, the headline metrics, and one aggregation per chart. Empty marks a
// view whose filters matched nothing; Summary is absent in that case.
type Report struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	Empty   bool
	Summary *SummaryMetrics

	IssueTypeCounts []CountItem
	AssigneeCounts  []CountItem
	StatusCounts    []CountItem
	LocationCounts  []CountItem
	PriorityShares  []ProportionItem
	DailyVolume     []VolumePoint

	// SlowestTickets is the per-ticket resolution listing, sorted by
	// ResolutionHours descending.
	SlowestTickets []Ticket
}

// BuildReport assembles a report from an already-filtered set of tickets.
// The criteria must have been validated before filtering; this function only
// aggregates.
func BuildReport(filtered []Ticket, criteria FilterCriteria, slowestLimit int) Report {
	report := Report{
		PeriodStart: criteria.Start,
		PeriodEnd:   criteria.End,
	}

	summary, ok := Summarize(filtered)
	if !ok {
		report.Empty = true
		return report
	}
	report.Summary = &summary

	report.IssueTypeCounts = CountBy(filtered, FieldIssueType)
	report.AssigneeCounts = CountBy(filtered, FieldAssignee)
	report.StatusCounts = CountBy(filtered, FieldStatus)
	report.LocationCounts = CountBy(filtered, FieldLocation)
	report.PriorityShares = toProportions(CountBy(filtered, FieldPriority), len(filtered))
	report.DailyVolume = DailyVolume(filtered)
	report.SlowestTickets = TopNByResolution(filtered, slowestLimit)

	return report
}

func toProportions(items []CountItem, total int) []ProportionItem {
	shares := make([]ProportionItem, 0, len(items))
	for _, item := range items {
		share := float64(item.Count) / float64(total)
		shares = append(shares, ProportionItem{
			Value:      item.Value,
			Count:      item.Count,
			Proportion: math.Round(share*10000) / 10000,
		})
	}
	return shares
}
