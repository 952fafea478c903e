package domain

import (
	"time"
)

// Required CSV column headers, in the order they are re-serialized.
const (
	ColumnIssueKey  = "Issue key"
	ColumnIssueType = "Issue Type"
	ColumnLocation  = "Location"
	ColumnAssignee  = "Assignee"
	ColumnStatus    = "Status"
	ColumnPriority  = "Priority"
	ColumnCreated   = "Created"
	ColumnResolved  = "Resolved"
)

// RequiredColumns lists every column an upload must carry. Order matters:
// it is the column order of the exported filtered table.
var RequiredColumns = []string{
	ColumnIssueKey,
	ColumnIssueType,
	ColumnLocation,
	ColumnAssignee,
	ColumnStatus,
	ColumnPriority,
	ColumnCreated,
	ColumnResolved,
}

// Field identifies a categorical ticket attribute that aggregations group by.
type Field string

const (
	FieldIssueType Field = "issueType"
	FieldLocation  Field = "location"
	FieldAssignee  Field = "assignee"
	FieldStatus    Field = "status"
	FieldPriority  Field = "priority"
)

// CategoricalFields lists every groupable field.
var CategoricalFields = []Field{
	FieldIssueType,
	FieldLocation,
	FieldAssignee,
	FieldStatus,
	FieldPriority,
}

// Ticket is one cleaned row of the uploaded export. Created and Resolved are
// always valid on a cleaned ticket; rows that failed parsing never survive the
// loader.
type Ticket struct {
	IssueKey  string
	IssueType string
	Location  string
	Assignee  string
	Status    string
	Priority  string
	Created   time.Time
	Resolved  time.Time

	// ResolutionHours is (Resolved - Created) in hours. Negative when a row
	// records Resolved before Created; such rows are kept as-is.
	ResolutionHours float64

	// CreatedDate is the calendar date of Created, truncated to midnight UTC.
	// It is the grouping key for daily volume and the filter range check.
	CreatedDate time.Time
}

// FieldValue returns the ticket's value for a categorical field.
func (t *Ticket) FieldValue(field Field) string {
	switch field {
	case FieldIssueType:
		return t.IssueType
	case FieldLocation:
		return t.Location
	case FieldAssignee:
		return t.Assignee
	case FieldStatus:
		return t.Status
	case FieldPriority:
		return t.Priority
	default:
		return ""
	}
}

// Derive computes the derived fields from the parsed timestamps.
func (t *Ticket) Derive() {
	t.ResolutionHours = t.Resolved.Sub(t.Created).Seconds() / 3600
	y, m, d := t.Created.Date()
	t.CreatedDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LoadStats records what the cleaning passes did to an upload.
type LoadStats struct {
	RowsRead        int // data rows in the file, header excluded
	RowsDroppedNull int // rows missing Created or Resolved
	RowsDroppedBad  int // rows whose timestamps failed to parse
	RowsLoaded      int // rows in the cleaned table
}

// Dataset is an immutable cleaned table plus its identity and load stats.
// The ID is the SHA-256 hex digest of the uploaded bytes, so identical
// uploads map to the same dataset and mutated content always gets a new one.
type Dataset struct {
	ID       string
	Name     string
	Tickets  []Ticket
	Stats    LoadStats
	LoadedAt time.Time
}

// DateBounds returns the earliest and latest CreatedDate in the dataset.
// ok is false for an empty dataset.
func (d *Dataset) DateBounds() (min, max time.Time, ok bool) {
	if len(d.Tickets) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = d.Tickets[0].CreatedDate, d.Tickets[0].CreatedDate
	for _, t := range d.Tickets[1:] {
		if t.CreatedDate.Before(min) {
			min = t.CreatedDate
		}
		if t.CreatedDate.After(max) {
			max = t.CreatedDate
		}
	}
	return min, max, true
}

// DistinctValues returns the sorted distinct values of a categorical field.
// The presentation layer uses these to populate its filter widgets.
func (d *Dataset) DistinctValues(field Field) []string {
	return distinctValues(d.Tickets, field)
}
