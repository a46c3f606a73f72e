package schedule

import "contas/internal/core"

// Bucket is the due-status of an obligation relative to "today".
type Bucket string

const (
	Overdue   Bucket = "overdue"
	DueSoon   Bucket = "due_soon"
	Scheduled Bucket = "scheduled"
)

// dueSoonWindowDays is the inclusive upper bound of the due-soon bucket.
const dueSoonWindowDays = 7

// Status is the classification of a single due date.
type Status struct {
	Bucket       Bucket
	DaysUntilDue int
}

// Classify buckets a due date against today: overdue when past, due-soon
// within the next seven days (today included), scheduled otherwise.
// Deterministic for any pair of valid dates; no error cases.
func Classify(dueDate, today core.Date) Status {
	days := today.DaysUntil(dueDate)

	switch {
	case days < 0:
		return Status{Bucket: Overdue, DaysUntilDue: days}
	case days <= dueSoonWindowDays:
		return Status{Bucket: DueSoon, DaysUntilDue: days}
	default:
		return Status{Bucket: Scheduled, DaysUntilDue: days}
	}
}
