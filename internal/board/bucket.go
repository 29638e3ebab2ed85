package board

import (
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// Bucket is a named due-date range relative to the current day.
type Bucket string

// Due-date buckets, in display order.
const (
	BucketOverdue   Bucket = "overdue"
	BucketToday     Bucket = "today"
	BucketTomorrow  Bucket = "tomorrow"
	BucketThisWeek  Bucket = "this-week"
	BucketThisMonth Bucket = "this-month"
	BucketLater     Bucket = "later"
	BucketNoDueDate Bucket = "no-due-date"
)

// Buckets is the fixed display order of due-date buckets.
var Buckets = []Bucket{
	BucketOverdue,
	BucketToday,
	BucketTomorrow,
	BucketThisWeek,
	BucketThisMonth,
	BucketLater,
	BucketNoDueDate,
}

var bucketLabels = map[Bucket]string{
	BucketOverdue:   "Overdue",
	BucketToday:     "Today",
	BucketTomorrow:  "Tomorrow",
	BucketThisWeek:  "This Week",
	BucketThisMonth: "This Month",
	BucketLater:     "Later",
	BucketNoDueDate: "No Due Date",
}

// Label returns the display name of the bucket. Panics on unknown values.
func (b Bucket) Label() string {
	label, ok := bucketLabels[b]
	if !ok {
		panic(fmt.Sprintf("board: unknown bucket %q", string(b)))
	}
	return label
}

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// ClassifyDue places a due date into a bucket relative to now. Days are
// counted on the calendar of now's location rather than as elapsed 24-hour
// spans: anything due earlier today is still today, not overdue, and with
// now at 10 June 12:00 a due time of 11 June 06:00 is tomorrow even though
// it is less than a day away. Only due dates before today are overdue.
func ClassifyDue(due *time.Time, now time.Time) Bucket {
	if due == nil {
		return BucketNoDueDate
	}

	days := date.Of(now).DaysUntil(date.Of(due.In(now.Location())))
	switch {
	case days < 0:
		return BucketOverdue
	case days == 0:
		return BucketToday
	case days == 1:
		return BucketTomorrow
	case days <= daysPerWeek:
		return BucketThisWeek
	case days <= daysPerMonth:
		return BucketThisMonth
	default:
		return BucketLater
	}
}

// IsOverdue reports whether an unfinished task is past its due date.
func IsOverdue(t *task.Task, now time.Time) bool {
	if t.Status.Finished() {
		return false
	}
	return ClassifyDue(t.DueIn(now.Location()), now) == BucketOverdue
}
