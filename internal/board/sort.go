package board

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// SortKey is the field a flat task list is ordered by.
type SortKey string

// Sort keys.
const (
	SortByPriority    SortKey = "priority"
	SortByDueDate     SortKey = "dueDate"
	SortByCreatedDate SortKey = "createdDate"
	SortByProjectName SortKey = "projectName"
	SortByStatus      SortKey = "status"
	SortByAssignee    SortKey = "assignee"
)

// SortKeys lists every sort key in the order the TUI cycles them.
var SortKeys = []SortKey{
	SortByPriority,
	SortByDueDate,
	SortByCreatedDate,
	SortByProjectName,
	SortByStatus,
	SortByAssignee,
}

// Direction is the sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortKey converts a --sort value into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	allowed := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		allowed[i] = string(k)
	}
	return "", clierr.Newf(clierr.InvalidSort, "invalid sort key %q", s).
		WithDetails(map[string]any{"sort": s, "allowed": allowed})
}

// ParseDirection converts "asc" or "desc" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	default:
		return "", clierr.Newf(clierr.InvalidSort, "invalid sort direction %q (expected asc or desc)", s)
	}
}

// Comparator returns a three-way comparison of tasks for key and dir.
// Priority ascending means most urgent first. Tasks without a due date,
// created date or assignee sort after all others in both directions.
// Panics on an unknown key.
func Comparator(key SortKey, dir Direction) func(a, b task.WithProject) int {
	sign := 1
	if dir == Descending {
		sign = -1
	}

	switch key {
	case SortByPriority:
		return func(a, b task.WithProject) int {
			return sign * cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	case SortByStatus:
		return func(a, b task.WithProject) int {
			return sign * cmp.Compare(a.Status.Rank(), b.Status.Rank())
		}
	case SortByProjectName:
		return func(a, b task.WithProject) int {
			return sign * strings.Compare(a.Project.Name, b.Project.Name)
		}
	case SortByDueDate:
		return func(a, b task.WithProject) int {
			var at, bt *time.Time
			if a.Due != nil {
				at = &a.Due.Time
			}
			if b.Due != nil {
				bt = &b.Due.Time
			}
			return compareTimes(at, bt, sign)
		}
	case SortByCreatedDate:
		return func(a, b task.WithProject) int {
			return compareTimes(a.Created, b.Created, sign)
		}
	case SortByAssignee:
		return func(a, b task.WithProject) int {
			return compareMissingLast(a.Assignee == "", b.Assignee == "", func() int {
				return sign * strings.Compare(a.Assignee, b.Assignee)
			})
		}
	default:
		panic(fmt.Sprintf("board: unknown sort key %q", string(key)))
	}
}

func compareTimes(a, b *time.Time, sign int) int {
	return compareMissingLast(a == nil, b == nil, func() int {
		return sign * a.Compare(*b)
	})
}

// compareMissingLast orders absent values after present ones and defers to
// present for two present values.
func compareMissingLast(aMissing, bMissing bool, present func() int) int {
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	case bMissing:
		return -1
	default:
		return present()
	}
}

// Sort returns a stably sorted copy of tasks.
func Sort(tasks []task.WithProject, key SortKey, dir Direction) []task.WithProject {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, Comparator(key, dir))
	return sorted
}
