package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// Dimension is the task attribute used to partition tasks into sections.
type Dimension string

// Grouping dimensions.
const (
	DimensionNone     Dimension = "none"
	DimensionProject  Dimension = "project"
	DimensionStatus   Dimension = "status"
	DimensionPriority Dimension = "priority"
	DimensionAssignee Dimension = "assignee"
	DimensionDueDate  Dimension = "dueDate"
)

// Dimensions lists every grouping dimension in the order the TUI cycles them.
var Dimensions = []Dimension{
	DimensionNone,
	DimensionStatus,
	DimensionPriority,
	DimensionDueDate,
	DimensionProject,
	DimensionAssignee,
}

// ParseDimension converts a --group-by value into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidGroupBy, "invalid group-by %q", s).
		WithDetails(map[string]any{"group_by": s, "allowed": dimensionNames()})
}

func dimensionNames() []string {
	names := make([]string, len(Dimensions))
	for i, d := range Dimensions {
		names[i] = string(d)
	}
	return names
}

const (
	allGroupID     = "all"
	allGroupName   = "All Tasks"
	unassignedKey  = "unassigned"
	unassignedName = "Unassigned"
)

// TaskGroup is one named section of a grouped task list.
type TaskGroup struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Tasks []task.WithProject `json:"tasks"`
}

// GroupKey returns the group key and display name of t under dim.
// Panics for DimensionNone and unknown dimensions.
func GroupKey(t task.WithProject, dim Dimension, now time.Time) (key, name string) {
	switch dim {
	case DimensionProject:
		return t.Project.ID, t.Project.Name
	case DimensionStatus:
		return string(t.Status), t.Status.Label()
	case DimensionPriority:
		return string(t.Priority), t.Priority.Label()
	case DimensionAssignee:
		if t.Assignee == "" {
			return unassignedKey, unassignedName
		}
		return t.Assignee, t.Assignee
	case DimensionDueDate:
		b := ClassifyDue(t.DueIn(now.Location()), now)
		return string(b), b.Label()
	default:
		panic(fmt.Sprintf("board: no group key for dimension %q", string(dim)))
	}
}

// Group partitions tasks into named sections ordered for dim. Tasks keep their
// input order inside each section. With DimensionNone or no tasks, a single
// "All Tasks" section holds everything.
func Group(tasks []task.WithProject, dim Dimension, now time.Time) []TaskGroup {
	if dim == DimensionNone || len(tasks) == 0 {
		return []TaskGroup{{
			ID:    allGroupID,
			Name:  allGroupName,
			Tasks: slices.Clone(tasks),
		}}
	}

	var groups []TaskGroup
	index := make(map[string]int)
	for _, t := range tasks {
		key, name := GroupKey(t, dim, now)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TaskGroup{ID: key, Name: name})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	return SortGroups(groups, dim)
}

// SortGroups returns groups ordered for dim. Status, priority and due-date
// groups follow their fixed orders, with unrecognised keys after all known
// ones in input order. Project and assignee groups sort by name.
func SortGroups(groups []TaskGroup, dim Dimension) []TaskGroup {
	sorted := slices.Clone(groups)

	switch dim {
	case DimensionNone:
		return sorted
	case DimensionStatus:
		slices.SortStableFunc(sorted, byFixedOrder(statusOrder))
	case DimensionPriority:
		slices.SortStableFunc(sorted, byFixedOrder(priorityOrder))
	case DimensionDueDate:
		slices.SortStableFunc(sorted, byFixedOrder(bucketOrder))
	case DimensionProject, DimensionAssignee:
		slices.SortStableFunc(sorted, func(a, b TaskGroup) int {
			return strings.Compare(a.Name, b.Name)
		})
	default:
		panic(fmt.Sprintf("board: cannot sort groups for dimension %q", string(dim)))
	}
	return sorted
}

var (
	statusOrder   = fixedOrder(task.Statuses)
	priorityOrder = fixedOrder(task.Priorities)
	bucketOrder   = fixedOrder(Buckets)
)

func fixedOrder[S ~string](values []S) map[string]int {
	order := make(map[string]int, len(values))
	for i, v := range values {
		order[string(v)] = i
	}
	return order
}

func byFixedOrder(order map[string]int) func(a, b TaskGroup) int {
	return func(a, b TaskGroup) int {
		ai, aok := order[a.ID]
		bi, bok := order[b.ID]
		switch {
		case aok && bok:
			return ai - bi
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	}
}
