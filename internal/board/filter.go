package board

import (
	"slices"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// TasksFilter defines which tasks to include. Empty sets, false flags and nil
// bounds leave their dimension unconstrained. Treat it as a value: the With
// helpers return modified copies and never touch the receiver.
type TasksFilter struct {
	ProjectIDs  []string        `json:"project_ids,omitempty"`
	Priorities  []task.Priority `json:"priorities,omitempty"`
	Assignees   []string        `json:"assignees,omitempty"`
	OverdueOnly bool            `json:"overdue_only,omitempty"`
	MyTasksOnly bool            `json:"my_tasks_only,omitempty"`
	Start       *date.Date      `json:"start,omitempty"` // inclusive
	End         *date.Date      `json:"end,omitempty"`   // inclusive
}

// WithProjects returns a copy of f restricted to the given project IDs.
func (f TasksFilter) WithProjects(ids ...string) TasksFilter {
	f.ProjectIDs = ids
	return f.cloned()
}

// WithPriorities returns a copy of f restricted to the given priorities.
func (f TasksFilter) WithPriorities(ps ...task.Priority) TasksFilter {
	f.Priorities = ps
	return f.cloned()
}

// WithAssignees returns a copy of f restricted to the given assignees.
func (f TasksFilter) WithAssignees(names ...string) TasksFilter {
	f.Assignees = names
	return f.cloned()
}

// WithOverdueOnly returns a copy of f with the overdue flag set to on.
func (f TasksFilter) WithOverdueOnly(on bool) TasksFilter {
	f.OverdueOnly = on
	return f.cloned()
}

// WithMyTasksOnly returns a copy of f with the my-tasks flag set to on.
func (f TasksFilter) WithMyTasksOnly(on bool) TasksFilter {
	f.MyTasksOnly = on
	return f.cloned()
}

// WithDateRange returns a copy of f with the given inclusive due-date bounds.
func (f TasksFilter) WithDateRange(start, end *date.Date) TasksFilter {
	f.Start, f.End = start, end
	return f.cloned()
}

// Active reports whether any dimension is constrained.
func (f TasksFilter) Active() bool {
	return len(f.ProjectIDs) > 0 || len(f.Priorities) > 0 || len(f.Assignees) > 0 ||
		f.OverdueOnly || f.MyTasksOnly || f.Start != nil || f.End != nil
}

// cloned detaches every set from slices shared with the original value.
func (f TasksFilter) cloned() TasksFilter {
	f.ProjectIDs = slices.Clone(f.ProjectIDs)
	f.Priorities = slices.Clone(f.Priorities)
	f.Assignees = slices.Clone(f.Assignees)
	return f
}

// Filter returns the tasks matching every active constraint of f (AND across
// dimensions, OR within a set), in their original order. me is the current
// user's identity for MyTasksOnly.
func Filter(tasks []task.WithProject, f TasksFilter, me string, now time.Time) []task.WithProject {
	result := make([]task.WithProject, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(t, f, me, now) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.WithProject, f TasksFilter, me string, now time.Time) bool {
	if !matchesSets(t, f) {
		return false
	}
	if f.OverdueOnly && !IsOverdue(t.Task, now) {
		return false
	}
	if f.MyTasksOnly && (me == "" || t.Assignee != me) {
		return false
	}
	return matchesDateRange(t.Due, f.Start, f.End)
}

func matchesSets(t task.WithProject, f TasksFilter) bool {
	if len(f.ProjectIDs) > 0 && !slices.Contains(f.ProjectIDs, t.Project.ID) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	if len(f.Assignees) > 0 && !slices.Contains(f.Assignees, t.Assignee) {
		return false
	}
	return true
}

func matchesDateRange(due, start, end *date.Date) bool {
	if start == nil && end == nil {
		return true
	}
	if due == nil {
		return false
	}
	if start != nil && due.Before(start.Time) {
		return false
	}
	if end != nil && due.After(end.Time) {
		return false
	}
	return true
}
