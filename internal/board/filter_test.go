package board

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

func TestFilter(t *testing.T) {
	tasks := []task.WithProject{
		mk("a", task.StatusTodo, task.PriorityUrgent, "alice", dueOn(2024, time.June, 5), web),
		mk("b", task.StatusCompleted, task.PriorityHigh, "bob", dueOn(2024, time.June, 5), web),
		mk("c", task.StatusInProgress, task.PriorityLow, "", dueOn(2024, time.June, 12), ops),
		mk("d", task.StatusBlocked, task.PriorityHigh, "alice", nil, ops),
		mk("e", task.StatusTodo, task.PriorityMedium, "bob", dueOn(2024, time.June, 20), web),
	}
	empty := TasksFilter{}

	tests := []struct {
		name   string
		filter TasksFilter
		me     string
		want   []string
	}{
		{"no constraints", empty, "", []string{"a", "b", "c", "d", "e"}},
		{"project", empty.WithProjects("ops"), "", []string{"c", "d"}},
		{"projects or", empty.WithProjects("ops", "web"), "", []string{"a", "b", "c", "d", "e"}},
		{"priorities or", empty.WithPriorities(task.PriorityHigh, task.PriorityUrgent), "", []string{"a", "b", "d"}},
		{"assignee", empty.WithAssignees("bob"), "", []string{"b", "e"}},
		{"overdue excludes finished", empty.WithOverdueOnly(true), "", []string{"a"}},
		{"mine", empty.WithMyTasksOnly(true), "alice", []string{"a", "d"}},
		{"mine without identity", empty.WithMyTasksOnly(true), "", nil},
		{"start inclusive", empty.WithDateRange(dueOn(2024, time.June, 12), nil), "", []string{"c", "e"}},
		{"end inclusive", empty.WithDateRange(nil, dueOn(2024, time.June, 12)), "", []string{"a", "b", "c"}},
		{"range", empty.WithDateRange(dueOn(2024, time.June, 6), dueOn(2024, time.June, 19)), "", []string{"c"}},
		{"and across dimensions", empty.WithProjects("web").WithAssignees("bob").WithPriorities(task.PriorityMedium), "", []string{"e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(tasks, tt.filter, tt.me, refNow))
			if !equalStrings(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMonotonic(t *testing.T) {
	tasks := fixtures(60)
	steps := []func(TasksFilter) TasksFilter{
		func(f TasksFilter) TasksFilter { return f.WithProjects("web") },
		func(f TasksFilter) TasksFilter { return f.WithPriorities(task.PriorityHigh, task.PriorityLow) },
		func(f TasksFilter) TasksFilter { return f.WithAssignees("alice", "bob") },
		func(f TasksFilter) TasksFilter { return f.WithDateRange(dueOn(2024, time.June, 1), nil) },
		func(f TasksFilter) TasksFilter { return f.WithOverdueOnly(true) },
		func(f TasksFilter) TasksFilter { return f.WithMyTasksOnly(true) },
	}

	f := TasksFilter{}
	prev := Filter(tasks, f, "alice", refNow)
	if len(prev) != len(tasks) {
		t.Fatalf("empty filter dropped tasks: %d of %d", len(prev), len(tasks))
	}
	for i, step := range steps {
		f = step(f)
		got := Filter(tasks, f, "alice", refNow)

		allowed := make(map[string]bool, len(prev))
		for _, tk := range prev {
			allowed[tk.ID] = true
		}
		for _, tk := range got {
			if !allowed[tk.ID] {
				t.Errorf("step %d: %s appeared after adding a constraint", i, tk.ID)
			}
		}
		prev = got
	}
}

func TestTasksFilterIsImmutable(t *testing.T) {
	projects := []string{"web"}
	base := TasksFilter{}.WithProjects(projects...)
	projects[0] = "ops"
	if base.ProjectIDs[0] != "web" {
		t.Error("filter shares the caller's slice")
	}

	narrowed := base.WithOverdueOnly(true)
	narrowed.ProjectIDs[0] = "changed"
	if base.OverdueOnly || base.ProjectIDs[0] != "web" {
		t.Errorf("With helper modified the receiver: %+v", base)
	}
	if !narrowed.Active() || (TasksFilter{}).Active() {
		t.Error("Active() mismatch")
	}
}
