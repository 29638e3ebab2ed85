package board

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

func TestSort(t *testing.T) {
	early := refNow.Add(-48 * time.Hour)
	late := refNow.Add(-time.Hour)

	a := mk("a", task.StatusBlocked, task.PriorityLow, "zed", dueOn(2024, time.June, 20), web)
	a.Created = &late
	b := mk("b", task.StatusTodo, task.PriorityUrgent, "", nil, ops)
	c := mk("c", task.StatusCompleted, task.PriorityHigh, "amy", dueOn(2024, time.June, 11), web)
	c.Created = &early
	tasks := []task.WithProject{a, b, c}

	tests := []struct {
		key  SortKey
		dir  Direction
		want []string
	}{
		{SortByPriority, Ascending, []string{"b", "c", "a"}},
		{SortByPriority, Descending, []string{"a", "c", "b"}},
		{SortByStatus, Ascending, []string{"b", "a", "c"}},
		{SortByStatus, Descending, []string{"c", "a", "b"}},
		{SortByDueDate, Ascending, []string{"c", "a", "b"}},
		{SortByDueDate, Descending, []string{"a", "c", "b"}},
		{SortByCreatedDate, Ascending, []string{"c", "a", "b"}},
		{SortByCreatedDate, Descending, []string{"a", "c", "b"}},
		{SortByProjectName, Ascending, []string{"b", "a", "c"}},
		{SortByProjectName, Descending, []string{"a", "c", "b"}},
		{SortByAssignee, Ascending, []string{"c", "a", "b"}},
		{SortByAssignee, Descending, []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key)+"/"+string(tt.dir), func(t *testing.T) {
			got := ids(Sort(tasks, tt.key, tt.dir))
			if !equalStrings(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ids(tasks); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Errorf("Sort() modified its input: %v", got)
	}
}

func TestSortStable(t *testing.T) {
	tasks := fixtures(60)
	pos := make(map[string]int, len(tasks))
	for i, tk := range tasks {
		pos[tk.ID] = i
	}

	for _, key := range SortKeys {
		for _, dir := range []Direction{Ascending, Descending} {
			t.Run(string(key)+"/"+string(dir), func(t *testing.T) {
				compare := Comparator(key, dir)
				sorted := Sort(tasks, key, dir)
				for i := 1; i < len(sorted); i++ {
					prev, cur := sorted[i-1], sorted[i]
					c := compare(prev, cur)
					if c > 0 {
						t.Fatalf("%s before %s out of order", prev.ID, cur.ID)
					}
					if c == 0 && pos[prev.ID] > pos[cur.ID] {
						t.Errorf("equal tasks %s and %s swapped", prev.ID, cur.ID)
					}
				}
			})
		}
	}
}

func TestParseSortKeyAndDirection(t *testing.T) {
	for _, k := range SortKeys {
		if got, err := ParseSortKey(string(k)); err != nil || got != k {
			t.Errorf("ParseSortKey(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseSortKey("size"); err == nil {
		t.Error("ParseSortKey(size) accepted an unknown key")
	}

	if d, err := ParseDirection("DESC"); err != nil || d != Descending {
		t.Errorf("ParseDirection(DESC) = %q, %v", d, err)
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Error("ParseDirection(up) accepted an unknown direction")
	}
	if Ascending.Reverse() != Descending || Descending.Reverse() != Ascending {
		t.Error("Reverse() mismatch")
	}
}
