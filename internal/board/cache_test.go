package board

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

func fixedClock() time.Time { return refNow }

func TestGroupCacheHit(t *testing.T) {
	c := NewGroupCache(fixedClock)
	tasks := fixtures(20)

	first := c.Group(tasks, DimensionStatus)
	if c.Computations() != 1 {
		t.Fatalf("Computations() = %d, want 1", c.Computations())
	}

	again := c.Group(slices.Clone(tasks), DimensionStatus)
	if c.Computations() != 1 {
		t.Errorf("unchanged input recomputed: Computations() = %d", c.Computations())
	}
	if !reflect.DeepEqual(again, first) {
		t.Error("cache hit returned a different grouping")
	}
	if direct := Group(tasks, DimensionStatus, refNow); !reflect.DeepEqual(again, direct) {
		t.Error("cached grouping differs from a direct Group call")
	}
}

func TestGroupCacheMiss(t *testing.T) {
	tasks := fixtures(10)

	withStatus := func(in []task.WithProject, i int, s task.Status) []task.WithProject {
		out := slices.Clone(in)
		cp := *out[i].Task
		cp.Status = s
		out[i].Task = &cp
		return out
	}
	withUpdated := func(in []task.WithProject, i int) []task.WithProject {
		out := slices.Clone(in)
		cp := *out[i].Task
		cp.Updated = cp.Updated.Add(time.Minute)
		out[i].Task = &cp
		return out
	}
	withTitle := func(in []task.WithProject, i int) []task.WithProject {
		out := slices.Clone(in)
		cp := *out[i].Task
		cp.Title = "renamed"
		out[i].Task = &cp
		return out
	}

	tests := []struct {
		name      string
		tasks     []task.WithProject
		dim       Dimension
		recompute bool
	}{
		{"same input", tasks, DimensionStatus, false},
		{"dimension changed", tasks, DimensionPriority, true},
		{"fewer tasks", tasks[:9], DimensionStatus, true},
		{"reordered", append([]task.WithProject{tasks[1], tasks[0]}, tasks[2:]...), DimensionStatus, true},
		{"status changed", withStatus(tasks, 3, task.StatusCancelled), DimensionStatus, true},
		{"updated changed", withUpdated(tasks, 3), DimensionStatus, true},
		{"title only", withTitle(tasks, 3), DimensionStatus, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewGroupCache(fixedClock)
			c.Group(tasks, DimensionStatus)
			c.Group(tt.tasks, tt.dim)

			want := 1
			if tt.recompute {
				want = 2
			}
			if c.Computations() != want {
				t.Errorf("Computations() = %d, want %d", c.Computations(), want)
			}
		})
	}
}

func TestGroupCacheSnapshotIsCopied(t *testing.T) {
	c := NewGroupCache(fixedClock)
	tasks := fixtures(5)
	c.Group(tasks, DimensionStatus)

	// Swapping an element of the caller's slice must not update the snapshot.
	replaced := *tasks[0].Task
	replaced.Status = task.StatusCancelled
	tasks[0].Task = &replaced

	groups := c.Group(tasks, DimensionStatus)
	if c.Computations() != 2 {
		t.Fatalf("Computations() = %d, want 2", c.Computations())
	}
	if groups[len(groups)-1].ID != string(task.StatusCancelled) {
		t.Errorf("last group = %s, want cancelled", groups[len(groups)-1].ID)
	}
}

func TestGroupCacheInvalidate(t *testing.T) {
	c := NewGroupCache(fixedClock)
	tasks := fixtures(5)
	c.Group(tasks, DimensionDueDate)
	c.Invalidate()
	c.Group(tasks, DimensionDueDate)
	if c.Computations() != 2 {
		t.Errorf("Computations() = %d, want 2", c.Computations())
	}
}
