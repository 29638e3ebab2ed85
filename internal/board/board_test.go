package board

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var (
	refNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	web    = task.Project{ID: "web", Name: "Website"}
	ops    = task.Project{ID: "ops", Name: "Operations"}
)

func dueOn(year int, month time.Month, day int) *date.Date {
	d := date.New(year, month, day)
	return &d
}

func mk(id string, status task.Status, prio task.Priority, assignee string, due *date.Date, p task.Project) task.WithProject {
	return task.WithProject{
		Task: &task.Task{
			ID:        id,
			ProjectID: p.ID,
			Title:     "task " + id,
			Status:    status,
			Priority:  prio,
			Assignee:  assignee,
			Due:       due,
			Updated:   refNow,
		},
		Project: p,
	}
}

// fixtures returns a deterministic spread of tasks over every status,
// priority, assignee, project and due bucket.
func fixtures(n int) []task.WithProject {
	assignees := []string{"alice", "", "bob", "carol"}
	dues := []*date.Date{
		nil,
		dueOn(2024, time.June, 8),
		dueOn(2024, time.June, 10),
		dueOn(2024, time.June, 11),
		dueOn(2024, time.June, 15),
		dueOn(2024, time.July, 1),
		dueOn(2024, time.December, 24),
	}
	projects := []task.Project{web, ops}

	out := make([]task.WithProject, n)
	for i := range n {
		t := mk(
			fmt.Sprintf("t%02d", i),
			task.Statuses[i%len(task.Statuses)],
			task.Priorities[(i/2)%len(task.Priorities)],
			assignees[(i/3)%len(assignees)],
			dues[i%len(dues)],
			projects[(i/5)%len(projects)],
		)
		created := refNow.Add(-time.Duration(i%4) * 24 * time.Hour)
		if i%6 != 0 {
			t.Created = &created
		}
		out[i] = t
	}
	return out
}

func ids(tasks []task.WithProject) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func groupIDs(groups []TaskGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestJoin(t *testing.T) {
	tasks := []*task.Task{
		{ID: "a", ProjectID: "web"},
		{ID: "b", ProjectID: "legacy"},
		{ID: "c"},
	}
	joined := Join(tasks, []task.Project{web, ops})

	want := []task.Project{web, {ID: "legacy", Name: "legacy"}, {ID: "", Name: "No Project"}}
	for i, w := range want {
		if joined[i].Project != w {
			t.Errorf("joined[%d].Project = %+v, want %+v", i, joined[i].Project, w)
		}
		if joined[i].Task != tasks[i] {
			t.Errorf("joined[%d] does not share the task", i)
		}
	}
}

func writeTask(t *testing.T, dir string, tk *task.Task) {
	t.Helper()
	path := filepath.Join(dir, task.GenerateFilename(tk.ID, task.GenerateSlug(tk.Title)))
	if err := task.Write(path, tk); err != nil {
		t.Fatalf("Write %s: %v", tk.ID, err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, &task.Task{ID: "a", ProjectID: "web", Title: "low", Status: task.StatusTodo, Priority: task.PriorityLow, Updated: refNow})
	writeTask(t, dir, &task.Task{ID: "b", ProjectID: "web", Title: "urgent", Status: task.StatusTodo, Priority: task.PriorityUrgent, Updated: refNow})
	writeTask(t, dir, &task.Task{ID: "c", ProjectID: "ops", Title: "high", Status: task.StatusInProgress, Priority: task.PriorityHigh, Updated: refNow})
	if err := os.WriteFile(filepath.Join(dir, "d-broken.md"), []byte("oops"), 0o600); err != nil {
		t.Fatal(err)
	}

	tasks, warnings, err := List(dir, []task.Project{web, ops}, ListOptions{Now: refNow})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want 1", warnings)
	}
	if got := ids(tasks); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Errorf("default order = %v, want [b c a]", got)
	}

	tasks, _, err = List(dir, []task.Project{web, ops}, ListOptions{
		Filter:    TasksFilter{}.WithProjects("web"),
		Direction: Descending,
		Limit:     1,
		Now:       refNow,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := ids(tasks); !equalStrings(got, []string{"a"}) {
		t.Errorf("filtered = %v, want [a]", got)
	}
	if tasks[0].Project != web {
		t.Errorf("project = %+v, want %+v", tasks[0].Project, web)
	}
}

func TestSummary(t *testing.T) {
	tasks := []task.WithProject{
		mk("t1", task.StatusTodo, task.PriorityHigh, "", dueOn(2024, time.June, 11), web),
		mk("t2", task.StatusCompleted, task.PriorityLow, "", dueOn(2024, time.June, 9), web),
		mk("t3", task.StatusInProgress, task.PriorityUrgent, "", nil, ops),
		mk("t4", task.StatusTodo, task.PriorityHigh, "", dueOn(2024, time.June, 1), ops),
	}
	ov := Summary("acme", tasks, refNow)

	if ov.WorkspaceName != "acme" || ov.TotalTasks != 4 || ov.Overdue != 1 {
		t.Errorf("overview = %+v", ov)
	}
	if s := ov.Statuses[0]; s.Status != task.StatusTodo || s.Count != 2 || s.Overdue != 1 {
		t.Errorf("todo summary = %+v", s)
	}
	if p := ov.Priorities[1]; p.Priority != task.PriorityHigh || p.Count != 2 {
		t.Errorf("high count = %+v", p)
	}

	byBucket := make(map[Bucket]int)
	for _, b := range ov.Due {
		byBucket[b.Bucket] = b.Count
	}
	if byBucket[BucketOverdue] != 1 || byBucket[BucketTomorrow] != 1 || byBucket[BucketNoDueDate] != 1 {
		t.Errorf("bucket counts = %v", byBucket)
	}
}

func TestActivityLog(t *testing.T) {
	dir := t.TempDir()

	LogMutation(dir, "create", "a1", "first")
	LogMutation(dir, "move", "a1", "todo -> inProgress")

	entries, err := ReadLog(dir)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 2 || entries[1].Action != "move" || entries[1].TaskID != "a1" {
		t.Fatalf("entries = %+v", entries)
	}

	if err := truncateLogIfNeeded(filepath.Join(dir, logFileName), 1); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	entries, err = ReadLog(dir)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "move" {
		t.Errorf("after truncation = %+v, want only the newest entry", entries)
	}

	if entries, err := ReadLog(t.TempDir()); err != nil || entries != nil {
		t.Errorf("ReadLog(empty) = %v, %v", entries, err)
	}
}
