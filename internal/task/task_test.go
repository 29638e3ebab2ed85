package task

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
)

func writeRaw(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	due := date.New(2024, time.June, 11)
	created := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	conf := 0.8
	in := &Task{
		ID:           "a1b2c3d4",
		ProjectID:    "web",
		Title:        "Ship login page",
		Status:       StatusBlocked,
		Priority:     PriorityHigh,
		Assignee:     "alice",
		Due:          &due,
		Progress:     40,
		Created:      &created,
		Updated:      created.Add(time.Hour),
		Blocker:      "waiting on design",
		Question:     "which font?",
		AIGenerated:  true,
		AIConfidence: &conf,
		Description:  "Implement the form.\n\n- validate email",
	}

	path := filepath.Join(dir, GenerateFilename(in.ID, GenerateSlug(in.Title)))
	if err := Write(path, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.ID != in.ID || out.ProjectID != in.ProjectID || out.Title != in.Title {
		t.Errorf("identity fields = %q/%q/%q", out.ID, out.ProjectID, out.Title)
	}
	if out.Status != in.Status || out.Priority != in.Priority {
		t.Errorf("status/priority = %s/%s", out.Status, out.Priority)
	}
	if out.Due == nil || out.Due.String() != "2024-06-11" {
		t.Errorf("Due = %v, want 2024-06-11", out.Due)
	}
	if !out.Updated.Equal(in.Updated) {
		t.Errorf("Updated = %v, want %v", out.Updated, in.Updated)
	}
	if out.AIConfidence == nil || *out.AIConfidence != conf {
		t.Errorf("AIConfidence = %v", out.AIConfidence)
	}
	if out.Description != in.Description+"\n" {
		t.Errorf("Description = %q", out.Description)
	}
	if out.File != path {
		t.Errorf("File = %q, want %q", out.File, path)
	}
}

func TestReadRejectsMissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeRaw(t, dir, "x-bad.md", "just text\n")
	if _, err := Read(path); err == nil {
		t.Fatal("Read() accepted a file without frontmatter")
	}

	path = writeRaw(t, dir, "y-bad.md", "---\nid: y\n")
	if _, err := Read(path); err == nil {
		t.Fatal("Read() accepted unclosed frontmatter")
	}
}

func TestReadAllLenientSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "t1-ok.md", "---\nid: t1\ntitle: ok\nstatus: todo\npriority: low\nprogress: 0\nupdated: 2024-06-01T00:00:00Z\n---\n")
	writeRaw(t, dir, "t2-enum.md", "---\nid: t2\ntitle: bad\nstatus: doing\npriority: low\nprogress: 0\nupdated: 2024-06-01T00:00:00Z\n---\n")
	writeRaw(t, dir, "t3-broken.md", "no frontmatter")
	writeRaw(t, dir, "notes.txt", "ignored")
	writeRaw(t, dir, ".t4-hidden.md", "ignored")

	tasks, warnings, err := ReadAllLenient(dir)
	if err != nil {
		t.Fatalf("ReadAllLenient: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("tasks = %v, want only t1", tasks)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}

	var cliErr *clierr.Error
	if !errors.As(warnings[0].Err, &cliErr) || cliErr.Code != clierr.InvalidStatus {
		t.Errorf("warning[0] = %v, want INVALID_STATUS", warnings[0].Err)
	}

	if _, err := ReadAll(dir); err == nil {
		t.Error("ReadAll() should fail on the first invalid file")
	}
}

func TestReadAllLenientMissingDir(t *testing.T) {
	tasks, warnings, err := ReadAllLenient(filepath.Join(t.TempDir(), "nope"))
	if err != nil || tasks != nil || warnings != nil {
		t.Errorf("ReadAllLenient(missing) = %v, %v, %v", tasks, warnings, err)
	}
}

func TestFindByID(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "abc-first.md", "---\nid: abc\ntitle: first\nstatus: todo\npriority: low\nprogress: 0\nupdated: 2024-06-01T00:00:00Z\n---\n")
	writeRaw(t, dir, "renamed.md", "---\nid: xyz\ntitle: second\nstatus: todo\npriority: low\nprogress: 0\nupdated: 2024-06-01T00:00:00Z\n---\n")

	path, err := FindByID(dir, "abc")
	if err != nil || filepath.Base(path) != "abc-first.md" {
		t.Errorf("FindByID(abc) = %q, %v", path, err)
	}

	path, err = FindByID(dir, "xyz")
	if err != nil || filepath.Base(path) != "renamed.md" {
		t.Errorf("FindByID(xyz) = %q, %v", path, err)
	}

	_, err = FindByID(dir, "missing")
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.TaskNotFound {
		t.Errorf("FindByID(missing) err = %v, want TASK_NOT_FOUND", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Task {
		return &Task{ID: "t", Title: "x", Status: StatusTodo, Priority: PriorityLow}
	}

	tests := []struct {
		name   string
		mutate func(*Task)
		code   string
	}{
		{"ok", func(*Task) {}, ""},
		{"missing id", func(t *Task) { t.ID = "" }, clierr.InvalidTaskID},
		{"bad status", func(t *Task) { t.Status = "done" }, clierr.InvalidStatus},
		{"bad priority", func(t *Task) { t.Priority = "critical" }, clierr.InvalidPriority},
		{"progress too high", func(t *Task) { t.Progress = 101 }, clierr.InvalidProgress},
		{"blocker on todo", func(t *Task) { t.Blocker = "x" }, clierr.InvalidInput},
		{"blocker on blocked", func(t *Task) { t.Status = StatusBlocked; t.Blocker = "x" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := valid()
			tt.mutate(tk)
			err := Validate(tk)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var cliErr *clierr.Error
			if !errors.As(err, &cliErr) || cliErr.Code != tt.code {
				t.Fatalf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	tk := &Task{ID: "t", Status: StatusBlocked, Priority: PriorityLow, Progress: 30, Blocker: "x", Question: "y"}

	if !ApplyStatus(tk, StatusCompleted, now) {
		t.Fatal("ApplyStatus() reported no change")
	}
	if tk.Completed == nil || !tk.Completed.Equal(now) || tk.Progress != 100 {
		t.Errorf("after complete: completed=%v progress=%d", tk.Completed, tk.Progress)
	}
	if tk.Blocker != "" || tk.Question != "" {
		t.Errorf("blocker/question not cleared: %q %q", tk.Blocker, tk.Question)
	}
	if !tk.Updated.Equal(now) {
		t.Errorf("Updated = %v, want %v", tk.Updated, now)
	}

	if !ApplyStatus(tk, StatusInProgress, now.Add(time.Hour)) {
		t.Fatal("reopen reported no change")
	}
	if tk.Completed != nil {
		t.Errorf("Completed = %v after reopen, want nil", tk.Completed)
	}

	if ApplyStatus(tk, StatusInProgress, now.Add(2*time.Hour)) {
		t.Error("ApplyStatus() to the same status reported a change")
	}
}

func TestEnumRanksAndLabels(t *testing.T) {
	if StatusBlocked.Rank() != 2 || PriorityUrgent.Rank() != 0 || PriorityLow.Rank() != 3 {
		t.Error("unexpected enum ranks")
	}
	if StatusInProgress.Label() != "In Progress" || PriorityHigh.Label() != "High Priority" {
		t.Error("unexpected enum labels")
	}

	defer func() {
		if recover() == nil {
			t.Error("Label() on unknown status did not panic")
		}
	}()
	_ = Status("archived").Label()
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Ship Login Page!", "ship-login-page"},
		{"  ", "task"},
		{strings.Repeat("word ", 20), "word-word-word-word-word-word-word-word-word-word"},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.in); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if len(a) != idLength || a == b {
		t.Errorf("NewID() = %q, %q", a, b)
	}
}
