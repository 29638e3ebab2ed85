package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.WithProject) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// GroupedCompact renders groups as a heading line followed by indented task lines.
func GroupedCompact(w io.Writer, groups []board.TaskGroup) {
	for _, g := range groups {
		if len(g.Tasks) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", g.Name, len(g.Tasks))
		for _, t := range g.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(t))
		}
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t task.WithProject) {
	line := formatTaskLine(t) + " " + strconv.Itoa(t.Progress) + "%"
	fmt.Fprintln(w, line)

	// Timestamps line.
	ts := " "
	if t.Created != nil {
		ts += " created:" + t.Created.Format("2006-01-02")
	}
	ts += " updated:" + t.Updated.Format("2006-01-02")
	if t.Completed != nil {
		ts += " completed:" + t.Completed.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	if t.Blocker != "" {
		fmt.Fprintln(w, "  blocker: "+t.Blocker)
	}
	if t.Question != "" {
		fmt.Fprintln(w, "  question: "+t.Question)
	}
	if t.Description != "" {
		for _, bodyLine := range strings.Split(strings.TrimRight(t.Description, "\n"), "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// OverviewCompact renders a workspace summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.WorkspaceName, s.TotalTasks)

	for _, ss := range s.Statuses {
		line := "  " + string(ss.Status) + ": " + strconv.Itoa(ss.Count)
		if ss.Overdue > 0 {
			line += " (" + strconv.Itoa(ss.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}

	parts := make([]string, 0, len(s.Priorities))
	for _, pc := range s.Priorities {
		parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))

	parts = parts[:0]
	for _, bc := range s.Due {
		parts = append(parts, string(bc.Bucket)+"="+strconv.Itoa(bc.Count))
	}
	fmt.Fprintln(w, "Due: "+strings.Join(parts, " "))
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.WithProject) string {
	line := t.ID + " [" + string(t.Status) + "/" + string(t.Priority) + "] " + t.Title +
		" (" + t.Project.Name + ")"

	if t.Assignee != "" {
		line += " @" + t.Assignee
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
	}
	return line
}
