package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

const (
	timeLayout    = "2006-01-02 15:04"
	maxTitleWidth = 48
	markdownWidth = 80
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	groupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))

	// Status colors aligned with the TUI section palette.
	statusStyles = map[string]lipgloss.Style{
		string(task.StatusTodo):       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(task.StatusInProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(task.StatusBlocked):    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		string(task.StatusCompleted):  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(task.StatusCancelled):  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	// Priority colors matching the TUI priority palette.
	priorityStyles = map[string]lipgloss.Style{
		string(task.PriorityUrgent): lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(task.PriorityHigh):   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		string(task.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(task.PriorityLow):    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	projectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	plainMarkdown bool
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	groupStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	overdueStyle = lipgloss.NewStyle()
	projectStyle = lipgloss.NewStyle()
	plainMarkdown = true
}

// TaskTable renders a list of tasks as a formatted table. now decides which
// due dates are highlighted as overdue.
func TaskTable(w io.Writer, tasks []task.WithProject, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	taskRows(w, "", tasks, now)
}

// GroupedTasks renders groups as titled sections of task rows.
func GroupedTasks(w io.Writer, groups []board.TaskGroup, now time.Time) {
	total := 0
	for _, g := range groups {
		total += len(g.Tasks)
	}
	if total == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d)", g.Name, len(g.Tasks))
		fmt.Fprintln(w, groupStyle.Render(title))
		taskRows(w, "  ", g.Tasks, now)
	}
}

func taskRows(w io.Writer, indent string, tasks []task.WithProject, now time.Time) {
	// Calculate column widths.
	const pad = 2
	idW, statusW, prioW, titleW, projW, assigneeW, dueW := 4, 8, 10, 5, 9, 10, 12
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, maxTitleWidth+pad))
		projW = max(projW, len(t.Project.Name)+pad)
		assigneeW = max(assigneeW, len(t.Assignee)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY", titleW, "TITLE",
		projW, "PROJECT", assigneeW, "ASSIGNEE", dueW, "DUE", "PROGRESS")
	fmt.Fprintln(w, indent+headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*s %s %s %s %s %s %s %s",
			idW, t.ID,
			padRight(styledValue(string(t.Status), statusStyles), statusW),
			padRight(styledValue(string(t.Priority), priorityStyles), prioW),
			padRight(truncate(t.Title, maxTitleWidth), titleW),
			padRight(projectStyle.Render(t.Project.Name), projW),
			padRight(stringOrDash(t.Assignee), assigneeW),
			padRight(dueDisplay(t.Task, now), dueW),
			strconv.Itoa(t.Progress)+"%")
		fmt.Fprintln(w, indent+strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown.
func TaskDetail(w io.Writer, t task.WithProject, now time.Time) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Project", projectStyle.Render(t.Project.Name))
	printField(w, "Status", styledValue(string(t.Status), statusStyles))
	printField(w, "Priority", styledValue(string(t.Priority), priorityStyles))
	printField(w, "Assignee", stringOrDash(t.Assignee))
	printField(w, "Due", dueDisplay(t.Task, now))
	printField(w, "Progress", strconv.Itoa(t.Progress)+"%")
	if t.Blocker != "" {
		printField(w, "Blocker", t.Blocker)
	}
	if t.Question != "" {
		printField(w, "Question", t.Question)
	}
	if t.Created != nil {
		printField(w, "Created", t.Created.Format(timeLayout))
	}
	printField(w, "Updated", t.Updated.Format(timeLayout))
	if t.Completed != nil {
		printField(w, "Completed", t.Completed.Format(timeLayout))
		if t.Created != nil {
			printField(w, "Lead time", FormatDuration(t.Completed.Sub(*t.Created)))
		}
	}
	if t.AIGenerated {
		ai := "yes"
		if t.AIConfidence != nil {
			ai += fmt.Sprintf(" (confidence %.0f%%)", *t.AIConfidence*100) //nolint:mnd // percent
		}
		printField(w, "AI generated", ai)
	}

	if strings.TrimSpace(t.Description) != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(RenderMarkdown(t.Description), "\n"))
	}
}

// RenderMarkdown renders markdown for the terminal. Falls back to the raw
// text when colour is disabled or rendering fails.
func RenderMarkdown(md string) string {
	if plainMarkdown {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// OverviewTable renders a workspace summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.WorkspaceName))
	fmt.Fprintf(w, "Total: %d tasks, %s\n\n", s.TotalTasks, overdueCount(s.Overdue))

	const colW = 16
	header := fmt.Sprintf("%-*s %6s %8s", colW, "STATUS", "COUNT", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ss := range s.Statuses {
		fmt.Fprintf(w, "%s %6d %8d\n",
			padRight(styledValue(string(ss.Status), statusStyles), colW), ss.Count, ss.Overdue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(string(pc.Priority), priorityStyles), colW), pc.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "DUE", "OPEN")))
	for _, bc := range s.Due {
		label := bc.Label
		if bc.Bucket == board.BucketOverdue && bc.Count > 0 {
			label = overdueStyle.Render(label)
		}
		fmt.Fprintf(w, "%s %6d\n", padRight(label, colW), bc.Count)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-13s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// dueDisplay renders the due date, highlighted when the task is overdue.
func dueDisplay(t *task.Task, now time.Time) string {
	if t.Due == nil {
		return dimStyle.Render("--")
	}
	if board.IsOverdue(t, now) {
		return overdueStyle.Render(t.Due.String())
	}
	return t.Due.String()
}

func overdueCount(n int) string {
	s := strconv.Itoa(n) + " overdue"
	if n > 0 {
		return overdueStyle.Render(s)
	}
	return s
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
