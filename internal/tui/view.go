package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	statusMarks = map[task.Status]string{
		task.StatusTodo:       "[ ]",
		task.StatusInProgress: "[~]",
		task.StatusBlocked:    "[!]",
		task.StatusCompleted:  "[x]",
		task.StatusCancelled:  "[-]",
	}

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

func (b *Board) viewList() string {
	lines, _ := b.listLines()
	avail := max(1, b.height-b.chromeHeight())

	start := min(b.offset, max(0, len(lines)-1))
	end := min(len(lines), start+avail)

	var sb strings.Builder
	for _, l := range lines[start:end] {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	// Pad so the status bar stays at the bottom.
	for i := end - start; i < avail; i++ {
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(b.renderStatusBar())
	return sb.String()
}

// listLines renders every section header and task row, returning the lines
// and the index of the line holding the cursor.
func (b *Board) listLines() (lines []string, cursorLine int) {
	if len(b.items) == 0 {
		return []string{dimStyle.Render("  No tasks match the current filter.")}, 0
	}

	item := 0
	for _, g := range b.groups {
		if len(g.Tasks) == 0 {
			continue
		}
		header := fmt.Sprintf("%s (%d)", g.Name, len(g.Tasks))
		lines = append(lines, sectionStyle.Render(header))
		for _, t := range g.Tasks {
			active := item == b.cursor
			if active {
				cursorLine = len(lines)
			}
			lines = append(lines, b.renderRow(t, active))
			item++
		}
	}
	return lines, cursorLine
}

func (b *Board) renderRow(t task.WithProject, active bool) string {
	prefix := "  "
	if active {
		prefix = cursorStyle.Render("> ")
	}

	prio := string(t.Priority)
	if st, ok := priorityStyles[t.Priority]; ok {
		prio = st.Render(prio)
	}

	var meta []string
	if b.dim != board.DimensionProject {
		meta = append(meta, t.Project.Name)
	}
	if t.Assignee != "" && b.dim != board.DimensionAssignee {
		meta = append(meta, "@"+t.Assignee)
	}
	if t.Due != nil {
		due := "due " + t.Due.String()
		if board.IsOverdue(t.Task, b.now()) {
			due = overdueStyle.Render(due)
		}
		meta = append(meta, due)
	}

	row := fmt.Sprintf("%s %s %s", statusMarks[t.Status], t.Title, prio)
	if len(meta) > 0 {
		row += "  " + dimStyle.Render(strings.Join(meta, " · "))
	}
	if b.width > 0 {
		row = lipgloss.NewStyle().MaxWidth(b.width - lipgloss.Width(prefix)).Render(row)
	}
	if active {
		row = cursorStyle.Render(row)
	}
	return prefix + row
}

func (b *Board) renderStatusBar() string {
	var flags []string
	if b.filter.OverdueOnly {
		flags = append(flags, "overdue")
	}
	if b.filter.MyTasksOnly {
		flags = append(flags, "mine:"+b.cfg.Me)
	}
	filters := "all"
	if len(flags) > 0 {
		filters = strings.Join(flags, ",")
	}

	status := fmt.Sprintf(" %s | %d tasks | group:%s sort:%s %s | filter:%s",
		b.cfg.Workspace.Name, len(b.items), b.dim, b.sortKey, b.dir, filters)
	status = truncate(status, b.width)

	bar := statusBarStyle.Render(status) + "\n" + b.help.View(b.keys)
	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + bar
	}
	return bar
}

func (b *Board) viewDetail() string {
	t := b.selectedTask()
	if t == nil {
		return b.viewList()
	}
	var sb strings.Builder
	output.TaskDetail(&sb, *t, b.now())
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("enter/esc: back"))
	return sb.String()
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", b.deleteID, b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	// Trim runes from the end until the display width fits.
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
