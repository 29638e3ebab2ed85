// Package tui implements the interactive sectioned task list.
package tui

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewDetail
	viewConfirmDelete
)

const (
	keyEsc = "esc"

	listChrome   = 3                // blank line + status bar + help line below the list
	errorChrome  = 1                // extra line when an error is displayed
	tickInterval = 30 * time.Second // how often the day boundary is checked
)

// Board is the top-level bubbletea model: the filtered tasks of a workspace
// as sections of the active grouping dimension.
type Board struct {
	cfg   *config.Config
	cache *board.GroupCache
	keys  keyMap
	help  help.Model

	all    []task.WithProject
	groups []board.TaskGroup
	items  []task.WithProject // selectable rows, in display order

	filter  board.TasksFilter
	dim     board.Dimension
	sortKey board.SortKey
	dir     board.Direction

	cursor int
	offset int // first visible line of the list
	view   view
	width  int
	height int
	err    error
	now    func() time.Time
	day    date.Date // calendar day the current grouping was computed for

	deleteID    string
	deleteTitle string
}

// NewBoard creates a new Board model from a config. Grouping and sort order
// start from the config's view settings.
func NewBoard(cfg *config.Config) *Board {
	b := &Board{
		cfg:     cfg,
		keys:    newKeyMap(),
		help:    help.New(),
		dim:     cfg.GroupBy(),
		sortKey: cfg.SortKey(),
		dir:     cfg.Direction(),
		now:     time.Now,
	}
	b.cache = board.NewGroupCache(func() time.Time { return b.now() })
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for due-date grouping (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
	b.cache.Invalidate()
	b.regroup()
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reloadConfig()
		b.loadTasks()
		return b, nil
	case TickMsg:
		if today := date.Of(b.now()); !today.Equal(b.day.Time) {
			log.WithField("day", today.String()).Debug("day changed, regrouping")
			b.cache.Invalidate()
			b.regroup()
		}
		return b, tickCmd()
	case ErrMsg:
		b.err = msg.Err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	default:
		return b.viewList()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}

	switch b.view {
	case viewDetail:
		switch msg.String() {
		case "q", keyEsc, "enter":
			b.view = viewList
		}
		return b, nil
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	default:
		return b.handleListKey(msg)
	}
}

func (b *Board) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.quit), msg.String() == keyEsc:
		return b, tea.Quit
	case key.Matches(msg, b.keys.down):
		if b.cursor < len(b.items)-1 {
			b.cursor++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.up):
		if b.cursor > 0 {
			b.cursor--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.group):
		b.dim = next(board.Dimensions, b.dim)
		b.regroup()
	case key.Matches(msg, b.keys.sort):
		b.sortKey = next(board.SortKeys, b.sortKey)
		b.regroup()
	case key.Matches(msg, b.keys.reverse):
		b.dir = b.dir.Reverse()
		b.regroup()
	case key.Matches(msg, b.keys.overdue):
		b.filter = b.filter.WithOverdueOnly(!b.filter.OverdueOnly)
		b.regroup()
	case key.Matches(msg, b.keys.mine):
		if b.cfg.Me == "" && !b.filter.MyTasksOnly {
			b.err = errors.New("set your identity first: tasklens config set me <name>")
			return b, nil
		}
		b.filter = b.filter.WithMyTasksOnly(!b.filter.MyTasksOnly)
		b.regroup()
	case key.Matches(msg, b.keys.open):
		if b.selectedTask() != nil {
			b.view = viewDetail
		}
	case key.Matches(msg, b.keys.del):
		if t := b.selectedTask(); t != nil {
			b.deleteID = t.ID
			b.deleteTitle = t.Title
			b.view = viewConfirmDelete
		}
	case key.Matches(msg, b.keys.help):
		b.help.ShowAll = !b.help.ShowAll
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return b.executeDelete()
	case "n", "N", keyEsc, "q":
		b.view = viewList
	}
	return b, nil
}

func (b *Board) executeDelete() (tea.Model, tea.Cmd) {
	b.view = viewList

	path, err := task.FindByID(b.cfg.TasksPath(), b.deleteID)
	if err != nil {
		b.err = fmt.Errorf("finding task %s: %w", b.deleteID, err)
		return b, nil
	}
	err = filelock.With(b.cfg.LockPath(), func() error {
		return os.Remove(path)
	})
	if err != nil {
		b.err = fmt.Errorf("deleting task %s: %w", b.deleteID, err)
		return b, nil
	}
	board.LogMutation(b.cfg.Dir(), "delete", b.deleteID, b.deleteTitle)

	b.loadTasks()
	return b, nil
}

// loadTasks reads all tasks from disk and regroups them.
func (b *Board) loadTasks() {
	tasks, warnings, err := task.ReadAllLenient(b.cfg.TasksPath())
	if err != nil {
		b.err = err
		return
	}
	for _, w := range warnings {
		log.WithField("file", w.File).WithError(w.Err).Warn("skipping task file")
	}
	b.err = nil
	b.all = board.Join(tasks, b.cfg.Projects)
	b.regroup()
}

// reloadConfig picks up edits to config.yml. A broken config keeps the
// previous one in effect.
func (b *Board) reloadConfig() {
	cfg, err := config.Load(b.cfg.Dir())
	if err != nil {
		log.WithError(err).Warn("config reload failed, keeping previous config")
		return
	}
	// Project names are joined into the cached groups but not fingerprinted.
	if !slices.Equal(b.cfg.Projects, cfg.Projects) {
		b.cache.Invalidate()
	}
	b.cfg = cfg
}

// regroup runs the filter, sort and grouping pipeline over the loaded tasks.
// Tasks are sorted before grouping so every section is in sort order.
func (b *Board) regroup() {
	now := b.now()
	b.day = date.Of(now)

	visible := board.Filter(b.all, b.filter, b.cfg.Me, now)
	visible = board.Sort(visible, b.sortKey, b.dir)
	b.groups = b.cache.Group(visible, b.dim)

	b.items = b.items[:0]
	for _, g := range b.groups {
		b.items = append(b.items, g.Tasks...)
	}
	b.clampCursor()
}

func (b *Board) selectedTask() *task.WithProject {
	if b.cursor >= 0 && b.cursor < len(b.items) {
		return &b.items[b.cursor]
	}
	return nil
}

func (b *Board) clampCursor() {
	if b.cursor >= len(b.items) {
		b.cursor = len(b.items) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by elements below the
// list: blank line + status bar + help (+ error line, + expanded help rows).
func (b *Board) chromeHeight() int {
	h := listChrome
	if b.err != nil {
		h += errorChrome
	}
	if b.help.ShowAll {
		h += len(b.keys.FullHelp()[0]) - 1
	}
	return h
}

// ensureVisible scrolls so the cursor line is inside the window.
func (b *Board) ensureVisible() {
	if b.height == 0 {
		return
	}
	_, cursorLine := b.listLines()
	avail := max(1, b.height-b.chromeHeight())
	if cursorLine < b.offset {
		b.offset = cursorLine
	}
	if cursorLine >= b.offset+avail {
		b.offset = cursorLine - avail + 1
	}
	// Keep the section header of the first task visible when scrolled to the top.
	if b.cursor == 0 {
		b.offset = 0
	}
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	paths := []string{b.cfg.TasksPath()}
	if b.cfg.Dir() != b.cfg.TasksPath() {
		paths = append(paths, b.cfg.Dir())
	}
	return paths
}

// next returns the element after cur in values, wrapping around.
func next[T comparable](values []T, cur T) T {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a reload from disk.
type ReloadMsg struct{}

// ErrMsg reports a background failure (such as a watcher error) in the status bar.
type ErrMsg struct{ Err error }

// TickMsg is sent periodically so due-date sections follow the calendar.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
