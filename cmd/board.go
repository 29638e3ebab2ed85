package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
	"github.com/twiced-technology-gmbh/tasklens/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show workspace overview",
	Long: `Displays a summary of the workspace: task counts per status and priority,
overdue counts, and open tasks per due-date bucket.

With --group-by the tasks are shown as sections of that dimension instead.

Use --watch to keep the display live-updating. The board re-renders automatically
whenever task files change on disk. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
	boardCmd.Flags().String("group-by", "", "show sections by dimension ("+joinValues(board.Dimensions)+")")
}

// boardRenderer draws the board and keeps the grouping cache between redraws.
// Watcher callbacks may overlap, so renders are serialized.
type boardRenderer struct {
	dim   board.Dimension
	cache *board.GroupCache

	// stream writes JSON as one line per render.
	stream bool

	mu       sync.Mutex
	day      date.Date
	projects []task.Project
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dim, err := groupByFromFlags(cmd, board.DimensionNone)
	if err != nil {
		return err
	}

	r := &boardRenderer{dim: dim, cache: board.NewGroupCache(nil), stream: flagWatch}
	if err := r.render(cfg); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}
	return r.watch(cfg)
}

func (r *boardRenderer) render(cfg *config.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.syncCache(cfg, now)

	all, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(warnings)
	tasks := board.Join(all, cfg.Projects)

	if r.dim != board.DimensionNone {
		sorted := board.Sort(tasks, cfg.SortKey(), cfg.Direction())
		groups := r.cache.Group(sorted, r.dim)
		if r.stream && outputFormat() == output.FormatJSON {
			return output.JSONLine(os.Stdout, groups)
		}
		return outputGroups(groups, now)
	}

	summary := board.Summary(cfg.Workspace.Name, tasks, now)
	switch outputFormat() {
	case output.FormatJSON:
		if r.stream {
			return output.JSONLine(os.Stdout, summary)
		}
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

// syncCache drops the cached grouping when the calendar day or the project
// table changed since the last render. Neither is part of the cache key.
func (r *boardRenderer) syncCache(cfg *config.Config, now time.Time) {
	today := date.Of(now)
	if !today.Equal(r.day.Time) || !slices.Equal(r.projects, cfg.Projects) {
		r.cache.Invalidate()
	}
	r.day = today
	r.projects = slices.Clone(cfg.Projects)
}

func (r *boardRenderer) watch(cfg *config.Config) error {
	watchPaths := []string{cfg.TasksPath()}
	if cfg.Dir() != cfg.TasksPath() {
		watchPaths = append(watchPaths, cfg.Dir())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watchPaths, func() {
		if outputFormat() != output.FormatJSON {
			clearScreen()
		}
		// Re-load config in case projects or view settings changed.
		freshCfg, loadErr := config.Load(cfg.Dir())
		if loadErr != nil {
			log.WithError(loadErr).Warn("reloading config, keeping previous one")
			freshCfg = cfg
		}
		if renderErr := r.render(freshCfg); renderErr != nil {
			log.WithError(renderErr).Warn("rendering board")
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		log.WithError(watchErr).Warn("file watcher")
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
