package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/tui"
	"github.com/twiced-technology-gmbh/tasklens/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task view",
	Long: `Opens the sectioned task list. The view reloads when task files or
config.yml change on disk. Press ? for the key bindings.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closeLog, err := redirectLogging(cfg.Dir())
	if err != nil {
		return err
	}
	defer closeLog()

	model := tui.NewBoard(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		// The view still works without live refresh.
		log.WithError(err).Warn("file watcher unavailable, live reload disabled")
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		p.Send(tui.ErrMsg{Err: err})
	})
}

// redirectLogging keeps log lines off the alternate screen. Debug logs go to
// debug.log in the workspace; otherwise logging is discarded.
func redirectLogging(dir string) (func(), error) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // trusted workspace dir
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
