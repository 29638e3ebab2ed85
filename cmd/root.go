// Package cmd implements the tasklens CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// envDebug enables debug logging when set to a true value.
const envDebug = "TASKLENS_DEBUG"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tasklens",
	Short: "Group, sort and filter project tasks from the terminal",
	Long: `tasklens keeps tasks as markdown files and shows them grouped by status,
priority, due date, project or assignee.
Run tasklens without a subcommand to open the interactive view.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the tasklens workspace directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug details to stderr")
}

// setupLogging routes diagnostics to stderr so stdout stays parseable.
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if dbg, err := strconv.ParseBool(os.Getenv(envDebug)); (err == nil && dbg) || flagVerbose {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		os.Exit(output.JSONError(os.Stdout, err))
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the workspace directory: --dir when given, otherwise the
// nearest workspace above the current directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the workspace config.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.Wrap(clierr.WorkspaceNotFound, err).
			WithDetails(map[string]any{"dir": dir})
	}
	return cfg, err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes task read warnings to stderr.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %v\n", w.File, w.Err)
	}
}

// logActivity appends an entry to the activity log. Failures are logged and
// never fail a command.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	board.LogMutation(cfg.Dir(), action, taskID, detail)
}

// findTask locates and reads the task with the given ID.
func findTask(cfg *config.Config, id string) (string, *task.Task, error) {
	path, err := task.FindByID(cfg.TasksPath(), id)
	if err != nil {
		return "", nil, err
	}
	t, err := task.Read(path)
	if err != nil {
		return "", nil, err
	}
	return path, t, nil
}

// joinOne pairs a single task with its configured project.
func joinOne(cfg *config.Config, t *task.Task) task.WithProject {
	return board.Join([]*task.Task{t}, cfg.Projects)[0]
}
