package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task file with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
Description can be provided via --description or --body.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().StringP("project", "p", "", "project id (default from config)")
	createCmd.Flags().String("status", "", "task status (default from config)")
	createCmd.Flags().String("priority", "", "task priority (default from config)")
	createCmd.Flags().String("assignee", "", "task assignee")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().Int("progress", 0, "progress percentage (0-100)")
	createCmd.Flags().String("blocker", "", "what the task is waiting on (blocked tasks only)")
	createCmd.Flags().String("body", "", "task description (markdown)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "description" {
			name = "body"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	now := time.Now()
	t := &task.Task{
		ID:        task.NewID(),
		ProjectID: cfg.Defaults.Project,
		Title:     title,
		Status:    task.Status(cfg.Defaults.Status),
		Priority:  task.Priority(cfg.Defaults.Priority),
		Created:   &now,
		Updated:   now,
	}
	if err := applyCreateFlags(cmd, t, cfg, now); err != nil {
		return err
	}
	if err := task.Validate(t); err != nil {
		return err
	}

	path := filepath.Join(cfg.TasksPath(), task.GenerateFilename(t.ID, task.GenerateSlug(title)))
	t.File = path

	// Every writer of the tasks directory holds the workspace lock.
	err = filelock.With(cfg.LockPath(), func() error {
		if _, err := os.Stat(path); err == nil {
			return clierr.Newf(clierr.InternalError, "task file %s already exists", path)
		}
		if err := task.Write(path, t); err != nil {
			return fmt.Errorf("writing task: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logActivity(cfg, "create", t.ID, t.Title)

	return outputCreateResult(cfg, t, path)
}

func outputCreateResult(cfg *config.Config, t *task.Task, path string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, joinOne(cfg, t))
	}

	output.Messagef(os.Stdout, "Created task %s: %s", t.ID, t.Title)
	output.Messagef(os.Stdout, "  File: %s", path)
	output.Messagef(os.Stdout, "  Project: %s | Status: %s | Priority: %s",
		joinOne(cfg, t).Project.Name, t.Status, t.Priority)
	if t.Assignee != "" {
		output.Messagef(os.Stdout, "  Assignee: %s", t.Assignee)
	}
	if t.Due != nil {
		output.Messagef(os.Stdout, "  Due: %s", t.Due)
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		if strings.TrimSpace(args[0]) == "" {
			return "", clierr.New(clierr.InvalidInput, "title must not be empty")
		}
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", errors.New("title is required: provide it as an argument or with --title")
	}
}

func applyCreateFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config, now time.Time) error {
	if v, _ := cmd.Flags().GetString("project"); v != "" {
		if cfg.ProjectByID(v) == nil {
			return clierr.Newf(clierr.ProjectNotFound, "unknown project %q", v).
				WithDetails(map[string]any{"project": v, "allowed": cfg.ProjectIDs()})
		}
		t.ProjectID = v
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v); err != nil {
			return err
		}
		t.Priority = task.Priority(v)
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		t.Assignee = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			return task.FormatDueDate(v, err)
		}
		t.Due = &d
	}
	if cmd.Flags().Changed("progress") {
		v, _ := cmd.Flags().GetInt("progress")
		if err := task.ValidateProgress(v); err != nil {
			return err
		}
		t.Progress = v
	}
	if v, _ := cmd.Flags().GetString("body"); v != "" {
		t.Description = v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if err := task.ValidateStatus(v); err != nil {
			return err
		}
		task.ApplyStatus(t, task.Status(v), now)
	}
	// Set after the status so a blocked task keeps its blocker.
	if v, _ := cmd.Flags().GetString("blocker"); v != "" {
		t.Blocker = v
	}
	return nil
}
