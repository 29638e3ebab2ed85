package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
Use "tasklens move" to change the status.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("project", "", "move the task to another project")
	editCmd.Flags().String("priority", "", "new priority")
	editCmd.Flags().String("assignee", "", "new assignee")
	editCmd.Flags().Bool("clear-assignee", false, "unassign the task")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-due", false, "clear due date")
	editCmd.Flags().Int("progress", 0, "progress percentage (0-100)")
	editCmd.Flags().String("body", "", "new description (replaces the whole text)")
	editCmd.Flags().StringP("append-body", "a", "", "append text to the description")
	editCmd.Flags().BoolP("timestamp", "t", false, "prefix a timestamp line when appending")
	editCmd.Flags().String("blocker", "", "what the task is waiting on (blocked tasks only)")
	editCmd.Flags().String("question", "", "open question for a blocked task")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var t *task.Task
	err = filelock.With(cfg.LockPath(), func() error {
		var err error
		t, err = executeEdit(cfg, args[0], cmd)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, joinOne(cfg, t))
	}
	output.Messagef(os.Stdout, "Updated task %s: %s", t.ID, t.Title)
	return nil
}

// executeEdit performs the core edit: find, read, apply, validate, write, log.
func executeEdit(cfg *config.Config, id string, cmd *cobra.Command) (*task.Task, error) {
	path, t, err := findTask(cfg, id)
	if err != nil {
		return nil, err
	}

	oldTitle := t.Title
	changed, err := applyEditFlags(cmd, t, cfg)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, clierr.New(clierr.NoChanges, "no changes specified")
	}
	if err := task.Validate(t); err != nil {
		return nil, err
	}

	t.Updated = time.Now()

	newPath, err := writeAndRename(path, t, oldTitle)
	if err != nil {
		return nil, err
	}
	t.File = newPath

	logActivity(cfg, "edit", t.ID, t.Title)
	return t, nil
}

// writeAndRename writes the task and renames the file if the title changed.
func writeAndRename(path string, t *task.Task, oldTitle string) (string, error) {
	newPath := path
	if t.Title != oldTitle {
		filename := task.GenerateFilename(t.ID, task.GenerateSlug(t.Title))
		newPath = filepath.Join(filepath.Dir(path), filename)
	}

	if err := task.Write(newPath, t); err != nil {
		return "", fmt.Errorf("writing task: %w", err)
	}

	if newPath != path {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("removing old file: %w", err)
		}
	}
	return newPath, nil
}

func applyEditFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config) (bool, error) {
	changed, err := applyFieldFlags(cmd, t, cfg)
	if err != nil {
		return false, err
	}
	c, err := applyClearableFlags(cmd, t)
	if err != nil {
		return false, err
	}
	changed = changed || c
	c, err = applyBodyFlags(cmd, t)
	if err != nil {
		return false, err
	}
	return changed || c, nil
}

func applyFieldFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config) (bool, error) {
	changed := false

	if v, _ := cmd.Flags().GetString("title"); v != "" {
		t.Title = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("project"); v != "" {
		if cfg.ProjectByID(v) == nil {
			return false, clierr.Newf(clierr.ProjectNotFound, "unknown project %q", v).
				WithDetails(map[string]any{"project": v, "allowed": cfg.ProjectIDs()})
		}
		t.ProjectID = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v); err != nil {
			return false, err
		}
		t.Priority = task.Priority(v)
		changed = true
	}
	if cmd.Flags().Changed("progress") {
		v, _ := cmd.Flags().GetInt("progress")
		if err := task.ValidateProgress(v); err != nil {
			return false, err
		}
		t.Progress = v
		changed = true
	}
	if cmd.Flags().Changed("blocker") {
		t.Blocker, _ = cmd.Flags().GetString("blocker")
		changed = true
	}
	if cmd.Flags().Changed("question") {
		t.Question, _ = cmd.Flags().GetString("question")
		changed = true
	}
	return changed, nil
}

func applyClearableFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	changed := false

	assignee, _ := cmd.Flags().GetString("assignee")
	clearAssignee, _ := cmd.Flags().GetBool("clear-assignee")
	if assignee != "" && clearAssignee {
		return false, clierr.New(clierr.InvalidInput, "cannot use --assignee and --clear-assignee together")
	}
	if assignee != "" {
		t.Assignee = assignee
		changed = true
	}
	if clearAssignee {
		t.Assignee = ""
		changed = true
	}

	due, _ := cmd.Flags().GetString("due")
	clearDue, _ := cmd.Flags().GetBool("clear-due")
	if due != "" && clearDue {
		return false, clierr.New(clierr.InvalidInput, "cannot use --due and --clear-due together")
	}
	if due != "" {
		d, err := date.Parse(due)
		if err != nil {
			return false, task.FormatDueDate(due, err)
		}
		t.Due = &d
		changed = true
	}
	if clearDue {
		t.Due = nil
		changed = true
	}
	return changed, nil
}

func applyBodyFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	bodySet := cmd.Flags().Changed("body")
	appendSet := cmd.Flags().Changed("append-body")
	switch {
	case bodySet && appendSet:
		return false, clierr.New(clierr.InvalidInput, "cannot use --body and --append-body together")
	case bodySet:
		t.Description, _ = cmd.Flags().GetString("body")
		return true, nil
	case appendSet:
		v, _ := cmd.Flags().GetString("append-body")
		ts, _ := cmd.Flags().GetBool("timestamp")
		t.Description = appendBody(t.Description, v, ts, time.Now())
		return true, nil
	}
	return false, nil
}

// appendBody appends text to the existing description, optionally prefixed
// with a timestamp line.
func appendBody(existing, text string, addTimestamp bool, now time.Time) string {
	var b strings.Builder

	if existing != "" {
		b.WriteString(strings.TrimRight(existing, "\n"))
		b.WriteString("\n\n")
	}
	if addTimestamp {
		b.WriteString(now.Format("[2006-01-02 Mon 15:04]"))
		b.WriteByte('\n')
	}
	b.WriteString(text)

	return b.String()
}
