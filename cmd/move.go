package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID STATUS",
	Short: "Move a task to a different status",
	Long: `Changes the status of a task. Completing a task records the completion
time and sets progress to 100; reopening it clears the completion time.
Leaving blocked clears the blocker and open question.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id and status
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	task.WithProject
	Changed bool `json:"changed"`
}

func runMove(_ *cobra.Command, args []string) error {
	id, status := args[0], args[1]
	if err := task.ValidateStatus(status); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		t         *task.Task
		oldStatus task.Status
		changed   bool
	)
	err = filelock.With(cfg.LockPath(), func() error {
		var err error
		t, oldStatus, changed, err = executeMove(cfg, id, task.Status(status))
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{WithProject: joinOne(cfg, t), Changed: changed})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task %s is already %s", t.ID, t.Status)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task %s: %s -> %s", t.ID, oldStatus, t.Status)
	return nil
}

// executeMove reads, transitions and writes the task. Moving to the current
// status succeeds without writing.
func executeMove(cfg *config.Config, id string, status task.Status) (*task.Task, task.Status, bool, error) {
	path, t, err := findTask(cfg, id)
	if err != nil {
		return nil, "", false, err
	}

	oldStatus := t.Status
	if !task.ApplyStatus(t, status, time.Now()) {
		return t, oldStatus, false, nil
	}

	if err := task.Write(path, t); err != nil {
		return nil, "", false, fmt.Errorf("writing task: %w", err)
	}

	logActivity(cfg, "move", t.ID, string(oldStatus)+" -> "+string(status))
	return t, oldStatus, true, nil
}
