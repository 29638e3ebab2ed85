package task

import (
	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
)

// Validate checks the invariants of a task read from disk or built from flags.
func Validate(t *Task) error {
	if t.ID == "" {
		return clierr.New(clierr.InvalidTaskID, "task id is required")
	}
	if err := ValidateStatus(string(t.Status)); err != nil {
		return err
	}
	if err := ValidatePriority(string(t.Priority)); err != nil {
		return err
	}
	if err := ValidateProgress(t.Progress); err != nil {
		return err
	}
	if t.Status != StatusBlocked && (t.Blocker != "" || t.Question != "") {
		return clierr.Newf(clierr.InvalidInput,
			"task %s: blocker and question are only allowed on blocked tasks", t.ID).
			WithDetails(map[string]any{"id": t.ID, "status": t.Status})
	}
	return nil
}

// ValidateStatus checks that a status is one of the known values.
func ValidateStatus(status string) error {
	if Status(status).Valid() {
		return nil
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": Statuses,
		})
}

// ValidatePriority checks that a priority is one of the known values.
func ValidatePriority(priority string) error {
	if Priority(priority).Valid() {
		return nil
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  Priorities,
		})
}

// ValidateProgress checks that progress is a percentage.
func ValidateProgress(progress int) error {
	if progress >= 0 && progress <= progressDone {
		return nil
	}
	return clierr.Newf(clierr.InvalidProgress, "progress %d out of range 0-100", progress).
		WithDetails(map[string]any{"progress": progress})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// FormatDueDate returns a CLIError for invalid due date input.
func FormatDueDate(input string, err error) *clierr.Error {
	return ValidateDate("due", input, err)
}
