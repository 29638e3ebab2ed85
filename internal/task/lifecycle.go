package task

import "time"

const progressDone = 100

// ApplyStatus moves t to newStatus and updates the dependent fields.
//   - Completing sets Completed and Progress=100.
//   - Leaving completed (reopening) clears Completed; progress is kept.
//   - Leaving blocked clears the blocker and the open question.
//
// Updated is always set to now. It reports whether the status changed.
func ApplyStatus(t *Task, newStatus Status, now time.Time) bool {
	oldStatus := t.Status
	if oldStatus == newStatus {
		return false
	}

	t.Status = newStatus
	t.Updated = now

	switch {
	case newStatus == StatusCompleted:
		t.Completed = &now
		t.Progress = progressDone
	case oldStatus == StatusCompleted:
		t.Completed = nil
	}

	if oldStatus == StatusBlocked {
		t.Blocker = ""
		t.Question = ""
	}
	return true
}
