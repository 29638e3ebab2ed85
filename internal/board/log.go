package board

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// LogEntry represents a single activity log entry.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id"`
	Detail    string    `json:"detail"`
}

// AppendLog appends a log entry to the activity log file in the workspace
// directory. If the log exceeds maxLogEntries, the oldest entries are dropped.
func AppendLog(workspaceDir string, entry LogEntry) error {
	path := filepath.Join(workspaceDir, logFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted workspace dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	if err := truncateLogIfNeeded(path, maxLogEntries); err != nil {
		log.WithError(err).Debug("activity log truncation failed")
	}
	return nil
}

// ReadLog returns the entries of the activity log, oldest first. A missing
// log yields no entries.
func ReadLog(workspaceDir string) ([]LogEntry, error) {
	f, err := os.Open(filepath.Join(workspaceDir, logFileName)) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parsing log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// truncateLogIfNeeded rewrites the log keeping only the newest limit lines.
func truncateLogIfNeeded(path string, limit int) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= limit {
		return nil
	}

	lines = lines[len(lines)-limit:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}

// LogMutation records a mutation in the activity log. Failures are logged at
// warning level and never fail the command.
func LogMutation(workspaceDir, action, taskID, detail string) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
	}
	if err := AppendLog(workspaceDir, entry); err != nil {
		log.WithFields(log.Fields{"action": action, "task": taskID}).WithError(err).Warn("activity log write failed")
	}
}
