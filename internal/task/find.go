package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
)

// FindByID locates the file of the task with the given ID. Files named
// "<id>-<slug>.md" are checked first; otherwise every task file is parsed
// and matched on its frontmatter id.
func FindByID(tasksDir, id string) (string, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return "", fmt.Errorf("reading tasks directory: %w", err)
	}

	prefix := id + "-"
	for _, entry := range entries {
		name := entry.Name()
		if !isTaskFile(entry) || !strings.HasPrefix(name, prefix) {
			continue
		}
		path := filepath.Join(tasksDir, name)
		if t, err := Read(path); err == nil && t.ID == id {
			return path, nil
		}
	}

	tasks, _, err := ReadAllLenient(tasksDir)
	if err != nil {
		return "", err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t.File, nil
		}
	}

	return "", clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// ReadAll reads all task files from the given directory. The first malformed
// or invalid file aborts the read.
func ReadAll(tasksDir string) ([]*Task, error) {
	tasks, warnings, err := ReadAllLenient(tasksDir)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		w := warnings[0]
		return nil, fmt.Errorf("reading %s: %w", w.File, w.Err)
	}
	return tasks, nil
}

// ReadWarning describes a file that could not be used during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all task files, skipping malformed or invalid files
// instead of aborting. Successfully parsed tasks are returned in filename
// order along with warnings for files that were skipped.
func ReadAllLenient(tasksDir string) ([]*Task, []ReadWarning, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	var warnings []ReadWarning
	for _, entry := range entries {
		if !isTaskFile(entry) {
			continue
		}

		path := filepath.Join(tasksDir, entry.Name())
		t, readErr := Read(path)
		if readErr == nil {
			readErr = Validate(t)
		}
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		tasks = append(tasks, t)
	}

	return tasks, warnings, nil
}

func isTaskFile(entry os.DirEntry) bool {
	name := entry.Name()
	return !entry.IsDir() && filepath.Ext(name) == ".md" && !strings.HasPrefix(name, ".")
}
