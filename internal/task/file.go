package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const (
	fileMode      = 0o600
	frontmatterHR = "---"
)

// Read parses a task file and returns the Task with its description populated.
func Read(path string) (*Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // task path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	t.Description = body
	t.File = path

	return &t, nil
}

// Write serializes a task to a markdown file with YAML frontmatter. The file
// is written to a temporary sibling first and renamed into place so that a
// concurrent reader never sees a half-written task.
func Write(path string, t *Task) error {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterHR + "\n")
	buf.Write(fm)
	buf.WriteString(frontmatterHR + "\n")
	if desc := strings.TrimRight(t.Description, "\n"); desc != "" {
		buf.WriteString("\n")
		buf.WriteString(desc)
		buf.WriteString("\n")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".task-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing task file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting task file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing task file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
// The file must start with "---\n".
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(content, frontmatterHR+"\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	rest := content[len(frontmatterHR)+1:]
	closing := "\n" + frontmatterHR + "\n"
	idx := strings.Index(rest, closing)
	switch {
	case idx >= 0:
	case strings.HasSuffix(rest, "\n"+frontmatterHR):
		idx = len(rest) - len(frontmatterHR) - 1
	default:
		return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
	}

	fm := rest[:idx]
	body := ""
	if end := idx + len(closing); end < len(rest) {
		body = strings.TrimLeft(rest[end:], "\n")
	}

	return []byte(fm), body, nil
}
