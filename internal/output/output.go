// Package output renders tasks, sections and overviews as tables, compact
// lines or JSON.
package output

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// EnvOutput names the environment variable that selects the default format.
const EnvOutput = "TASKLENS_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatTable is the human-readable default.
	FormatTable Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatCompact prints one line per task or section.
	FormatCompact
)

// ParseFormat maps a format name to a Format. Names are case-insensitive and
// "oneline" is accepted for compact.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "table":
		return FormatTable, true
	case "json":
		return FormatJSON, true
	case "compact", "oneline":
		return FormatCompact, true
	}
	return FormatTable, false
}

// Detect picks the format from the global flags, then TASKLENS_OUTPUT, then
// falls back to a table. JSON wins over compact, compact over table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}

	env := os.Getenv(EnvOutput)
	if env == "" {
		return FormatTable
	}
	f, ok := ParseFormat(env)
	if !ok {
		log.WithField("value", env).Warnf("ignoring unknown %s", EnvOutput)
	}
	return f
}
