package task

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	maxSlugLength = 50
	idLength      = 8
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// NewID returns a short random task ID (the first block of a v4 UUID).
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}

// GenerateSlug converts a title to a URL-friendly slug.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}

	if slug == "" {
		slug = "task"
	}
	return slug
}

// GenerateFilename creates a task filename from an ID and slug.
func GenerateFilename(id, slug string) string {
	return id + "-" + slug + ".md"
}
