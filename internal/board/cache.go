package board

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// fingerprint is the part of a task the cache compares to decide whether a
// regroup is needed. Edits that touch neither status nor the updated stamp
// are not detected.
type fingerprint struct {
	id      string
	status  task.Status
	updated time.Time
}

// GroupCache remembers the last grouping and returns it again while the
// dimension and the task fingerprints are unchanged. It holds one entry.
// Callers must not mutate the returned groups.
type GroupCache struct {
	now func() time.Time

	mu           sync.Mutex
	valid        bool
	dim          Dimension
	snapshot     []fingerprint
	groups       []TaskGroup
	computations int
}

// NewGroupCache returns an empty cache. now supplies the reference time used
// for due-date grouping; nil means time.Now.
func NewGroupCache(now func() time.Time) *GroupCache {
	if now == nil {
		now = time.Now
	}
	return &GroupCache{now: now}
}

// Group returns the grouping of tasks under dim, recomputing only on a change.
func (c *GroupCache) Group(tasks []task.WithProject, dim Dimension) []TaskGroup {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.dim == dim && c.matches(tasks) {
		log.WithFields(log.Fields{"dimension": dim, "tasks": len(tasks)}).Debug("group cache hit")
		return c.groups
	}

	c.groups = Group(tasks, dim, c.now())
	c.dim = dim
	c.snapshot = fingerprints(tasks)
	c.valid = true
	c.computations++
	log.WithFields(log.Fields{"dimension": dim, "tasks": len(tasks), "groups": len(c.groups)}).Debug("group cache miss")
	return c.groups
}

// Invalidate drops the cached grouping so the next call recomputes.
func (c *GroupCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.snapshot = nil
	c.groups = nil
}

// Computations returns how many times the cache has regrouped.
func (c *GroupCache) Computations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computations
}

func (c *GroupCache) matches(tasks []task.WithProject) bool {
	if len(tasks) != len(c.snapshot) {
		return false
	}
	for i, t := range tasks {
		fp := c.snapshot[i]
		if t.ID != fp.id || t.Status != fp.status || !t.Updated.Equal(fp.updated) {
			return false
		}
	}
	return true
}

func fingerprints(tasks []task.WithProject) []fingerprint {
	fps := make([]fingerprint, len(tasks))
	for i, t := range tasks {
		fps[i] = fingerprint{id: t.ID, status: t.Status, updated: t.Updated}
	}
	return fps
}
