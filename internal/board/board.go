// Package board provides the filter, sort and grouping pipeline over task collections.
package board

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

const noProjectName = "No Project"

// Join pairs every task with its project. Tasks referencing a project that is
// not configured get a project named after its ID.
func Join(tasks []*task.Task, projects []task.Project) []task.WithProject {
	byID := make(map[string]task.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	joined := make([]task.WithProject, 0, len(tasks))
	for _, t := range tasks {
		p, ok := byID[t.ProjectID]
		if !ok {
			p = task.Project{ID: t.ProjectID, Name: t.ProjectID}
			if t.ProjectID == "" {
				p.Name = noProjectName
			}
		}
		joined = append(joined, task.WithProject{Task: t, Project: p})
	}
	return joined
}

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter    TasksFilter
	Me        string
	SortBy    SortKey
	Direction Direction
	Limit     int
	Now       time.Time
}

// List loads all tasks, joins their projects, then applies filters, sorting
// and the limit. Uses lenient parsing: malformed task files are skipped and
// returned as warnings.
func List(tasksDir string, projects []task.Project, opts ListOptions) ([]task.WithProject, []task.ReadWarning, error) {
	all, warnings, err := task.ReadAllLenient(tasksDir)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		log.WithField("file", w.File).WithError(w.Err).Warn("skipping task file")
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	tasks := Filter(Join(all, projects), opts.Filter, opts.Me, now)

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortByPriority
	}
	dir := opts.Direction
	if dir == "" {
		dir = Ascending
	}
	tasks = Sort(tasks, sortBy, dir)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}

	log.WithFields(log.Fields{"loaded": len(all), "listed": len(tasks), "sort": sortBy}).Debug("listed tasks")
	return tasks, warnings, nil
}

// StatusSummary holds metrics for a single status.
type StatusSummary struct {
	Status  task.Status `json:"status"`
	Label   string      `json:"label"`
	Count   int         `json:"count"`
	Overdue int         `json:"overdue"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

// BucketCount holds the number of unfinished tasks in a due-date bucket.
type BucketCount struct {
	Bucket Bucket `json:"bucket"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// Overview is the aggregate workspace overview.
type Overview struct {
	WorkspaceName string          `json:"workspace_name"`
	TotalTasks    int             `json:"total_tasks"`
	Overdue       int             `json:"overdue"`
	Statuses      []StatusSummary `json:"statuses"`
	Priorities    []PriorityCount `json:"priorities"`
	Due           []BucketCount   `json:"due"`
}

// Summary computes the overview of tasks. Due-date buckets count only
// unfinished tasks.
func Summary(name string, tasks []task.WithProject, now time.Time) Overview {
	statusIdx := make(map[task.Status]int, len(task.Statuses))
	statuses := make([]StatusSummary, len(task.Statuses))
	for i, s := range task.Statuses {
		statusIdx[s] = i
		statuses[i] = StatusSummary{Status: s, Label: s.Label()}
	}

	prioCounts := make(map[task.Priority]int, len(task.Priorities))
	bucketCounts := make(map[Bucket]int, len(Buckets))
	overdue := 0

	for _, t := range tasks {
		ss := &statuses[statusIdx[t.Status]]
		ss.Count++
		prioCounts[t.Priority]++

		if t.Status.Finished() {
			continue
		}
		b := ClassifyDue(t.DueIn(now.Location()), now)
		bucketCounts[b]++
		if b == BucketOverdue {
			ss.Overdue++
			overdue++
		}
	}

	priorities := make([]PriorityCount, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		priorities = append(priorities, PriorityCount{Priority: p, Count: prioCounts[p]})
	}

	due := make([]BucketCount, 0, len(Buckets))
	for _, b := range Buckets {
		due = append(due, BucketCount{Bucket: b, Label: b.Label(), Count: bucketCounts[b]})
	}

	return Overview{
		WorkspaceName: name,
		TotalTasks:    len(tasks),
		Overdue:       overdue,
		Statuses:      statuses,
		Priorities:    priorities,
		Due:           due,
	}
}
