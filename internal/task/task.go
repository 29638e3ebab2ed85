// Package task handles task files, their frontmatter and the task data model.
package task

import (
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/tasklens/internal/date"
)

// Status is the workflow state of a task.
type Status string

// Task statuses, in board order.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inProgress"
	StatusBlocked    Status = "blocked"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses is the fixed status order used for grouping and sorting.
var Statuses = []Status{
	StatusTodo,
	StatusInProgress,
	StatusBlocked,
	StatusCompleted,
	StatusCancelled,
}

var statusLabels = map[Status]string{
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusBlocked:    "Blocked",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display name of the status. Panics on unknown values.
func (s Status) Label() string {
	label, ok := statusLabels[s]
	if !ok {
		panic(fmt.Sprintf("task: unknown status %q", string(s)))
	}
	return label
}

// Rank returns the position of s in Statuses. Panics on unknown values.
func (s Status) Rank() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	panic(fmt.Sprintf("task: unknown status %q", string(s)))
}

// Finished reports whether no further work is expected (completed or cancelled).
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Priority is the urgency of a task.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities is the fixed severity order, most urgent first.
var Priorities = []Priority{
	PriorityUrgent,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
}

var priorityLabels = map[Priority]string{
	PriorityUrgent: "Urgent",
	PriorityHigh:   "High Priority",
	PriorityMedium: "Medium Priority",
	PriorityLow:    "Low Priority",
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the display name of the priority. Panics on unknown values.
func (p Priority) Label() string {
	label, ok := priorityLabels[p]
	if !ok {
		panic(fmt.Sprintf("task: unknown priority %q", string(p)))
	}
	return label
}

// Rank returns the severity rank: urgent=0 through low=3. Panics on unknown values.
func (p Priority) Rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	panic(fmt.Sprintf("task: unknown priority %q", string(p)))
}

// Task represents a task parsed from a markdown file.
type Task struct {
	ID           string     `yaml:"id" json:"id"`
	ProjectID    string     `yaml:"project_id" json:"project_id"`
	Title        string     `yaml:"title" json:"title"`
	Status       Status     `yaml:"status" json:"status"`
	Priority     Priority   `yaml:"priority" json:"priority"`
	Assignee     string     `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Due          *date.Date `yaml:"due,omitempty" json:"due,omitempty"`
	Progress     int        `yaml:"progress" json:"progress"`
	Created      *time.Time `yaml:"created,omitempty" json:"created,omitempty"`
	Updated      time.Time  `yaml:"updated" json:"updated"`
	Completed    *time.Time `yaml:"completed,omitempty" json:"completed,omitempty"`
	Blocker      string     `yaml:"blocker,omitempty" json:"blocker,omitempty"`
	Question     string     `yaml:"question,omitempty" json:"question,omitempty"`
	AIGenerated  bool       `yaml:"ai_generated,omitempty" json:"ai_generated,omitempty"`
	AIConfidence *float64   `yaml:"ai_confidence,omitempty" json:"ai_confidence,omitempty"`

	// Description is the markdown content below the frontmatter (not in YAML).
	Description string `yaml:"-" json:"description,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// DueIn returns the due date as midnight in loc, or nil when the task has none.
func (t *Task) DueIn(loc *time.Location) *time.Time {
	if t.Due == nil {
		return nil
	}
	due := t.Due.In(loc)
	return &due
}

// Project is the owner of a set of tasks.
type Project struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// WithProject pairs a task with its owning project. It is the unit the
// filter, sort and grouping pipeline operates on.
type WithProject struct {
	*Task
	Project Project `json:"project"`
}
