// Package config handles tasklens workspace configuration.
package config

import "github.com/twiced-technology-gmbh/tasklens/internal/task"

const (
	// DefaultDir is the default workspace directory name.
	DefaultDir = "tasklens"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultStatus is the default status for new tasks.
	DefaultStatus = string(task.StatusTodo)
	// DefaultPriority is the default priority for new tasks.
	DefaultPriority = string(task.PriorityMedium)
	// DefaultGroupBy is the default grouping dimension of list views.
	DefaultGroupBy = "status"
	// DefaultSort is the default sort key of flat list views.
	DefaultSort = "priority"
	// DefaultDirection is the default sort direction.
	DefaultDirection = "asc"

	// ConfigFileName is the name of the config file within the workspace directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// DefaultProjects seeds a new workspace with a single catch-all project.
var DefaultProjects = []task.Project{
	{ID: "inbox", Name: "Inbox"},
}
