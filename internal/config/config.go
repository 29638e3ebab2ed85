package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no tasklens workspace found (run 'tasklens init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the workspace configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	TasksDir  string          `yaml:"tasks_dir"`
	Me        string          `yaml:"me,omitempty"`
	Projects  []task.Project  `yaml:"projects"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	View      ViewConfig      `yaml:"view"`

	// LegacyUser is the v2 spelling of Me, read only for migration.
	LegacyUser string `yaml:"user,omitempty"`

	// dir is the absolute path to the workspace directory (not serialized).
	dir string `yaml:"-"`
}

// WorkspaceConfig holds workspace metadata.
type WorkspaceConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Project  string `yaml:"project,omitempty"`
	Status   string `yaml:"status"`
	Priority string `yaml:"priority"`
}

// ViewConfig holds the default grouping and ordering of list views.
type ViewConfig struct {
	GroupBy   string `yaml:"group_by"`
	Sort      string `yaml:"sort"`
	Direction string `yaml:"direction"`
}

// Dir returns the absolute path to the workspace directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the workspace directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// LockPath returns the path of the advisory lock file guarding writes.
func (c *Config) LockPath() string {
	return filepath.Join(c.dir, ".lock")
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:   CurrentVersion,
		Workspace: WorkspaceConfig{Name: name},
		TasksDir:  DefaultTasksDir,
		Projects:  append([]task.Project{}, DefaultProjects...),
		Defaults: DefaultsConfig{
			Project:  DefaultProjects[0].ID,
			Status:   DefaultStatus,
			Priority: DefaultPriority,
		},
		View: defaultView(),
	}
}

func defaultView() ViewConfig {
	return ViewConfig{
		GroupBy:   DefaultGroupBy,
		Sort:      DefaultSort,
		Direction: DefaultDirection,
	}
}

// ProjectByID returns the project with the given ID, or nil if not found.
func (c *Config) ProjectByID(id string) *task.Project {
	for i := range c.Projects {
		if c.Projects[i].ID == id {
			return &c.Projects[i]
		}
	}
	return nil
}

// ProjectIDs returns the configured project IDs in order.
func (c *Config) ProjectIDs() []string {
	ids := make([]string, len(c.Projects))
	for i, p := range c.Projects {
		ids[i] = p.ID
	}
	return ids
}

// GroupBy returns the configured default grouping dimension.
func (c *Config) GroupBy() board.Dimension {
	d, err := board.ParseDimension(c.View.GroupBy)
	if err != nil {
		return board.DimensionNone
	}
	return d
}

// SortKey returns the configured default sort key.
func (c *Config) SortKey() board.SortKey {
	k, err := board.ParseSortKey(c.View.Sort)
	if err != nil {
		return board.SortByPriority
	}
	return k
}

// Direction returns the configured default sort direction.
func (c *Config) Direction() board.Direction {
	d, err := board.ParseDirection(c.View.Direction)
	if err != nil {
		return board.Ascending
	}
	return d
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Workspace.Name == "" {
		return fmt.Errorf("%w: workspace.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if err := c.validateProjects(); err != nil {
		return err
	}
	if !task.Status(c.Defaults.Status).Valid() {
		return fmt.Errorf("%w: default status %q is not a known status", ErrInvalid, c.Defaults.Status)
	}
	if !task.Priority(c.Defaults.Priority).Valid() {
		return fmt.Errorf("%w: default priority %q is not a known priority", ErrInvalid, c.Defaults.Priority)
	}
	if c.Defaults.Project != "" && c.ProjectByID(c.Defaults.Project) == nil {
		return fmt.Errorf("%w: default project %q not in projects list", ErrInvalid, c.Defaults.Project)
	}
	return c.validateView()
}

func (c *Config) validateProjects() error {
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" {
			return fmt.Errorf("%w: project id is required", ErrInvalid)
		}
		if p.Name == "" {
			return fmt.Errorf("%w: project %q name is required", ErrInvalid, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate project id %q", ErrInvalid, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (c *Config) validateView() error {
	if _, err := board.ParseDimension(c.View.GroupBy); err != nil {
		return fmt.Errorf("%w: view.group_by: %w", ErrInvalid, err)
	}
	if _, err := board.ParseSortKey(c.View.Sort); err != nil {
		return fmt.Errorf("%w: view.sort: %w", ErrInvalid, err)
	}
	if _, err := board.ParseDirection(c.View.Direction); err != nil {
		return fmt.Errorf("%w: view.direction: %w", ErrInvalid, err)
	}
	return nil
}

// Init creates a new workspace in the given directory with default settings.
// It creates the workspace directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := cfg.Create(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Create writes a validated config and its tasks directory to disk.
func (c *Config) Create() error {
	const dirMode = 0o750

	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.TasksPath(), dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	if err := c.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given workspace directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a workspace directory
// containing config.yml. Returns the absolute path to the workspace directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the workspace directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.WorkspaceNotFound,
				"no tasklens workspace found (run 'tasklens init' to create one)")
		}
		dir = parent
	}
}
