package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tasklens workspace",
	Long:  `Creates a tasklens directory with config.yml and a tasks/ subdirectory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "workspace name (defaults to current directory name)")
	initCmd.Flags().StringSlice("project", nil, "initial projects as id:name pairs (repeatable)")
	initCmd.Flags().String("me", "", "your assignee name, used by --mine filters")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.WorkspaceAlreadyExists, "workspace already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)
	cfg.Me, _ = cmd.Flags().GetString("me")

	if pairs, _ := cmd.Flags().GetStringSlice("project"); len(pairs) > 0 {
		projects, err := parseProjects(pairs)
		if err != nil {
			return err
		}
		cfg.Projects = projects
		cfg.Defaults.Project = projects[0].ID
	}

	if err := cfg.Create(); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":   "initialized",
			"dir":      absDir,
			"name":     name,
			"config":   cfg.ConfigPath(),
			"tasks":    cfg.TasksPath(),
			"projects": cfg.ProjectIDs(),
		})
	}

	output.Messagef(os.Stdout, "Initialized workspace %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:   %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:    %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Projects: %s", strings.Join(cfg.ProjectIDs(), ", "))
	if cfg.Me == "" {
		output.Messagef(os.Stdout, "  Hint:     set your name with: tasklens config set me <name>")
	}
	return nil
}

// parseProjects parses "id:name" pairs. A bare id is used as its own name.
func parseProjects(pairs []string) ([]task.Project, error) {
	projects := make([]task.Project, 0, len(pairs))
	for _, pair := range pairs {
		id, name, found := strings.Cut(pair, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid project %q (expected id:name)", pair)
		}
		if !found || strings.TrimSpace(name) == "" {
			name = id
		}
		projects = append(projects, task.Project{ID: id, Name: strings.TrimSpace(name)})
	}
	return projects, nil
}
