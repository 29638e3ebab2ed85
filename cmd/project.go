package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
	Long:    `Lists the configured projects or adds a new one. Tasks refer to projects by id.`,
	RunE:    runProjectList,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with their task counts",
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add ID [NAME]",
	Short: "Add a project",
	Args:  cobra.RangeArgs(1, 2), //nolint:mnd // id and optional name
	RunE:  runProjectAdd,
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	rootCmd.AddCommand(projectCmd)
}

// projectInfo is a project row with its number of tasks.
type projectInfo struct {
	task.Project
	Tasks int `json:"tasks"`
}

func runProjectList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(warnings)

	counts := make(map[string]int, len(cfg.Projects))
	for _, t := range tasks {
		counts[t.ProjectID]++
	}
	rows := make([]projectInfo, 0, len(cfg.Projects))
	for _, p := range cfg.Projects {
		rows = append(rows, projectInfo{Project: p, Tasks: counts[p.ID]})
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, rows)
	case output.FormatCompact:
		for _, r := range rows {
			fmt.Fprintf(os.Stdout, "%s %s (%d)\n", r.ID, r.Name, r.Tasks)
		}
	default:
		fmt.Fprintf(os.Stdout, "%-16s %-24s %5s\n", "ID", "NAME", "TASKS")
		for _, r := range rows {
			marker := ""
			if r.ID == cfg.Defaults.Project {
				marker = " (default)"
			}
			fmt.Fprintf(os.Stdout, "%-16s %-24s %5d%s\n", r.ID, r.Name, r.Tasks, marker)
		}
	}
	return nil
}

func runProjectAdd(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id := strings.TrimSpace(args[0])
	name := id
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		name = strings.TrimSpace(args[1])
	}
	p := task.Project{ID: id, Name: name}

	// Reload under the workspace lock so concurrent adds do not overwrite
	// each other.
	err = filelock.With(cfg.LockPath(), func() error {
		fresh, err := config.Load(cfg.Dir())
		if err != nil {
			return err
		}
		if fresh.ProjectByID(id) != nil {
			return clierr.Newf(clierr.ProjectAlreadyExists, "project %q already exists", id).
				WithDetails(map[string]any{"project": id})
		}
		fresh.Projects = append(fresh.Projects, p)
		if err := fresh.Validate(); err != nil {
			return clierr.Wrap(clierr.InvalidInput, err)
		}
		return fresh.Save()
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, p)
	}
	output.Messagef(os.Stdout, "Added project %s: %s", p.ID, p.Name)
	return nil
}
