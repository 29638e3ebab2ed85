package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filtering, sorting and grouping.

Filters combine with AND across flags and OR within a flag's values.
Sort key and direction default to the view settings in config.yml.`,
	RunE: runList,
}

func init() {
	addListFlags(listCmd.Flags())
	rootCmd.AddCommand(listCmd)
}

func addListFlags(fs *pflag.FlagSet) {
	fs.StringSlice("project", nil, "filter by project id (comma-separated)")
	fs.StringSlice("priority", nil, "filter by priority (comma-separated)")
	fs.StringSlice("assignee", nil, "filter by assignee (comma-separated)")
	fs.Bool("overdue", false, "show only unfinished tasks past their due date")
	fs.Bool("mine", false, "show only tasks assigned to you (config key: me)")
	fs.String("from", "", "show only tasks due on or after this date (YYYY-MM-DD)")
	fs.String("to", "", "show only tasks due on or before this date (YYYY-MM-DD)")
	fs.String("sort", "", "sort key ("+joinValues(board.SortKeys)+")")
	fs.Bool("desc", false, "sort descending")
	fs.IntP("limit", "n", 0, "limit number of results")
	fs.String("group-by", "", "group results by dimension ("+joinValues(board.Dimensions)+")")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := filterFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	sortBy, dir, err := sortFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	dim, err := groupByFromFlags(cmd, board.DimensionNone)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	now := time.Now()
	tasks, warnings, err := board.List(cfg.TasksPath(), cfg.Projects, board.ListOptions{
		Filter:    filter,
		Me:        cfg.Me,
		SortBy:    sortBy,
		Direction: dir,
		Limit:     limit,
		Now:       now,
	})
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if dim != board.DimensionNone {
		return outputGroups(board.Group(tasks, dim, now), now)
	}
	return outputTaskList(tasks, now)
}

// filterFromFlags builds the task filter from the list flags.
func filterFromFlags(cmd *cobra.Command, cfg *config.Config) (board.TasksFilter, error) {
	var f board.TasksFilter

	if ids, _ := cmd.Flags().GetStringSlice("project"); len(ids) > 0 {
		f = f.WithProjects(ids...)
	}
	if values, _ := cmd.Flags().GetStringSlice("priority"); len(values) > 0 {
		priorities := make([]task.Priority, 0, len(values))
		for _, v := range values {
			if err := task.ValidatePriority(v); err != nil {
				return f, err
			}
			priorities = append(priorities, task.Priority(v))
		}
		f = f.WithPriorities(priorities...)
	}
	if names, _ := cmd.Flags().GetStringSlice("assignee"); len(names) > 0 {
		f = f.WithAssignees(names...)
	}
	if overdue, _ := cmd.Flags().GetBool("overdue"); overdue {
		f = f.WithOverdueOnly(true)
	}
	if mine, _ := cmd.Flags().GetBool("mine"); mine {
		if cfg.Me == "" {
			return f, clierr.New(clierr.IdentityRequired,
				"--mine needs your identity; set it with: tasklens config set me <name>")
		}
		f = f.WithMyTasksOnly(true)
	}

	start, err := dateFlag(cmd, "from")
	if err != nil {
		return f, err
	}
	end, err := dateFlag(cmd, "to")
	if err != nil {
		return f, err
	}
	if start != nil || end != nil {
		f = f.WithDateRange(start, end)
	}
	return f, nil
}

// sortFromFlags resolves the sort key and direction, falling back to the
// configured view.
func sortFromFlags(cmd *cobra.Command, cfg *config.Config) (board.SortKey, board.Direction, error) {
	key := cfg.SortKey()
	if v, _ := cmd.Flags().GetString("sort"); v != "" {
		parsed, err := board.ParseSortKey(v)
		if err != nil {
			return "", "", err
		}
		key = parsed
	}

	dir := cfg.Direction()
	if cmd.Flags().Changed("desc") {
		dir = board.Ascending
		if desc, _ := cmd.Flags().GetBool("desc"); desc {
			dir = board.Descending
		}
	}
	return key, dir, nil
}

// groupByFromFlags parses --group-by, returning fallback when it is unset.
func groupByFromFlags(cmd *cobra.Command, fallback board.Dimension) (board.Dimension, error) {
	v, _ := cmd.Flags().GetString("group-by")
	if v == "" {
		return fallback, nil
	}
	return board.ParseDimension(v)
}

func dateFlag(cmd *cobra.Command, name string) (*date.Date, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return nil, nil
	}
	d, err := date.Parse(v)
	if err != nil {
		return nil, task.ValidateDate(name, v, err)
	}
	return &d, nil
}

func outputGroups(groups []board.TaskGroup, now time.Time) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, groups)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, groups)
	default:
		output.GroupedTasks(os.Stdout, groups, now)
	}
	return nil
}

func outputTaskList(tasks []task.WithProject, now time.Time) error {
	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []task.WithProject{}
		}
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks, now)
	}
	return nil
}

func joinValues[S ~string](values []S) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
