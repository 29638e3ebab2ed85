package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/board"
	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify workspace configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key. Keys without a
// setter are read-only.
type configAccessor struct {
	get func(*config.Config) any
	set func(*config.Config, string) error
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"workspace.name": {
			get: func(c *config.Config) any { return c.Workspace.Name },
			set: func(c *config.Config, v string) error { c.Workspace.Name = v; return nil },
		},
		"workspace.description": {
			get: func(c *config.Config) any { return c.Workspace.Description },
			set: func(c *config.Config, v string) error { c.Workspace.Description = v; return nil },
		},
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"me": {
			get: func(c *config.Config) any { return c.Me },
			set: func(c *config.Config, v string) error { c.Me = strings.TrimSpace(v); return nil },
		},
		"projects": {
			get: func(c *config.Config) any { return c.ProjectIDs() },
		},
		"defaults.project": {
			get: func(c *config.Config) any { return c.Defaults.Project },
			set: func(c *config.Config, v string) error { c.Defaults.Project = v; return nil },
		},
		"defaults.status": {
			get: func(c *config.Config) any { return c.Defaults.Status },
			set: func(c *config.Config, v string) error {
				if err := task.ValidateStatus(v); err != nil {
					return err
				}
				c.Defaults.Status = v
				return nil
			},
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				if err := task.ValidatePriority(v); err != nil {
					return err
				}
				c.Defaults.Priority = v
				return nil
			},
		},
		"view.group_by": {
			get: func(c *config.Config) any { return c.View.GroupBy },
			set: func(c *config.Config, v string) error {
				dim, err := board.ParseDimension(v)
				if err != nil {
					return err
				}
				c.View.GroupBy = string(dim)
				return nil
			},
		},
		"view.sort": {
			get: func(c *config.Config) any { return c.View.Sort },
			set: func(c *config.Config, v string) error {
				key, err := board.ParseSortKey(v)
				if err != nil {
					return err
				}
				c.View.Sort = string(key)
				return nil
			},
		},
		"view.direction": {
			get: func(c *config.Config) any { return c.View.Direction },
			set: func(c *config.Config, v string) error {
				dir, err := board.ParseDirection(v)
				if err != nil {
					return err
				}
				c.View.Direction = string(dir)
				return nil
			},
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"workspace.name",
		"workspace.description",
		"tasks_dir",
		"me",
		"projects",
		"defaults.project",
		"defaults.status",
		"defaults.priority",
		"view.group_by",
		"view.sort",
		"view.direction",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-22s %s\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, err := lookupConfigKey(args[0])
	if err != nil {
		return err
	}
	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, err := lookupConfigKey(key)
	if err != nil {
		return err
	}
	if acc.set == nil {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func lookupConfigKey(key string) (configAccessor, error) {
	acc, ok := configAccessors()[key]
	if !ok {
		return configAccessor{}, clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}
	return acc, nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
