package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays full details of a single task including its markdown description.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, t, err := findTask(cfg, args[0])
	if err != nil {
		return err
	}
	wp := joinOne(cfg, t)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, wp)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, wp)
	default:
		output.TaskDetail(os.Stdout, wp, time.Now())
	}
	return nil
}
