// Command planner manages a personal day plan: tasks, the free/occupied
// timeline around them, and reminders delivered by a background watcher.
//
// Usage:
//
//	planner timeline [--date 2025-12-07] [--duration 60]
//	planner task add "Standup" --start "2025-12-07 09:00" --duration 15
//	planner remind add "Call Bob" --at "2025-12-07 09:00"
//	planner watch
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notexe/dayplan/internal/clock"
	"github.com/notexe/dayplan/internal/config"
	"github.com/notexe/dayplan/internal/logging"
	"github.com/notexe/dayplan/internal/ui"
)

var (
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	formatter *ui.Formatter

	clk clock.Clock = clock.Real{}
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Plan your day around what is already scheduled",
	Long: `planner keeps tasks and reminders in a local SQLite database.

It partitions a day into free and occupied intervals so you can see where a
new task of a given length fits, and its watch mode notifies you when
reminders come due.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return err
		}
		formatter = ui.NewFormatter(cfg.UI.ColoredOutput)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetDefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(timelineCmd, taskCmd, remindCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
