package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notexe/dayplan/internal/ui"
)

var (
	timelineDate     string
	timelineDuration int
	timelineMarkdown bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show a day's free and occupied intervals",
	Long: `Partitions the day into free and occupied intervals around its open tasks
and marks the free intervals that can hold a task of --duration minutes.

Example:
  planner timeline --date 2025-12-07 --duration 60`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func init() {
	timelineCmd.Flags().StringVarP(&timelineDate, "date", "d", "", "day to show (YYYY-MM-DD, default today)")
	timelineCmd.Flags().IntVarP(&timelineDuration, "duration", "n", 0, "minutes the new task needs (default planner.default_duration)")
	timelineCmd.Flags().BoolVar(&timelineMarkdown, "markdown", false, "render as a Markdown agenda")
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	minutes := timelineDuration
	if minutes == 0 {
		minutes = cfg.Planner.DefaultDuration
	}
	if minutes < 0 {
		return fmt.Errorf("duration must be positive, got %d", minutes)
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		day, err := a.parseDay(timelineDate)
		if err != nil {
			return err
		}

		tl, err := a.tasks.Timeline(ctx, day, minutes)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if timelineMarkdown || cfg.UI.Markdown {
			reminders, err := a.reminders.Snapshot(ctx)
			if err != nil {
				return err
			}
			md := ui.AgendaMarkdown(tl, reminders)
			if cfg.UI.ColoredOutput {
				md = ui.RenderMarkdown(md, 80)
			}
			fmt.Fprintln(out, md)
			return nil
		}

		fmt.Fprintln(out, formatter.FormatTimeline(tl))
		return nil
	})
}
