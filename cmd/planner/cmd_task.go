package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notexe/dayplan/internal/task"
	"github.com/notexe/dayplan/internal/timeline"
)

var (
	taskStart    string
	taskEnd      string
	taskDuration int
	taskNotes    string
	taskListDate string
	taskFirstFit bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage scheduled tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Schedule a task",
	Long: `Adds a task. Without --end or --duration it occupies the default item
length. With --first-fit the start is the first free slot of the day that
can hold --duration minutes.

Example:
  planner task add "Write report" --start "2025-12-07 10:00" --duration 90
  planner task add "Gym" --first-fit --duration 60`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Mark a task completed and free its time",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskComplete,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskStart, "start", "s", "", `start ("YYYY-MM-DD HH:MM" or HH:MM)`)
	taskAddCmd.Flags().StringVarP(&taskEnd, "end", "e", "", "end, same formats as --start")
	taskAddCmd.Flags().IntVarP(&taskDuration, "duration", "n", 0, "length in minutes")
	taskAddCmd.Flags().StringVar(&taskNotes, "notes", "", "free-form notes")
	taskAddCmd.Flags().BoolVar(&taskFirstFit, "first-fit", false, "start in the first free slot that fits")
	taskAddCmd.Flags().StringVarP(&taskListDate, "date", "d", "", "day for --first-fit (YYYY-MM-DD, default today)")
	taskAddCmd.MarkFlagsMutuallyExclusive("end", "duration")
	taskAddCmd.MarkFlagsMutuallyExclusive("start", "first-fit")

	taskListCmd.Flags().StringVarP(&taskListDate, "date", "d", "", "day to list (YYYY-MM-DD, default today)")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskCompleteCmd, taskDeleteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	if taskDuration < 0 {
		return fmt.Errorf("duration must be positive, got %d", taskDuration)
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		start, err := resolveTaskStart(ctx, a)
		if err != nil {
			return err
		}

		t := task.Task{Title: title, Notes: taskNotes, Start: start}
		switch {
		case taskEnd != "":
			end, err := a.parseMoment(taskEnd)
			if err != nil {
				return err
			}
			t.End = &end
		case taskDuration > 0:
			end := start.Add(time.Duration(taskDuration) * time.Minute)
			t.End = &end
		}

		added, err := a.tasks.Add(ctx, t)
		if err != nil {
			return err
		}
		logger.Debug("task added", zap.Int64("id", added.ID), zap.Time("start", added.Start))

		end := timeline.NormalizeEnd(added.Start, timeValue(added.End))
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInfo(fmt.Sprintf("Added task #%d %s %s–%s",
			added.ID, added.Title, added.Start.In(a.loc).Format(dateTimeLayout), end.In(a.loc).Format("15:04"))))
		return nil
	})
}

func resolveTaskStart(ctx context.Context, a *app) (time.Time, error) {
	if !taskFirstFit {
		if taskStart == "" {
			return time.Time{}, fmt.Errorf("--start or --first-fit is required")
		}
		return a.parseMoment(taskStart)
	}

	minutes := taskDuration
	if minutes == 0 {
		minutes = cfg.Planner.DefaultDuration
	}
	day, err := a.parseDay(taskListDate)
	if err != nil {
		return time.Time{}, err
	}
	tl, err := a.tasks.Timeline(ctx, day, minutes)
	if err != nil {
		return time.Time{}, err
	}
	slot, ok := tl.FirstFit()
	if !ok {
		return time.Time{}, fmt.Errorf("no free slot of %d minutes on %s", minutes, tl.Day.Format(dateLayout))
	}
	start, _ := timeline.SuggestStart(slot)
	if taskDuration == 0 {
		taskDuration = minutes
	}
	return start, nil
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		day, err := a.parseDay(taskListDate)
		if err != nil {
			return err
		}
		tasks, err := a.tasks.List(ctx, day)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTasks(tasks))
		return nil
	})
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		if err := a.tasks.Complete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInfo(fmt.Sprintf("Completed task #%d", id)))
		return nil
	})
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		if err := a.tasks.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInfo(fmt.Sprintf("Deleted task #%d", id)))
		return nil
	})
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
