package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notexe/dayplan/internal/reminder"
)

var (
	remindAt       string
	remindNotes    string
	remindPriority string
	remindStatus   string
	remindSnooze   time.Duration
)

var remindCmd = &cobra.Command{
	Use:     "remind",
	Aliases: []string{"reminder"},
	Short:   "Manage reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a reminder",
	Long: `Adds a pending reminder. planner watch notifies you once it is due.

Example:
  planner remind add "Call Bob" --at "2025-12-07 09:00" --priority high`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemindAdd,
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Args:  cobra.NoArgs,
	RunE:  runRemindList,
}

var remindDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List pending reminders that are due now",
	Args:  cobra.NoArgs,
	RunE:  runRemindDue,
}

var remindSnoozeCmd = &cobra.Command{
	Use:   "snooze [id]",
	Short: "Postpone a reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindSnooze,
}

var remindDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindDelete,
}

func init() {
	remindAddCmd.Flags().StringVarP(&remindAt, "at", "a", "", `when to remind ("YYYY-MM-DD HH:MM", HH:MM or RFC3339)`)
	remindAddCmd.Flags().StringVar(&remindNotes, "notes", "", "body shown with the notification")
	remindAddCmd.Flags().StringVarP(&remindPriority, "priority", "p", reminder.PriorityMedium, "low, medium or high")
	_ = remindAddCmd.MarkFlagRequired("at")

	remindListCmd.Flags().StringVar(&remindStatus, "status", "", "only pending, sent or snoozed")

	remindSnoozeCmd.Flags().DurationVar(&remindSnooze, "for", reminder.DefaultSnooze, "how long to snooze")

	remindCmd.AddCommand(remindAddCmd, remindListCmd, remindDueCmd, remindSnoozeCmd, remindDeleteCmd)
}

func runRemindAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		at, err := a.parseMoment(remindAt)
		if err != nil {
			return err
		}
		r, err := a.reminders.Add(ctx, reminder.Reminder{
			Title:         strings.Join(args, " "),
			Notes:         remindNotes,
			ScheduledTime: at,
			Priority:      remindPriority,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInfo(fmt.Sprintf("Added reminder #%d %s at %s",
			r.ID, r.Title, r.ScheduledTime.In(a.loc).Format(dateTimeLayout))))
		return nil
	})
}

func runRemindList(cmd *cobra.Command, _ []string) error {
	status := reminder.Status(remindStatus)
	switch status {
	case "", reminder.StatusPending, reminder.StatusSent, reminder.StatusSnoozed:
	default:
		return fmt.Errorf("invalid status %q", remindStatus)
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		rs, err := a.reminders.List(ctx, status)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReminders(rs, a.loc))
		return nil
	})
}

func runRemindDue(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		all, err := a.reminders.Snapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReminders(reminder.ScanDue(all, clk.Now()), a.loc))
		return nil
	})
}

func runRemindSnooze(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if remindSnooze <= 0 {
		return fmt.Errorf("snooze duration must be positive")
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		r, err := a.reminders.Snooze(ctx, id, clk.Now().Add(remindSnooze))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInfo(fmt.Sprintf("Snoozed reminder #%d until %s",
			r.ID, r.SnoozedUntil.In(a.loc).Format(dateTimeLayout))))
		return nil
	})
}

func runRemindDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		if err := a.reminders.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInfo(fmt.Sprintf("Deleted reminder #%d", id)))
		return nil
	})
}
