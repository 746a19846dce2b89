package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/shameless/shameless/internal/reminders"
)

var (
	remindAt       string
	remindIn       time.Duration
	remindMarkSent bool

	remindersCmd = &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder"},
		Short:   "Schedule gentle reminder emails",
	}

	remindersScheduleCmd = &cobra.Command{
		Use:   "schedule EMAIL TEXT",
		Short: "Schedule a reminder",
		Long: paragraph(fmt.Sprintf("\nSchedule a %s. Reminders are stored locally; sending them is left to your mail tooling via %s.",
			keyword("reminder"), keyword("shameless reminders due"))),
		Example: paragraph("shameless reminders schedule me@example.com drink water --in 2h\nshameless reminders schedule me@example.com breathe --at \"2026-11-01 09:00\""),
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				sendAt, err := parseSendAt(time.Now())
				if err != nil {
					return err
				}
				r, err := a.reminders().Schedule(ctxOrBackground(cmd.Context()), args[0], strings.Join(args[1:], " "), sendAt)
				if err != nil {
					return err
				}
				a.println(a.t("reminders.scheduled", humanize.Time(r.SendAt)))
				a.println(faint(r.ID))
				return nil
			})
		},
	}

	remindersLsCmd = &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List reminders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				list, err := a.reminders().List(ctxOrBackground(cmd.Context()))
				if err != nil {
					return err
				}
				printReminders(a, list)
				return nil
			})
		},
	}

	remindersCancelCmd = &cobra.Command{
		Use:     "cancel ID",
		Aliases: []string{"rm"},
		Short:   "Cancel a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.reminders().Cancel(ctxOrBackground(cmd.Context()), args[0]); err != nil {
					return err
				}
				a.println(a.t("reminders.cancelled"))
				return nil
			})
		},
	}

	remindersDueCmd = &cobra.Command{
		Use:   "due",
		Short: "List reminders that are due for sending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				return dueReminders(ctxOrBackground(cmd.Context()), a)
			})
		},
	}
)

// parseSendAt resolves --in or --at relative to now.
func parseSendAt(now time.Time) (time.Time, error) {
	switch {
	case remindIn > 0 && remindAt != "":
		return time.Time{}, errors.New("use either --in or --at, not both")
	case remindIn > 0:
		return now.Add(remindIn), nil
	case remindAt != "":
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, remindAt, time.Local); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse time %q, use YYYY-MM-DD HH:MM", remindAt)
	default:
		return time.Time{}, errors.New("--in or --at is required")
	}
}

func printReminders(a *app, list []reminders.Reminder) {
	if len(list) == 0 {
		a.println(faint(a.t("reminders.empty")))
		return
	}
	recipientWidth := 0
	for _, r := range list {
		recipientWidth = max(recipientWidth, runewidth.StringWidth(r.Recipient))
	}
	contentWidth := max(int(width)-recipientWidth-24, 16) //nolint:gosec

	for _, r := range list {
		status := string(r.Status)
		if r.Status == reminders.StatusFailed && r.Error != "" {
			status += ": " + r.Error
		}
		a.println(fmt.Sprintf("%s  %s  %s  %s",
			keyword(r.SendAt.Local().Format("2006-01-02 15:04")),
			runewidth.FillRight(r.Recipient, recipientWidth),
			runewidth.Truncate(r.Content, contentWidth, "…"),
			faint("["+status+"] "+r.ID),
		))
	}
}

func dueReminders(ctx context.Context, a *app) error {
	svc := a.reminders()
	due, err := svc.Due(ctx, time.Now())
	if err != nil {
		return err
	}
	printReminders(a, due)

	if !remindMarkSent {
		return nil
	}
	for _, r := range due {
		if _, err := svc.MarkSent(ctx, r.ID); err != nil {
			return fmt.Errorf("unable to mark %s sent: %w", r.ID, err)
		}
	}
	return nil
}

func init() {
	remindersScheduleCmd.Flags().StringVar(&remindAt, "at", "", "send time (YYYY-MM-DD HH:MM, local time)")
	remindersScheduleCmd.Flags().DurationVar(&remindIn, "in", 0, "send after this long (e.g. 2h30m)")
	remindersDueCmd.Flags().BoolVar(&remindMarkSent, "mark-sent", false, "mark the listed reminders as sent")

	remindersCmd.AddCommand(remindersScheduleCmd, remindersLsCmd, remindersCancelCmd, remindersDueCmd)
}
