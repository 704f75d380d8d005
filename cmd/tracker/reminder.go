package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/spf13/cobra"
)

func reminderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Schedule appointment and task reminders",
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Schedule a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			at, _ := cmd.Flags().GetString("at")
			when, err := parseDateTime(at)
			if err != nil {
				return err
			}
			r := domain.Reminder{Title: args[0], DateTime: when}
			r.ClinicName, _ = cmd.Flags().GetString("clinic")
			r.ClinicAddress, _ = cmd.Flags().GetString("clinic-address")
			r.Doctor, _ = cmd.Flags().GetString("doctor")
			r.Content, _ = cmd.Flags().GetString("note")

			saved, err := a.reminders.Create(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s scheduled for %s\n", saved.ID, saved.DateTime.Format("02/01/2006 15:04"))
			return nil
		}),
	}
	addCmd.Flags().String("at", "", "Date and time (YYYY-MM-DD HH:MM, local)")
	addCmd.Flags().String("clinic", "", "Clinic name; a saved clinic fills in its address")
	addCmd.Flags().String("clinic-address", "", "Clinic address")
	addCmd.Flags().String("doctor", "", "Doctor")
	addCmd.Flags().String("note", "", "Free-text details")
	_ = addCmd.MarkFlagRequired("at")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all reminders",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			reminders, err := a.reminders.List(cmd.Context())
			if err != nil {
				return err
			}
			return printReminders(cmd.OutOrStdout(), reminders)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "upcoming",
		Short: "List reminders that are still ahead, soonest first",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			reminders, err := a.reminders.Upcoming(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			return printReminders(cmd.OutOrStdout(), reminders)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.reminders.Delete(cmd.Context(), args[0], newConfirmer(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reminder deleted")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Deliver every reminder that is due, once",
		Args:  cobra.NoArgs,
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			res, err := a.reminders.Sweep(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d due, %d delivered, %d skipped, %d failed\n", res.Due, res.Delivered, res.Skipped, res.Failed)
			return nil
		}),
	})
	return cmd
}

func printReminders(w io.Writer, reminders []domain.Reminder) error {
	if len(reminders) == 0 {
		fmt.Fprintln(w, "No reminders")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tTITLE\tCLINIC\tSTATUS")
	for _, r := range reminders {
		status := "pending"
		if r.Triggered {
			status = "sent"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.DateTime.Local().Format("02/01/2006 15:04"), r.Title, r.ClinicName, status)
	}
	return tw.Flush()
}
