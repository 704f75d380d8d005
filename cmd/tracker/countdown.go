package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/spf13/cobra"
)

func countdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Due date calculation and pregnancy progress",
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			return showCountdown(cmd, a)
		}),
	}

	lmpCmd := &cobra.Command{
		Use:   "lmp <date>",
		Short: "Date the pregnancy from the last menstrual period",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			lmp, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			cycle, _ := cmd.Flags().GetInt("cycle")
			if _, err := a.countdown.CalculateFromLMP(cmd.Context(), lmp, cycle); err != nil {
				return err
			}
			return showCountdown(cmd, a)
		}),
	}
	lmpCmd.Flags().Int("cycle", domain.DefaultCycleLengthDays, "Average cycle length in days")
	cmd.AddCommand(lmpCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "crl <millimetres> <measured-on>",
		Short: "Date the pregnancy from an ultrasound crown-rump length",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			crl, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidCRL, args[0])
			}
			measured, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			if _, err := a.countdown.CalculateFromCRL(cmd.Context(), crl, measured); err != nil {
				return err
			}
			return showCountdown(cmd, a)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <due-date>",
		Short: "Enter the due date directly",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			edd, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			if _, err := a.countdown.SetDirect(cmd.Context(), edd); err != nil {
				return err
			}
			return showCountdown(cmd, a)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the due date",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.countdown.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Due date cleared")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the due date and progress",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			return showCountdown(cmd, a)
		}),
	})
	return cmd
}

func showCountdown(cmd *cobra.Command, a *app) error {
	data, err := a.countdown.Get(cmd.Context())
	if err != nil {
		return err
	}
	progress, err := a.countdown.Progress(cmd.Context(), domain.DateOf(time.Now()))
	if err != nil {
		return err
	}
	printCountdown(cmd.OutOrStdout(), data, progress)
	return nil
}

func printCountdown(w io.Writer, data domain.CountdownData, p *domain.Progress) {
	if !data.IsSet() || p == nil {
		fmt.Fprintln(w, "No due date set")
		return
	}
	fmt.Fprintf(w, "Due date:  %s (%s)\n", data.EDD.Display(), data.Method)
	fmt.Fprintf(w, "Progress:  %d weeks %d days\n", p.WeeksElapsed, p.DaysElapsed)
	switch {
	case p.IsOverdue:
		fmt.Fprintf(w, "Overdue by %d days\n", p.OverdueDays)
	case p.DaysRemaining == 0:
		fmt.Fprintln(w, "Due today")
	default:
		fmt.Fprintf(w, "Remaining: %d days\n", p.DaysRemaining)
	}
}
