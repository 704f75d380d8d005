package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the printable pregnancy record",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			dir, _ := cmd.Flags().GetString("out")
			if dir == "" {
				dir = a.cfg.ReportOutputDir
			}
			path, err := a.reports.Generate(cmd.Context(), time.Now(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		}),
	}
	cmd.Flags().String("out", "", "Output directory (defaults to REPORT_OUTPUT_DIR)")
	return cmd
}

func clinicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinic",
		Short: "Clinics remembered from recorded visits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved clinics",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			clinics, err := a.checkups.Clinics(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range clinics {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Name, c.Address)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the saved clinics from all visits",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			clinics, err := a.checkups.RebuildClinics(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d clinics saved\n", len(clinics))
			return nil
		}),
	})
	return cmd
}
