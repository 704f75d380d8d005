package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// visitFields maps flag names onto the string fields of a visit
var visitFields = []struct {
	flag  string
	usage string
	field func(*domain.Checkup) *string
}{
	{"place", "Clinic or hospital name", func(c *domain.Checkup) *string { return &c.Place }},
	{"clinic-address", "Clinic address", func(c *domain.Checkup) *string { return &c.ClinicAddress }},
	{"doctor", "Attending doctor", func(c *domain.Checkup) *string { return &c.Doctor }},
	{"pulse", "Pulse", func(c *domain.Checkup) *string { return &c.GeneralExam.Vitals.Pulse }},
	{"temperature", "Temperature", func(c *domain.Checkup) *string { return &c.GeneralExam.Vitals.Temperature }},
	{"bp", "Blood pressure", func(c *domain.Checkup) *string { return &c.GeneralExam.Vitals.BloodPressure }},
	{"respiratory-rate", "Respiratory rate", func(c *domain.Checkup) *string { return &c.GeneralExam.Vitals.RespiratoryRate }},
	{"height", "Height", func(c *domain.Checkup) *string { return &c.GeneralExam.Vitals.Height }},
	{"weight", "Weight in kg", func(c *domain.Checkup) *string { return &c.GeneralExam.Vitals.Weight }},
	{"findings", "Clinical findings", func(c *domain.Checkup) *string { return &c.GeneralExam.ClinicalFindings }},
	{"conclusion", "Conclusion", func(c *domain.Checkup) *string { return &c.Conclusion }},
	{"advice", "Advice and follow-up", func(c *domain.Checkup) *string { return &c.Advice }},
}

func addVisitFlags(fs *pflag.FlagSet) {
	fs.String("date", "", "Visit date (YYYY-MM-DD or today)")
	for _, f := range visitFields {
		fs.String(f.flag, "", f.usage)
	}
}

// applyVisitFlags copies only the flags given on the command line
func applyVisitFlags(cmd *cobra.Command, c *domain.Checkup) error {
	fs := cmd.Flags()
	if fs.Changed("date") {
		v, _ := fs.GetString("date")
		d, err := parseDateArg(v)
		if err != nil {
			return err
		}
		c.Date = d
	}
	for _, f := range visitFields {
		if fs.Changed(f.flag) {
			v, _ := fs.GetString(f.flag)
			*f.field(c) = v
		}
	}
	return nil
}

func checkupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkup",
		Aliases: []string{"visit"},
		Short:   "Record prenatal visits and their lab results",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new visit",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			var c domain.Checkup
			if err := applyVisitFlags(cmd, &c); err != nil {
				return err
			}
			saved, err := a.checkups.Save(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Visit %s recorded\n", saved.ID)
			return nil
		}),
	}
	addVisitFlags(addCmd.Flags())
	cmd.AddCommand(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a recorded visit",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			c, err := a.checkups.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := applyVisitFlags(cmd, &c); err != nil {
				return err
			}
			if _, err := a.checkups.Save(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Visit %s updated\n", c.ID)
			return nil
		}),
	}
	addVisitFlags(editCmd.Flags())
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List visits, most recent first",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			checkups, err := a.checkups.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(checkups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No visits recorded")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tPLACE\tDOCTOR\tLAB TESTS")
			for _, c := range checkups {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Date.Display(), c.Place, c.Doctor, c.LabTests.Len())
			}
			return tw.Flush()
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a visit as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			c, err := a.checkups.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a visit",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.checkups.Delete(cmd.Context(), args[0], newConfirmer(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Visit deleted")
			return nil
		}),
	})

	cmd.AddCommand(labCmd())
	return cmd
}

func labCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab",
		Short: "Manage lab tests and imaging of a visit",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List the offered lab tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME")
			for _, d := range domain.LabTestCatalog {
				fmt.Fprintf(tw, "%s\t%s\n", d.Key, d.Name)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <visit-id> <test-key>",
		Short: "Add a lab test to a visit",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			c, err := a.checkups.AddLabTest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printLabTests(cmd, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <visit-id> <test-key>",
		Short: "Remove a lab test from a visit",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			c, err := a.checkups.RemoveLabTest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printLabTests(cmd, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <visit-id> <test-key> <result...>",
		Short: "Set the result text of a lab test",
		Args:  cobra.MinimumNArgs(3),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			c, err := a.checkups.SetLabResult(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return printLabTests(cmd, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "attach <visit-id> <test-key> <file...>",
		Short: "Attach result files; ultrasound studies keep every image",
		Args:  cobra.MinimumNArgs(3),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			c, err := a.checkups.AttachLabFiles(cmd.Context(), args[0], args[1], args[2:])
			if err != nil {
				return err
			}
			return printLabTests(cmd, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm-file <visit-id> <test-key> <index>",
		Short: "Remove one attached file, counting from 1",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("%w: index must be a number", domain.ErrInvalidInput)
			}
			c, err := a.checkups.RemoveLabFile(cmd.Context(), args[0], args[1], n-1)
			if err != nil {
				return err
			}
			return printLabTests(cmd, c)
		}),
	})
	return cmd
}

func printLabTests(cmd *cobra.Command, c domain.Checkup) error {
	w := cmd.OutOrStdout()
	if c.LabTests.Len() == 0 {
		fmt.Fprintf(w, "Visit %s has no lab tests\n", c.ID)
		return nil
	}
	for _, e := range c.LabTests.Entries() {
		fmt.Fprintf(w, "%s [%s]: %s\n", domain.LabTestName(e.Key), e.Result.Type, e.Result.Content)
		for i, f := range e.Result.Files {
			fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, f.Name, f.MimeType)
		}
	}
	return nil
}
