package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/spf13/cobra"
)

func familyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Mother and father profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "show <mother|father>",
		Short:     "Show a parent profile",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ParentMother), string(domain.ParentFather)},
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			p, err := a.family.Get(cmd.Context(), domain.ParentRole(args[0]))
			if err != nil {
				return err
			}
			return printParent(cmd.OutOrStdout(), p)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <mother|father> <field> <value...>",
		Short: "Set one profile field",
		Long:  "Set one profile field. Fields: " + strings.Join(parentFieldNames(), ", "),
		Args:  cobra.MinimumNArgs(3),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			p, err := a.family.SetField(cmd.Context(), domain.ParentRole(args[0]), args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return printParent(cmd.OutOrStdout(), p)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "avatar <mother|father> <image>",
		Short: "Set the profile picture",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if _, err := a.family.SetAvatar(cmd.Context(), domain.ParentRole(args[0]), args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Avatar updated")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm-avatar <mother|father>",
		Short: "Remove the profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if _, err := a.family.RemoveAvatar(cmd.Context(), domain.ParentRole(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Avatar removed")
			return nil
		}),
	})
	return cmd
}

func parentFieldNames() []string {
	names := make([]string, 0, len(domain.ParentFields))
	for _, f := range domain.ParentFields {
		names = append(names, f.Name)
	}
	return names
}

func printParent(w io.Writer, p domain.ParentInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range domain.ParentFields {
		fmt.Fprintf(tw, "%s\t%s\n", f.Label, f.Get(&p))
	}
	if p.Avatar != "" {
		fmt.Fprintln(tw, "Avatar\tset")
	}
	return tw.Flush()
}
