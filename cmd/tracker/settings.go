package main

import (
	"fmt"
	"io"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Display preferences",
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			s, err := a.settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		}),
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change theme, font or background colour",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			s, err := a.settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("theme") {
				v, _ := fs.GetString("theme")
				s.Theme = domain.Theme(v)
			}
			if fs.Changed("font") {
				s.FontFamily, _ = fs.GetString("font")
			}
			if fs.Changed("size") {
				s.FontSize, _ = fs.GetString("size")
			}
			if fs.Changed("background") {
				s.Background, _ = fs.GetString("background")
			}
			s, err = a.settings.Update(cmd.Context(), s)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		}),
	}
	setCmd.Flags().String("theme", "", "light or dark")
	setCmd.Flags().String("font", "", "sans, serif, mono or times")
	setCmd.Flags().String("size", "", "small, medium or large")
	setCmd.Flags().String("background", "", "Background colour as #rrggbb")
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "bg-color <#rrggbb>",
		Short: "Use a solid background colour, dropping any image",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			s, err := a.settings.SetBackgroundColor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "bg-image <image>",
		Short: "Use an image (under 2MB) as background",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			s, err := a.settings.SetBackgroundImage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm-bg-image",
		Short: "Remove the background image",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			s, err := a.settings.RemoveBackgroundImage(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "presets",
		Short: "List the offered background colours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range domain.BackgroundPresets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.Value, p.Name)
			}
			return nil
		},
	})
	return cmd
}

func printSettings(w io.Writer, s domain.AppSettings) {
	fmt.Fprintf(w, "Theme:       %s\n", s.Theme)
	fmt.Fprintf(w, "Font:        %s, %s\n", s.FontFamily, s.FontSize)
	backdrop := s.EffectiveBackdrop()
	if backdrop.Image != "" {
		fmt.Fprintln(w, "Background:  image")
		return
	}
	fmt.Fprintf(w, "Background:  %s\n", backdrop.Color)
}
