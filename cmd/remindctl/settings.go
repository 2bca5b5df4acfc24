package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/borgmon/schedule-reminder/pkg/models"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "Show or change notification settings"}
	cmd.AddCommand(c.settingsShowCmd())
	cmd.AddCommand(c.settingsSetCmd())
	cmd.AddCommand(c.settingsResetCmd())
	return cmd
}

func (c *cli) printSettings(settings models.NotificationSettings) error {
	if c.v.GetBool("json") {
		return printJSON(c.out, settings)
	}
	if settings.LeadMinutes == 0 {
		fmt.Fprintln(c.out, "lead_minutes: 0 (reminders off)")
		return nil
	}
	fmt.Fprintf(c.out, "lead_minutes: %d\n", settings.LeadMinutes)
	return nil
}

func (c *cli) settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				return c.printSettings(s.settings.Load())
			})
		},
	}
}

func (c *cli) settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <lead-minutes>",
		Short: "Set how many minutes (0-10) before a boundary to notify",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("lead minutes must be a whole number: %q", args[0])
			}
			settings := models.NotificationSettings{LeadMinutes: minutes}
			return c.withStores(func(s *stores) error {
				if err := s.settings.Save(settings); err != nil {
					return err
				}
				return c.printSettings(settings)
			})
		},
	}
}

func (c *cli) settingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				if err := s.settings.Reset(); err != nil {
					return err
				}
				return c.printSettings(s.settings.Load())
			})
		},
	}
}
