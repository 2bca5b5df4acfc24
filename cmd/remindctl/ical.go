package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/borgmon/schedule-reminder/pkg/calendar"
)

type importSummary struct {
	Found   int `json:"found"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

func (c *cli) importCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Add upcoming events from an iCalendar file or URL",
		Long: `Reads a .ics file or http(s) URL and adds every event starting within the
next week. Recurring events are expanded. Events already present with the same
title and start are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := c.newImporter().Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return c.withStores(func(s *stores) error {
				fresh := calendar.Merge(s.repo.List(), incoming)
				summary := importSummary{Found: len(incoming), Skipped: len(incoming) - len(fresh)}

				for _, input := range fresh {
					if dryRun {
						fmt.Fprintf(c.out, "would add %s at %s\n", input.Title, input.StartTime.Local().Format(displayLayout))
						continue
					}
					if _, err := s.repo.Create(input); err != nil {
						return err
					}
					summary.Added++
				}

				if c.v.GetBool("json") {
					return printJSON(c.out, summary)
				}
				fmt.Fprintf(c.out, "found %d events, added %d, skipped %d already present\n",
					summary.Found, summary.Added, summary.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be added without saving")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all schedule items as an iCalendar document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				items := s.repo.List()
				if len(args) == 0 || args[0] == "-" {
					return calendar.Export(c.out, items, c.now())
				}

				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				if err := calendar.Export(f, items, c.now()); err != nil {
					f.Close()
					os.Remove(args[0])
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "exported %d items to %s\n", len(items), args[0])
				return nil
			})
		},
	}
}
