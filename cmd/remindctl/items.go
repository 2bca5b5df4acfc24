package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/borgmon/schedule-reminder/pkg/agenda"
	"github.com/borgmon/schedule-reminder/pkg/models"
)

func (c *cli) addCmd() *cobra.Command {
	var description, start, end string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a schedule item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := c.now()
			input := models.NewItem{
				Title:       args[0],
				Description: description,
			}
			if start == "" {
				input.StartTime = models.DefaultStart(now)
			} else {
				t, err := parseWhen(start, now, time.Local)
				if err != nil {
					return fmt.Errorf("start: %w", err)
				}
				input.StartTime = t
			}
			if end != "" {
				t, err := parseWhen(end, now, time.Local)
				if err != nil {
					return fmt.Errorf("end: %w", err)
				}
				input.EndTime = &t
			}

			return c.withStores(func(s *stores) error {
				item, err := s.repo.Create(input)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return printJSON(c.out, item)
				}
				renderItem(c.out, item)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "free-form notes")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start time (default: next quarter hour)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "optional end time")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List schedule items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				now := c.now()
				items := s.repo.List()
				if !all {
					items = agenda.Visible(items, now)
				}
				if c.v.GetBool("json") {
					if items == nil {
						items = []models.ScheduleItem{}
					}
					return printJSON(c.out, items)
				}
				if len(items) == 0 {
					fmt.Fprintln(c.out, "No schedule items.")
					return nil
				}
				renderItems(c.out, items, now)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed items that ended more than a day ago")
	return cmd
}

func (c *cli) upcomingCmd() *cobra.Command {
	var within time.Duration
	var limit int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next starts and ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				now := c.now()
				var until time.Time
				if within > 0 {
					until = now.Add(within)
				}
				upcoming := agenda.UpcomingBoundaries(s.repo.List(), now, until, limit)

				if c.v.GetBool("json") {
					type entry struct {
						ID       string    `json:"id"`
						Title    string    `json:"title"`
						Boundary string    `json:"boundary"`
						At       time.Time `json:"at"`
					}
					out := make([]entry, 0, len(upcoming))
					for _, u := range upcoming {
						out = append(out, entry{ID: u.Item.ID, Title: u.Item.Title, Boundary: u.Boundary.String(), At: u.At})
					}
					return printJSON(c.out, out)
				}
				if len(upcoming) == 0 {
					fmt.Fprintln(c.out, "Nothing coming up.")
					return nil
				}
				tw := newTable(c.out)
				tw.AppendHeader(table.Row{"At", "", "Title", "ID"})
				for _, u := range upcoming {
					tw.AppendRow(table.Row{
						u.At.Local().Format(displayLayout) + " (" + agenda.Relative(u.At, now) + ")",
						u.Boundary.String(),
						truncate(u.Item.Title, 40),
						shortID(u.Item.ID),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&within, "within", 24*time.Hour, "look-ahead window, 0 for no limit")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum rows, 0 for no limit")
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var title, description, start, end string
	var clearEnd bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a schedule item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := c.now()
			var patch models.ItemPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("start") {
				t, err := parseWhen(start, now, time.Local)
				if err != nil {
					return fmt.Errorf("start: %w", err)
				}
				patch.StartTime = &t
			}
			if cmd.Flags().Changed("end") {
				t, err := parseWhen(end, now, time.Local)
				if err != nil {
					return fmt.Errorf("end: %w", err)
				}
				patch.EndTime = &t
			}
			patch.ClearEnd = clearEnd
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update")
			}

			return c.withStores(func(s *stores) error {
				item, err := resolveID(s.repo.List(), args[0])
				if err != nil {
					return err
				}
				updated := patch.Apply(item)
				check := models.NewItem{
					Title:     updated.Title,
					StartTime: updated.StartTime,
					EndTime:   updated.EndTime,
				}
				if err := check.Validate(); err != nil {
					return err
				}
				if err := s.repo.Update(item.ID, patch); err != nil {
					return err
				}
				item, _ = s.repo.Get(item.ID)
				if c.v.GetBool("json") {
					return printJSON(c.out, item)
				}
				renderItem(c.out, item)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVarP(&start, "start", "s", "", "new start time")
	cmd.Flags().StringVarP(&end, "end", "e", "", "new end time")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "remove the end time")
	cmd.MarkFlagsMutuallyExclusive("end", "clear-end")
	return cmd
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle the completed state of a schedule item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				item, err := resolveID(s.repo.List(), args[0])
				if err != nil {
					return err
				}
				if err := s.repo.ToggleCompleted(item.ID); err != nil {
					return err
				}
				item, _ = s.repo.Get(item.ID)
				if c.v.GetBool("json") {
					return printJSON(c.out, item)
				}
				fmt.Fprintf(c.out, "%s is now %s\n", item.Title, status(item))
				return nil
			})
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a schedule item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				item, err := resolveID(s.repo.List(), args[0])
				if err != nil {
					return err
				}
				if err := s.repo.Delete(item.ID); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "deleted %s (%s)\n", item.Title, shortID(item.ID))
				return nil
			})
		},
	}
}
