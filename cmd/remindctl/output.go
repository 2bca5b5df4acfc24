package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/borgmon/schedule-reminder/pkg/agenda"
	"github.com/borgmon/schedule-reminder/pkg/models"
)

const (
	displayLayout = "Mon Jan 2 15:04"
	shortIDLen    = 8
)

var (
	errBadTime     = errors.New("expected RFC 3339, YYYY-MM-DD HH:MM or an offset such as +15m")
	errNoMatch     = errors.New("no schedule item matches")
	errAmbiguousID = errors.New("id prefix matches more than one item")
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderItems(w io.Writer, items []models.ScheduleItem, now time.Time) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Title", "Start", "End", "When", "Status", "Notified"})
	for _, item := range items {
		end := ""
		if item.HasEnd() {
			end = item.EndTime.Local().Format(displayLayout)
		}
		tw.AppendRow(table.Row{
			shortID(item.ID),
			truncate(item.Title, 40),
			item.StartTime.Local().Format(displayLayout),
			end,
			agenda.Relative(item.StartTime, now),
			status(item),
			notified(item),
		})
	}
	open, total := agenda.Counts(items)
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d / %d open", open, total)})
	tw.Render()
}

func renderItem(w io.Writer, item models.ScheduleItem) {
	tw := newTable(w)
	tw.AppendRow(table.Row{"ID", item.ID})
	tw.AppendRow(table.Row{"Title", item.Title})
	if item.Description != "" {
		tw.AppendRow(table.Row{"Description", item.Description})
	}
	tw.AppendRow(table.Row{"Start", item.StartTime.Local().Format(displayLayout)})
	if item.HasEnd() {
		tw.AppendRow(table.Row{"End", item.EndTime.Local().Format(displayLayout)})
	}
	tw.AppendRow(table.Row{"Status", status(item)})
	tw.Render()
}

func status(item models.ScheduleItem) string {
	if item.Completed {
		return "done"
	}
	return "open"
}

func notified(item models.ScheduleItem) string {
	var flags []string
	if item.NotifiedStart {
		flags = append(flags, "start")
	}
	if item.NotifiedEnd {
		flags = append(flags, "end")
	}
	return strings.Join(flags, ",")
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// parseWhen accepts an absolute time in loc or an offset from now such as "+90m" or "-2h"
func parseWhen(value string, now time.Time, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "+") || strings.HasPrefix(value, "-") {
		d, err := time.ParseDuration(value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%q: %w", value, errBadTime)
		}
		return now.Add(d).Truncate(time.Minute), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", value, errBadTime)
}

// resolveID finds the single item whose id equals or starts with prefix
func resolveID(items []models.ScheduleItem, prefix string) (models.ScheduleItem, error) {
	var match *models.ScheduleItem
	for i := range items {
		if items[i].ID == prefix {
			return items[i], nil
		}
		if prefix != "" && strings.HasPrefix(items[i].ID, prefix) {
			if match != nil {
				return models.ScheduleItem{}, fmt.Errorf("%w: %s", errAmbiguousID, prefix)
			}
			match = &items[i]
		}
	}
	if match == nil {
		return models.ScheduleItem{}, fmt.Errorf("%w: %s", errNoMatch, prefix)
	}
	return *match, nil
}
