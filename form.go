package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/models"
)

const formTimeLayout = "2006-01-02 15:04"

var errBadTime = errors.New("use the format YYYY-MM-DD HH:MM")

// parseFormTime reads a date and time typed into a form field
func parseFormTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(formTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", value, errBadTime)
	}
	return t, nil
}

// formatFormTime renders t for a form field
func formatFormTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(formTimeLayout)
}

// newItemFromForm converts the add-schedule form fields into validated input
func newItemFromForm(title, description, start, end string, loc *time.Location) (models.NewItem, error) {
	startTime, err := parseFormTime(start, loc)
	if err != nil {
		return models.NewItem{}, fmt.Errorf("start time %w", err)
	}
	endTime, err := parseFormTime(end, loc)
	if err != nil {
		return models.NewItem{}, fmt.Errorf("end time %w", err)
	}

	item := models.NewItem{
		Title:       title,
		Description: description,
		StartTime:   startTime,
	}
	if !endTime.IsZero() {
		item.EndTime = &endTime
	}
	return item, item.Validate()
}

// leadOptions are the choices offered for the notification lead time
func leadOptions() []string {
	options := make([]string, 0, models.MaxLeadMinutes-models.MinLeadMinutes+1)
	for m := models.MinLeadMinutes; m <= models.MaxLeadMinutes; m++ {
		options = append(options, formatLead(m))
	}
	return options
}

func formatLead(minutes int) string {
	if minutes == 0 {
		return "0 min (off)"
	}
	return fmt.Sprintf("%d min", minutes)
}

func parseLead(option string) (int, error) {
	var minutes int
	if _, err := fmt.Sscanf(option, "%d min", &minutes); err != nil {
		return 0, fmt.Errorf("invalid lead time %q", option)
	}
	return minutes, nil
}

// truncateString shortens s to max runes, adding an ellipsis
func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
