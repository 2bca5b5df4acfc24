package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/emersion/go-ical"
)

// ProductID identifies calendars written by this program
const ProductID = "-//borgmon//Schedule Reminder//EN"

// ErrNothingToExport is returned by Export for an empty item list
var ErrNothingToExport = errors.New("no schedule items to export")

// Export writes items as a single VCALENDAR with one VEVENT per item. Times are written in UTC.
func Export(w io.Writer, items []models.ScheduleItem, now time.Time) error {
	if len(items) == 0 {
		return ErrNothingToExport
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	stamp := now.UTC()
	for _, item := range items {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, item.ID)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		ev.Props.SetDateTime(ical.PropDateTimeStart, item.StartTime.UTC())
		if item.HasEnd() {
			ev.Props.SetDateTime(ical.PropDateTimeEnd, item.EndTime.UTC())
		}
		ev.Props.SetText(ical.PropSummary, item.Title)
		if item.Description != "" {
			ev.Props.SetText(ical.PropDescription, item.Description)
		}
		if !item.UpdatedAt.IsZero() {
			ev.Props.SetDateTime(ical.PropLastModified, item.UpdatedAt.UTC())
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// Merge drops incoming items that already exist (same title and start) and returns the rest
func Merge(existing []models.ScheduleItem, incoming []models.NewItem) []models.NewItem {
	seen := make(map[string]bool, len(existing))
	for _, item := range existing {
		seen[mergeKey(item.Title, item.StartTime)] = true
	}

	fresh := make([]models.NewItem, 0, len(incoming))
	for _, item := range incoming {
		key := mergeKey(item.Title, item.StartTime)
		if seen[key] {
			continue
		}
		seen[key] = true
		fresh = append(fresh, item)
	}
	return fresh
}

func mergeKey(title string, start time.Time) string {
	return title + "|" + start.UTC().Format(time.RFC3339)
}
