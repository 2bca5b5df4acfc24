// Package agenda prepares schedule items for display.
package agenda

import (
	"fmt"
	"sort"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/models"
)

const (
	// HideCompletedAfter is how long a completed item stays visible past its reference time
	HideCompletedAfter = 24 * time.Hour

	urgentWithin = 10 * time.Minute
)

// Visible filters out completed items whose end (or start) is more than a day old
// and returns the rest sorted by start time
func Visible(items []models.ScheduleItem, now time.Time) []models.ScheduleItem {
	visible := make([]models.ScheduleItem, 0, len(items))
	for _, item := range items {
		if item.Completed && now.Sub(item.ReferenceTime()) >= HideCompletedAfter {
			continue
		}
		visible = append(visible, item)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].StartTime.Before(visible[j].StartTime)
	})
	return visible
}

// Counts returns the number of open and total items
func Counts(items []models.ScheduleItem) (open, total int) {
	for _, item := range items {
		if !item.Completed {
			open++
		}
	}
	return open, len(items)
}

// Label describes a point in time relative to now
type Label struct {
	At       time.Time
	Relative string
	Past     bool
	Urgent   bool
}

// Describe builds the label for at
func Describe(at, now time.Time) Label {
	diff := at.Sub(now)
	return Label{
		At:       at,
		Relative: Relative(at, now),
		Past:     diff < 0,
		Urgent:   diff > 0 && diff <= urgentWithin,
	}
}

// Relative renders at as "in 5 min", "3 h ago" and so on. Times a week or more ahead render empty.
func Relative(at, now time.Time) string {
	diff := at.Sub(now)
	if diff < 0 {
		ago := -diff
		switch {
		case ago < time.Hour:
			return fmt.Sprintf("%d min ago", ceilDiv(ago, time.Minute))
		case ago < 24*time.Hour:
			return fmt.Sprintf("%d h ago", ceilDiv(ago, time.Hour))
		default:
			return "passed"
		}
	}

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("in %d min", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("in %d h", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("in %d d", int(diff/(24*time.Hour)))
	default:
		return ""
	}
}

// ceilDiv mirrors flooring a negative difference, so 30s ago reads as "1 min ago"
func ceilDiv(d, unit time.Duration) int {
	return int((d + unit - 1) / unit)
}

// Upcoming is a future boundary of an open item
type Upcoming struct {
	Item     models.ScheduleItem
	Boundary models.Boundary
	At       time.Time
}

// UpcomingBoundaries returns up to limit future boundaries of open items,
// soonest first, falling before until. A zero until means no upper bound.
func UpcomingBoundaries(items []models.ScheduleItem, now, until time.Time, limit int) []Upcoming {
	var upcoming []Upcoming
	for _, item := range items {
		if item.Completed {
			continue
		}
		for _, b := range models.Boundaries {
			at, ok := item.BoundaryTime(b)
			if !ok || !at.After(now) {
				continue
			}
			if !until.IsZero() && !at.Before(until) {
				continue
			}
			upcoming = append(upcoming, Upcoming{Item: item, Boundary: b, At: at})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].At.Before(upcoming[j].At)
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// EndOfDay returns midnight following now in now's location
func EndOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
