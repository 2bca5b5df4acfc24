// Package policy decides which item boundaries are due for a notification.
package policy

import (
	"log/slog"
	"math"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/models"
)

// Due is a boundary that should be notified now
type Due struct {
	Boundary    models.Boundary
	At          time.Time
	MinutesLeft int
}

// Engine evaluates items against the notification settings. The zero value is usable.
type Engine struct {
	Logger *slog.Logger
}

// Evaluate returns the boundaries of item that are due at now, start before end.
// Completed items and already-notified boundaries are never due.
func (e Engine) Evaluate(item models.ScheduleItem, settings models.NotificationSettings, now time.Time) []Due {
	if item.Completed {
		return nil
	}

	lead := settings.Lead()
	var due []Due
	for _, b := range models.Boundaries {
		at, ok := item.BoundaryTime(b)
		if !ok || item.Notified(b) {
			continue
		}
		if !IsDue(at, lead, now) {
			continue
		}
		d := Due{Boundary: b, At: at, MinutesLeft: MinutesUntil(at, now)}
		if e.Logger != nil {
			e.Logger.Debug("boundary due",
				"item", item.ID,
				"boundary", b.String(),
				"minutes_left", d.MinutesLeft,
			)
		}
		due = append(due, d)
	}
	return due
}

// IsDue reports whether at falls in the window (now, now+lead]
func IsDue(at time.Time, lead time.Duration, now time.Time) bool {
	return at.After(now) && !at.After(now.Add(lead))
}

// MinutesUntil returns the whole minutes from now to at, rounded up
func MinutesUntil(at, now time.Time) int {
	return int(math.Ceil(at.Sub(now).Minutes()))
}
