package policy

import (
	"fmt"

	"github.com/borgmon/schedule-reminder/pkg/models"
)

const (
	StartTitle = "🚀 Starting soon"
	EndTitle   = "⏰ Ending soon"
)

// Message renders the notification title and body for a due boundary.
// A boundary with no minutes left reads "begins now" or "ends now".
func Message(item models.ScheduleItem, due Due) (string, string) {
	if due.MinutesLeft <= 0 {
		if due.Boundary == models.BoundaryEnd {
			return EndTitle, fmt.Sprintf("\"%s\" ends now", item.Title)
		}
		return StartTitle, fmt.Sprintf("\"%s\" begins now", item.Title)
	}

	unit := "minutes"
	if due.MinutesLeft == 1 {
		unit = "minute"
	}

	if due.Boundary == models.BoundaryEnd {
		return EndTitle, fmt.Sprintf("\"%s\" ends in %d %s", item.Title, due.MinutesLeft, unit)
	}
	return StartTitle, fmt.Sprintf("\"%s\" begins in %d %s", item.Title, due.MinutesLeft, unit)
}
