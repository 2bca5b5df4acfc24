package calendar

import (
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// expandOccurrences returns the instances of a recurring event that may fall
// inside [now, until). It returns nil for events without a recurrence rule.
func expandOccurrences(comp *ical.Component, ev event, now, until time.Time) ([]occurrence, error) {
	set, err := recurrenceSet(comp, ev.start.Location())
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}

	duration := time.Duration(0)
	if !ev.end.IsZero() {
		duration = ev.end.Sub(ev.start)
	}

	// an instance that started before now may still be running
	from := now.Add(-duration)
	starts := set.Between(from, until, true)

	occurrences := make([]occurrence, 0, len(starts))
	for _, start := range starts {
		occ := occurrence{start: start}
		if duration > 0 {
			occ.end = start.Add(duration)
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}

// recurrenceSet combines RRULE, RDATE and EXDATE of comp, or returns nil without RRULE
func recurrenceSet(comp *ical.Component, loc *time.Location) (*rrule.Set, error) {
	if comp.Props.Get(ical.PropRecurrenceRule) == nil {
		return nil, nil
	}
	return comp.RecurrenceSet(loc)
}
