package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidItem is wrapped by every item validation failure
	ErrInvalidItem = errors.New("invalid schedule item")

	ErrTitleRequired  = fmt.Errorf("%w: title is required", ErrInvalidItem)
	ErrStartRequired  = fmt.Errorf("%w: start time is required", ErrInvalidItem)
	ErrEndBeforeStart = fmt.Errorf("%w: end time must be after start time", ErrInvalidItem)
)

// ScheduleItem is a single user-recorded schedule entry
type ScheduleItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"` // nil when the item has no end
	Completed     bool       `json:"completed"`
	NotifiedStart bool       `json:"notified_start"` // start notification already sent
	NotifiedEnd   bool       `json:"notified_end"`   // end notification already sent
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasEnd reports whether the item carries an end boundary
func (i ScheduleItem) HasEnd() bool {
	return i.EndTime != nil && !i.EndTime.IsZero()
}

// BoundaryTime returns the instant of the given boundary and whether it exists
func (i ScheduleItem) BoundaryTime(b Boundary) (time.Time, bool) {
	switch b {
	case BoundaryStart:
		return i.StartTime, !i.StartTime.IsZero()
	case BoundaryEnd:
		if i.HasEnd() {
			return *i.EndTime, true
		}
	}
	return time.Time{}, false
}

// Notified reports whether the notification for the given boundary was sent
func (i ScheduleItem) Notified(b Boundary) bool {
	if b == BoundaryEnd {
		return i.NotifiedEnd
	}
	return i.NotifiedStart
}

// ReferenceTime is the end time when present, otherwise the start time
func (i ScheduleItem) ReferenceTime() time.Time {
	if i.HasEnd() {
		return *i.EndTime
	}
	return i.StartTime
}

// NewItem holds user input for creating a schedule item
type NewItem struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
}

// Validate checks the rules every new item must satisfy
func (n NewItem) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	if n.StartTime.IsZero() {
		return ErrStartRequired
	}
	if n.EndTime != nil && !n.EndTime.IsZero() && !n.EndTime.After(n.StartTime) {
		return ErrEndBeforeStart
	}
	return nil
}

// Build turns validated input into a fresh item with all flags cleared
func (n NewItem) Build(id string, now time.Time) (ScheduleItem, error) {
	if err := n.Validate(); err != nil {
		return ScheduleItem{}, err
	}

	item := ScheduleItem{
		ID:          id,
		Title:       strings.TrimSpace(n.Title),
		Description: strings.TrimSpace(n.Description),
		StartTime:   n.StartTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if n.EndTime != nil && !n.EndTime.IsZero() {
		end := *n.EndTime
		item.EndTime = &end
	}
	return item, nil
}

// ItemPatch is a partial update. Nil fields are left untouched.
// Notified flags are deliberately absent: they only move forward via MarkNotified.
type ItemPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	ClearEnd    bool
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil &&
		p.EndTime == nil && !p.ClearEnd && p.Completed == nil
}

// Apply merges the patch into item and returns the result
func (p ItemPatch) Apply(item ScheduleItem) ScheduleItem {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.StartTime != nil {
		item.StartTime = *p.StartTime
	}
	if p.ClearEnd {
		item.EndTime = nil
	} else if p.EndTime != nil {
		end := *p.EndTime
		item.EndTime = &end
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
	return item
}

// DefaultStart rounds now up to the next quarter hour
func DefaultStart(now time.Time) time.Time {
	rounded := now.Truncate(time.Minute)
	if rem := rounded.Minute() % 15; rem != 0 {
		rounded = rounded.Add(time.Duration(15-rem) * time.Minute)
	}
	return rounded
}
