package agenda

import (
	"testing"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return now.Add(d) }

func ptr(t time.Time) *time.Time { return &t }

func ids(items []models.ScheduleItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestVisible(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "later", StartTime: at(3 * time.Hour)},
		{ID: "old-done", StartTime: at(-50 * time.Hour), Completed: true},
		{ID: "old-open", StartTime: at(-50 * time.Hour)},
		{ID: "done-recent", StartTime: at(-23 * time.Hour), Completed: true},
		{ID: "done-long", StartTime: at(-30 * time.Hour), EndTime: ptr(at(-2 * time.Hour)), Completed: true},
		{ID: "done-exact", StartTime: at(-24 * time.Hour), Completed: true},
		{ID: "soon", StartTime: at(time.Hour)},
	}

	got := Visible(items, now)
	assert.Equal(t, []string{"old-open", "done-long", "done-recent", "soon", "later"}, ids(got))
}

func TestVisibleStableForEqualStarts(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "a", StartTime: at(time.Hour)},
		{ID: "b", StartTime: at(time.Hour)},
		{ID: "c", StartTime: at(time.Hour)},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Visible(items, now)))
}

func TestCounts(t *testing.T) {
	open, total := Counts([]models.ScheduleItem{{}, {Completed: true}, {}})
	assert.Equal(t, 2, open)
	assert.Equal(t, 3, total)
}

func TestRelative(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{5 * time.Minute, "in 5 min"},
		{59*time.Minute + 59*time.Second, "in 59 min"},
		{90 * time.Minute, "in 1 h"},
		{23 * time.Hour, "in 23 h"},
		{3 * 24 * time.Hour, "in 3 d"},
		{8 * 24 * time.Hour, ""},
		{-30 * time.Second, "1 min ago"},
		{-45 * time.Minute, "45 min ago"},
		{-3 * time.Hour, "3 h ago"},
		{-48 * time.Hour, "passed"},
	}
	for _, tt := range tests {
		t.Run(tt.offset.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(at(tt.offset), now))
		})
	}
}

func TestDescribe(t *testing.T) {
	l := Describe(at(10*time.Minute), now)
	assert.True(t, l.Urgent)
	assert.False(t, l.Past)

	l = Describe(at(11*time.Minute), now)
	assert.False(t, l.Urgent)

	l = Describe(at(-time.Minute), now)
	assert.True(t, l.Past)
	assert.False(t, l.Urgent)
}

func TestUpcomingBoundaries(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "meeting", StartTime: at(2 * time.Hour), EndTime: ptr(at(3 * time.Hour))},
		{ID: "running", StartTime: at(-time.Hour), EndTime: ptr(at(30 * time.Minute))},
		{ID: "done", StartTime: at(time.Minute), Completed: true},
		{ID: "tomorrow", StartTime: at(14 * time.Hour)},
	}

	got := UpcomingBoundaries(items, now, EndOfDay(now), 0)
	require.Len(t, got, 3)
	assert.Equal(t, "running", got[0].Item.ID)
	assert.Equal(t, models.BoundaryEnd, got[0].Boundary)
	assert.Equal(t, "meeting", got[1].Item.ID)
	assert.Equal(t, models.BoundaryStart, got[1].Boundary)
	assert.Equal(t, models.BoundaryEnd, got[2].Boundary)

	assert.Len(t, UpcomingBoundaries(items, now, time.Time{}, 0), 4)
	assert.Len(t, UpcomingBoundaries(items, now, time.Time{}, 2), 2)
}

func TestEndOfDay(t *testing.T) {
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), EndOfDay(now))
}
