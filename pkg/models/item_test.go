package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemValidate(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	later := start.Add(time.Hour)
	earlier := start.Add(-time.Minute)

	tests := []struct {
		name    string
		input   NewItem
		wantErr error
	}{
		{"valid without end", NewItem{Title: "Standup", StartTime: start}, nil},
		{"valid with end", NewItem{Title: "Standup", StartTime: start, EndTime: &later}, nil},
		{"blank title", NewItem{Title: "   ", StartTime: start}, ErrTitleRequired},
		{"missing start", NewItem{Title: "Standup"}, ErrStartRequired},
		{"end equals start", NewItem{Title: "Standup", StartTime: start, EndTime: &start}, ErrEndBeforeStart},
		{"end before start", NewItem{Title: "Standup", StartTime: start, EndTime: &earlier}, ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidItem)
		})
	}
}

func TestNewItemBuild(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)
	end := start.Add(30 * time.Minute)

	item, err := NewItem{Title: "  Review  ", Description: " notes ", StartTime: start, EndTime: &end}.Build("id-1", now)
	require.NoError(t, err)

	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, "Review", item.Title)
	assert.Equal(t, "notes", item.Description)
	assert.Equal(t, start, item.StartTime)
	require.NotNil(t, item.EndTime)
	assert.Equal(t, end, *item.EndTime)
	assert.False(t, item.Completed)
	assert.False(t, item.NotifiedStart)
	assert.False(t, item.NotifiedEnd)
	assert.Equal(t, now, item.CreatedAt)
	assert.Equal(t, now, item.UpdatedAt)

	// the built item must not alias the caller's end time
	end = end.Add(time.Hour)
	assert.NotEqual(t, end, *item.EndTime)
}

func TestItemPatchApply(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	item := ScheduleItem{ID: "a", Title: "Old", StartTime: start, EndTime: &end, NotifiedStart: true}

	title := "New"
	done := true
	patched := ItemPatch{Title: &title, Completed: &done}.Apply(item)
	assert.Equal(t, "New", patched.Title)
	assert.True(t, patched.Completed)
	assert.True(t, patched.NotifiedStart, "flags survive a patch")
	assert.Equal(t, end, *patched.EndTime)

	cleared := ItemPatch{ClearEnd: true}.Apply(item)
	assert.Nil(t, cleared.EndTime)
	assert.False(t, cleared.HasEnd())

	assert.True(t, ItemPatch{}.IsEmpty())
	assert.False(t, ItemPatch{ClearEnd: true}.IsEmpty())
}

func TestBoundaryTime(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	item := ScheduleItem{StartTime: start}

	got, ok := item.BoundaryTime(BoundaryStart)
	assert.True(t, ok)
	assert.Equal(t, start, got)

	_, ok = item.BoundaryTime(BoundaryEnd)
	assert.False(t, ok)
	assert.Equal(t, start, item.ReferenceTime())

	end := start.Add(time.Hour)
	item.EndTime = &end
	got, ok = item.BoundaryTime(BoundaryEnd)
	assert.True(t, ok)
	assert.Equal(t, end, got)
	assert.Equal(t, end, item.ReferenceTime())
}

func TestDefaultStart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:00:00", "09:00:00"},
		{"09:00:30", "09:00:00"},
		{"09:01:00", "09:15:00"},
		{"09:15:00", "09:15:00"},
		{"09:44:59", "09:45:00"},
		{"09:46:00", "10:00:00"},
		{"23:50:00", "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in, err := time.Parse("2006-01-02 15:04:05", "2025-03-10 "+tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DefaultStart(in).Format("15:04:05"))
		})
	}
}

func TestBoundaryString(t *testing.T) {
	assert.Equal(t, "start", BoundaryStart.String())
	assert.Equal(t, "end", BoundaryEnd.String())
	assert.Equal(t, "unknown", Boundary(7).String())
}
