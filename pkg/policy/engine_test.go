package policy

import (
	"math/rand"
	"testing"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func item(start time.Duration, end *time.Duration) models.ScheduleItem {
	it := models.ScheduleItem{ID: "id-1", Title: "Standup", StartTime: now.Add(start)}
	if end != nil {
		e := now.Add(*end)
		it.EndTime = &e
	}
	return it
}

func dur(d time.Duration) *time.Duration { return &d }

func settings(lead int) models.NotificationSettings {
	return models.NotificationSettings{LeadMinutes: lead}
}

func TestEvaluateStartDueEndNot(t *testing.T) {
	e := Engine{Logger: logging.Discard()}
	it := item(5*time.Minute, dur(20*time.Minute))

	due := e.Evaluate(it, settings(10), now)
	require.Len(t, due, 1)
	assert.Equal(t, models.BoundaryStart, due[0].Boundary)
	assert.Equal(t, 5, due[0].MinutesLeft)
	assert.True(t, due[0].At.Equal(it.StartTime))

	it.NotifiedStart = true
	assert.Empty(t, e.Evaluate(it, settings(10), now))

	// ten minutes later the end boundary enters the window
	due = e.Evaluate(it, settings(10), now.Add(10*time.Minute))
	require.Len(t, due, 1)
	assert.Equal(t, models.BoundaryEnd, due[0].Boundary)
	assert.Equal(t, 10, due[0].MinutesLeft)
}

func TestEvaluateBothBoundariesStartFirst(t *testing.T) {
	due := Engine{}.Evaluate(item(2*time.Minute, dur(8*time.Minute)), settings(10), now)
	require.Len(t, due, 2)
	assert.Equal(t, models.BoundaryStart, due[0].Boundary)
	assert.Equal(t, models.BoundaryEnd, due[1].Boundary)
}

func TestEvaluateCompletedNeverDue(t *testing.T) {
	e := Engine{}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		start := time.Duration(rng.Intn(40)-20) * time.Minute
		end := start + time.Duration(rng.Intn(30)+1)*time.Minute
		it := item(start, &end)
		it.Completed = true
		assert.Empty(t, e.Evaluate(it, settings(rng.Intn(11)), now), "start=%s end=%s", start, end)
	}
}

func TestEvaluateNotifiedNeverDue(t *testing.T) {
	e := Engine{}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		start := time.Duration(rng.Intn(600)) * time.Second
		end := start + time.Duration(rng.Intn(600)+1)*time.Second
		it := item(start, &end)
		it.NotifiedStart = true
		it.NotifiedEnd = true
		assert.Empty(t, e.Evaluate(it, settings(10), now))
	}
}

func TestEvaluateWindowMatchesLead(t *testing.T) {
	e := Engine{}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		lead := rng.Intn(11)
		offset := time.Duration(rng.Intn(30*60)-10*60) * time.Second
		it := item(offset, nil)

		want := offset > 0 && offset <= time.Duration(lead)*time.Minute
		got := len(e.Evaluate(it, settings(lead), now)) == 1
		assert.Equal(t, want, got, "lead=%d offset=%s", lead, offset)
	}
}

func TestIsDueEdges(t *testing.T) {
	lead := 10 * time.Minute
	tests := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{"exactly now", 0, false},
		{"just after now", time.Nanosecond, true},
		{"exactly at lead", lead, true},
		{"just past lead", lead + time.Nanosecond, false},
		{"already past", -time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(now.Add(tt.offset), lead, now))
		})
	}
}

func TestLeadZeroSkipsPastStart(t *testing.T) {
	it := item(-time.Second, nil)
	assert.Empty(t, Engine{}.Evaluate(it, settings(0), now))

	// a start exactly at now is also outside the empty window
	assert.Empty(t, Engine{}.Evaluate(item(0, nil), settings(0), now))
}

func TestMinutesUntilRoundsUp(t *testing.T) {
	assert.Equal(t, 1, MinutesUntil(now.Add(time.Second), now))
	assert.Equal(t, 1, MinutesUntil(now.Add(time.Minute), now))
	assert.Equal(t, 5, MinutesUntil(now.Add(4*time.Minute+30*time.Second), now))
	assert.Equal(t, 10, MinutesUntil(now.Add(10*time.Minute), now))
}

func TestMessage(t *testing.T) {
	it := models.ScheduleItem{Title: "Standup"}

	title, body := Message(it, Due{Boundary: models.BoundaryStart, MinutesLeft: 5})
	assert.Equal(t, "🚀 Starting soon", title)
	assert.Equal(t, `"Standup" begins in 5 minutes`, body)

	title, body = Message(it, Due{Boundary: models.BoundaryEnd, MinutesLeft: 1})
	assert.Equal(t, "⏰ Ending soon", title)
	assert.Equal(t, `"Standup" ends in 1 minute`, body)

	_, body = Message(it, Due{Boundary: models.BoundaryStart, MinutesLeft: 0})
	assert.Equal(t, `"Standup" begins now`, body)

	title, body = Message(it, Due{Boundary: models.BoundaryEnd, MinutesLeft: 0})
	assert.Equal(t, "⏰ Ending soon", title)
	assert.Equal(t, `"Standup" ends now`, body)
}
