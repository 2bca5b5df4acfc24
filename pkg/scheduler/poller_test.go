package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/borgmon/schedule-reminder/pkg/notify"
	"github.com/borgmon/schedule-reminder/pkg/policy"
	"github.com/borgmon/schedule-reminder/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type dispatched struct {
	id       string
	boundary models.Boundary
}

// recordingDispatcher marks every boundary it sees, like a granted notifier would
type recordingDispatcher struct {
	mu     sync.Mutex
	marker notify.Marker
	calls  []dispatched
}

func (r *recordingDispatcher) Dispatch(_ context.Context, item models.ScheduleItem, due policy.Due) notify.Outcome {
	r.mu.Lock()
	r.calls = append(r.calls, dispatched{item.ID, due.Boundary})
	r.mu.Unlock()
	if r.marker != nil {
		r.marker.MarkNotified(item.ID, due.Boundary)
	}
	return notify.Delivered
}

func (r *recordingDispatcher) Calls() []dispatched {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dispatched(nil), r.calls...)
}

type fixture struct {
	clock    *clock
	repo     *store.ScheduleRepository
	settings *store.SettingsStore
	disp     *recordingDispatcher
	poller   *Poller
}

func newFixture(t *testing.T, interval time.Duration) *fixture {
	t.Helper()
	kv := store.NewPrefsKV(test.NewApp().Preferences())
	c := &clock{now: base}

	repo := store.NewScheduleRepository(kv, logging.Discard())
	repo.Now = c.Now
	settings := store.NewSettingsStore(kv, logging.Discard())
	disp := &recordingDispatcher{marker: repo}

	p := New(Options{
		Items:      repo,
		Settings:   settings,
		Dispatcher: disp,
		Interval:   interval,
		Now:        c.Now,
		Logger:     logging.Discard(),
	})
	return &fixture{clock: c, repo: repo, settings: settings, disp: disp, poller: p}
}

func (f *fixture) add(t *testing.T, title string, start time.Duration, end *time.Duration) models.ScheduleItem {
	t.Helper()
	input := models.NewItem{Title: title, StartTime: base.Add(start)}
	if end != nil {
		e := base.Add(*end)
		input.EndTime = &e
	}
	item, err := f.repo.Create(input)
	require.NoError(t, err)
	return item
}

func dur(d time.Duration) *time.Duration { return &d }

func TestNewDefaults(t *testing.T) {
	p := New(Options{})
	assert.Equal(t, DefaultInterval, p.opts.Interval)
	assert.NotNil(t, p.opts.Now)
}

func TestTickDispatchesInListingOrder(t *testing.T) {
	f := newFixture(t, time.Hour)
	a := f.add(t, "A", 8*time.Minute, nil)
	f.add(t, "later", 30*time.Minute, nil)
	b := f.add(t, "B", 2*time.Minute, dur(9*time.Minute))

	n := f.poller.Tick(context.Background())
	assert.Equal(t, 3, n)
	assert.Equal(t, []dispatched{
		{a.ID, models.BoundaryStart},
		{b.ID, models.BoundaryStart},
		{b.ID, models.BoundaryEnd},
	}, f.disp.Calls())

	// flags make the next pass a no-op
	assert.Zero(t, f.poller.Tick(context.Background()))
}

func TestTickStartThenEnd(t *testing.T) {
	f := newFixture(t, time.Hour)
	item := f.add(t, "Standup", 5*time.Minute, dur(20*time.Minute))

	require.Equal(t, 1, f.poller.Tick(context.Background()))
	got, _ := f.repo.Get(item.ID)
	assert.True(t, got.NotifiedStart)
	assert.False(t, got.NotifiedEnd)

	f.clock.Advance(10 * time.Minute)
	require.Equal(t, 1, f.poller.Tick(context.Background()))
	got, _ = f.repo.Get(item.ID)
	assert.True(t, got.NotifiedEnd)
}

func TestTickUsesCurrentSettings(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.add(t, "Soon", 4*time.Minute, nil)

	require.NoError(t, f.settings.Save(models.NotificationSettings{LeadMinutes: 3}))
	assert.Zero(t, f.poller.Tick(context.Background()))

	require.NoError(t, f.settings.Save(models.NotificationSettings{LeadMinutes: 5}))
	assert.Equal(t, 1, f.poller.Tick(context.Background()))
}

func TestTickMissedBoundaryNeverFires(t *testing.T) {
	f := newFixture(t, time.Hour)
	require.NoError(t, f.settings.Save(models.NotificationSettings{LeadMinutes: 0}))
	item := f.add(t, "Past", -time.Second, nil)

	assert.Zero(t, f.poller.Tick(context.Background()))
	f.clock.Advance(time.Hour)
	assert.Zero(t, f.poller.Tick(context.Background()))

	got, _ := f.repo.Get(item.ID)
	assert.False(t, got.NotifiedStart)
}

func TestTickSkipsCompleted(t *testing.T) {
	f := newFixture(t, time.Hour)
	item := f.add(t, "Done", 5*time.Minute, nil)
	require.NoError(t, f.repo.ToggleCompleted(item.ID))

	assert.Zero(t, f.poller.Tick(context.Background()))
}

func TestTickReportsOutcome(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.add(t, "Soon", 5*time.Minute, nil)

	var outcomes []notify.Outcome
	var ticks []int
	f.poller.opts.OnDispatch = func(_ models.ScheduleItem, _ policy.Due, o notify.Outcome) {
		outcomes = append(outcomes, o)
	}
	f.poller.opts.OnTick = func(n int) {
		ticks = append(ticks, n)
	}
	f.poller.Tick(context.Background())
	f.poller.Tick(context.Background())
	assert.Equal(t, []notify.Outcome{notify.Delivered}, outcomes)
	assert.Equal(t, []int{1, 0}, ticks)
}

func TestStartEvaluatesImmediately(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.add(t, "Soon", 5*time.Minute, nil)

	h, err := f.poller.Start(context.Background())
	require.NoError(t, err)
	defer h.Stop()

	assert.Eventually(t, func() bool { return len(f.disp.Calls()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStartTwiceFails(t *testing.T) {
	f := newFixture(t, time.Hour)

	h, err := f.poller.Start(context.Background())
	require.NoError(t, err)

	_, err = f.poller.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	h.Stop()
	h.Stop()
	assert.False(t, f.poller.Running())

	h, err = f.poller.Start(context.Background())
	require.NoError(t, err)
	h.Stop()
}

func TestTickerFiresOnInterval(t *testing.T) {
	f := newFixture(t, 10*time.Millisecond)

	h, err := f.poller.Start(context.Background())
	require.NoError(t, err)
	defer h.Stop()

	// added after the first pass, picked up by a later tick
	f.add(t, "Soon", 5*time.Minute, nil)
	assert.Eventually(t, func() bool { return len(f.disp.Calls()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestCheckNow(t *testing.T) {
	f := newFixture(t, time.Hour)

	h, err := f.poller.Start(context.Background())
	require.NoError(t, err)
	defer h.Stop()

	f.add(t, "Just created", 3*time.Minute, nil)
	f.poller.CheckNow()
	f.poller.CheckNow()

	assert.Eventually(t, func() bool { return len(f.disp.Calls()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestContextCancelStopsLoop(t *testing.T) {
	f := newFixture(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	h, err := f.poller.Start(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after cancel")
	}
	assert.False(t, f.poller.Running())
	h.Stop()
}
