// Package scheduler runs the periodic notification check.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/borgmon/schedule-reminder/pkg/notify"
	"github.com/borgmon/schedule-reminder/pkg/policy"
)

// DefaultInterval is the period between two checks
const DefaultInterval = 60 * time.Second

// ErrAlreadyRunning is returned by Start while a loop is active
var ErrAlreadyRunning = errors.New("poller already running")

// ItemSource lists the current schedule items
type ItemSource interface {
	List() []models.ScheduleItem
}

// SettingsSource returns the current notification settings
type SettingsSource interface {
	Load() models.NotificationSettings
}

// Dispatcher delivers a due boundary
type Dispatcher interface {
	Dispatch(ctx context.Context, item models.ScheduleItem, due policy.Due) notify.Outcome
}

// Options configures a Poller
type Options struct {
	Items      ItemSource
	Settings   SettingsSource
	Engine     policy.Engine
	Dispatcher Dispatcher
	Interval   time.Duration
	Now        func() time.Time
	Logger     *slog.Logger

	// OnDispatch, when set, is called after every dispatch on the loop goroutine
	OnDispatch func(item models.ScheduleItem, due policy.Due, outcome notify.Outcome)
	// OnTick, when set, is called at the end of every pass with the dispatch count
	OnTick func(dispatched int)
}

// Poller evaluates every item on a fixed interval and on demand
type Poller struct {
	opts    Options
	logger  *slog.Logger
	trigger chan struct{}

	mu      sync.Mutex
	running bool
}

// Handle controls a running poll loop
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates a poller. A zero Interval uses DefaultInterval.
func New(opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := logging.Component(opts.Logger, "scheduler")
	if opts.Engine.Logger == nil {
		opts.Engine.Logger = logger
	}

	return &Poller{
		opts:    opts,
		logger:  logger,
		trigger: make(chan struct{}, 1),
	}
}

// Start evaluates immediately and then on every interval until the handle is stopped
// or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil, ErrAlreadyRunning
	}
	p.running = true

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go p.loop(ctx, h.done)

	p.logger.Info("poller started", "interval", p.opts.Interval.String())
	return h, nil
}

// Stop ends the loop and waits for it to exit. Only the first call has an effect.
func (h *Handle) Stop() {
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Done is closed once the loop has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// CheckNow asks the running loop for an extra evaluation. Requests coalesce.
func (p *Poller) CheckNow() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Running reports whether a loop is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.logger.Info("poller stopped")
	}()

	p.Tick(ctx)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		case <-p.trigger:
			p.Tick(ctx)
		}
	}
}

// Tick runs one evaluation pass over all items in listing order and returns
// the number of due boundaries that were dispatched.
func (p *Poller) Tick(ctx context.Context) int {
	settings := p.opts.Settings.Load()
	items := p.opts.Items.List()
	now := p.opts.Now()

	dispatched := 0
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		for _, due := range p.opts.Engine.Evaluate(item, settings, now) {
			outcome := p.opts.Dispatcher.Dispatch(ctx, item, due)
			dispatched++
			if p.opts.OnDispatch != nil {
				p.opts.OnDispatch(item, due, outcome)
			}
		}
	}

	p.logger.Debug("tick complete",
		"items", len(items),
		"dispatched", dispatched,
		"lead_minutes", settings.LeadMinutes,
	)
	if p.opts.OnTick != nil {
		p.opts.OnTick(dispatched)
	}
	return dispatched
}
