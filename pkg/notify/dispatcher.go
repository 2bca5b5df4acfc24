package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/borgmon/schedule-reminder/pkg/policy"
)

// Outcome describes what a single dispatch did
type Outcome int

const (
	// Delivered: shown and flagged
	Delivered Outcome = iota
	// Dropped: permission denied or unsupported, flagged without showing
	Dropped
	// Pending: waiting on a permission request, nothing flagged yet
	Pending
	// Failed: display failed, left unflagged so the next tick retries
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Dropped:
		return "dropped"
	case Pending:
		return "pending"
	default:
		return "failed"
	}
}

// Marker records that a boundary was handled
type Marker interface {
	MarkNotified(id string, b models.Boundary) error
}

type pendingKey struct {
	id       string
	boundary models.Boundary
}

// Dispatcher shows due boundaries and sets their notified flags
type Dispatcher struct {
	notifier Notifier
	chime    Chime
	marker   Marker
	logger   *slog.Logger

	// Now is the clock used to refresh the minutes left after a permission prompt
	Now func() time.Time

	mu          sync.Mutex
	pending     map[pendingKey]struct{}
	dropNoticed bool
	wg          sync.WaitGroup
}

// NewDispatcher creates a dispatcher. chime may be nil for silent delivery.
func NewDispatcher(notifier Notifier, chime Chime, marker Marker, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		chime:    chime,
		marker:   marker,
		logger:   logging.Component(logger, "dispatcher"),
		pending:  make(map[pendingKey]struct{}),
		Now:      time.Now,
	}
}

// Dispatch delivers one due boundary of item. It never blocks on a permission prompt.
func (d *Dispatcher) Dispatch(ctx context.Context, item models.ScheduleItem, due policy.Due) Outcome {
	switch perm := d.notifier.Permission(); perm {
	case Granted:
		return d.deliver(item, due)
	case Undetermined:
		d.requestThenDeliver(ctx, item, due)
		return Pending
	default:
		return d.drop(item, due, perm)
	}
}

// Wait blocks until every outstanding permission request has resolved
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) requestThenDeliver(ctx context.Context, item models.ScheduleItem, due policy.Due) {
	key := pendingKey{id: item.ID, boundary: due.Boundary}

	d.mu.Lock()
	if _, inFlight := d.pending[key]; inFlight {
		d.mu.Unlock()
		return
	}
	d.pending[key] = struct{}{}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			d.mu.Lock()
			delete(d.pending, key)
			d.mu.Unlock()
		}()

		switch perm := d.notifier.RequestPermission(ctx); perm {
		case Granted:
			d.deliver(item, d.refresh(due))
		case Undetermined:
			// prompt abandoned: leave the boundary for the next tick
			d.logger.Debug("permission request unresolved", "item", item.ID)
		default:
			d.drop(item, due, perm)
		}
	}()
}

// refresh recomputes the minutes left of a due boundary that waited on a prompt
func (d *Dispatcher) refresh(due policy.Due) policy.Due {
	if left := policy.MinutesUntil(due.At, d.Now()); left < due.MinutesLeft {
		due.MinutesLeft = max(left, 0)
	}
	return due
}

func (d *Dispatcher) deliver(item models.ScheduleItem, due policy.Due) Outcome {
	title, body := policy.Message(item, due)

	if err := d.notifier.Show(title, body); err != nil {
		d.logger.Error("failed to show notification",
			"item", item.ID,
			"boundary", due.Boundary.String(),
			"error", err,
		)
		return Failed
	}

	if d.chime != nil {
		if err := d.chime.Play(); err != nil {
			d.logger.Warn("failed to play chime", "error", err)
		}
	}

	d.mark(item, due)
	d.logger.Info("notification delivered",
		"item", item.ID,
		"boundary", due.Boundary.String(),
		"minutes_left", due.MinutesLeft,
	)
	return Delivered
}

func (d *Dispatcher) drop(item models.ScheduleItem, due policy.Due, perm Permission) Outcome {
	d.mu.Lock()
	first := !d.dropNoticed
	d.dropNoticed = true
	d.mu.Unlock()

	if first {
		d.logger.Warn("notifications are not permitted, reminders will be skipped", "permission", perm.String())
	}

	d.mark(item, due)
	return Dropped
}

func (d *Dispatcher) mark(item models.ScheduleItem, due policy.Due) {
	if err := d.marker.MarkNotified(item.ID, due.Boundary); err != nil {
		// the boundary fires again on the next tick
		d.logger.Error("failed to record notification",
			"item", item.ID,
			"boundary", due.Boundary.String(),
			"error", err,
		)
	}
}
