package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/google/uuid"
)

const (
	itemsKey        = "schedule_items"
	corruptItemsKey = "schedule_items.corrupt"
)

// ScheduleRepository persists schedule items as one JSON array in a KV store.
// All read-modify-write cycles are serialized so the UI and the poller never
// overwrite each other's changes.
type ScheduleRepository struct {
	mu     sync.Mutex
	kv     KV
	logger *slog.Logger

	// Now and NewID may be replaced in tests
	Now   func() time.Time
	NewID func() string
}

// NewScheduleRepository creates a repository over kv
func NewScheduleRepository(kv KV, logger *slog.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		kv:     kv,
		logger: logging.Component(logger, "repository"),
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// List returns every stored item in insertion order. Unreadable data yields an empty slice.
func (r *ScheduleRepository) List() []models.ScheduleItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		r.logger.Error("failed to load schedule items", "error", err)
		return []models.ScheduleItem{}
	}
	return items
}

// Get returns the item with the given id
func (r *ScheduleRepository) Get(id string) (models.ScheduleItem, bool) {
	for _, item := range r.List() {
		if item.ID == id {
			return item, true
		}
	}
	return models.ScheduleItem{}, false
}

// Add appends a fully formed item
func (r *ScheduleRepository) Add(item models.ScheduleItem) error {
	return r.mutate(func(items []models.ScheduleItem) ([]models.ScheduleItem, bool) {
		return append(items, item), true
	})
}

// Create validates input, assigns an id and timestamps, and stores the new item
func (r *ScheduleRepository) Create(input models.NewItem) (models.ScheduleItem, error) {
	item, err := input.Build(r.NewID(), r.Now())
	if err != nil {
		return models.ScheduleItem{}, err
	}
	if err := r.Add(item); err != nil {
		return models.ScheduleItem{}, err
	}
	r.logger.Info("schedule item created", "id", item.ID, "title", item.Title)
	return item, nil
}

// Update merges patch into the item with the given id. Unknown ids are a no-op.
func (r *ScheduleRepository) Update(id string, patch models.ItemPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	return r.modify(id, patch.Apply)
}

// Delete removes the item with the given id
func (r *ScheduleRepository) Delete(id string) error {
	return r.mutate(func(items []models.ScheduleItem) ([]models.ScheduleItem, bool) {
		for i, item := range items {
			if item.ID == id {
				return append(items[:i], items[i+1:]...), true
			}
		}
		return items, false
	})
}

// ToggleCompleted flips the completed flag of the item with the given id
func (r *ScheduleRepository) ToggleCompleted(id string) error {
	return r.modify(id, func(item models.ScheduleItem) models.ScheduleItem {
		item.Completed = !item.Completed
		return item
	})
}

// MarkNotified records that the notification for boundary b was handled.
// Flags are never cleared.
func (r *ScheduleRepository) MarkNotified(id string, b models.Boundary) error {
	return r.modify(id, func(item models.ScheduleItem) models.ScheduleItem {
		switch b {
		case models.BoundaryStart:
			item.NotifiedStart = true
		case models.BoundaryEnd:
			item.NotifiedEnd = true
		}
		return item
	})
}

// modify applies fn to the item with the given id and refreshes its UpdatedAt
func (r *ScheduleRepository) modify(id string, fn func(models.ScheduleItem) models.ScheduleItem) error {
	return r.mutate(func(items []models.ScheduleItem) ([]models.ScheduleItem, bool) {
		for i, item := range items {
			if item.ID != id {
				continue
			}
			updated := fn(item)
			updated.ID = item.ID
			updated.CreatedAt = item.CreatedAt
			updated.NotifiedStart = updated.NotifiedStart || item.NotifiedStart
			updated.NotifiedEnd = updated.NotifiedEnd || item.NotifiedEnd
			updated.UpdatedAt = r.touch(item.UpdatedAt)
			items[i] = updated
			return items, true
		}
		return items, false
	})
}

// touch returns a timestamp strictly after prev
func (r *ScheduleRepository) touch(prev time.Time) time.Time {
	now := r.Now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// corruptItemsError carries undecodable stored data out of an update
type corruptItemsError struct {
	raw string
	err error
}

func (e *corruptItemsError) Error() string {
	return e.err.Error()
}

func (e *corruptItemsError) Unwrap() error {
	return e.err
}

// mutate applies fn to the stored items in one atomic KV update
func (r *ScheduleRepository) mutate(fn func([]models.ScheduleItem) ([]models.ScheduleItem, bool)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.kv.Update(itemsKey, r.applyItems(fn, false))

	var corrupt *corruptItemsError
	if !errors.As(err, &corrupt) {
		if err != nil {
			r.logger.Error("failed to update schedule items", "error", err)
		}
		return err
	}

	// Unparseable data is set aside once so it can be recovered by hand
	r.logger.Warn("discarding corrupt schedule data", "error", corrupt.err, "backup_key", corruptItemsKey)
	if err := r.kv.Set(corruptItemsKey, corrupt.raw); err != nil {
		r.logger.Error("failed to back up corrupt schedule data", "error", err)
		return err
	}
	if err := r.kv.Update(itemsKey, r.applyItems(fn, true)); err != nil {
		r.logger.Error("failed to update schedule items", "error", err)
		return err
	}
	return nil
}

// applyItems adapts fn to a KV update. With discardCorrupt set, undecodable
// data is replaced by an empty list instead of aborting the update.
func (r *ScheduleRepository) applyItems(fn func([]models.ScheduleItem) ([]models.ScheduleItem, bool), discardCorrupt bool) UpdateFunc {
	return func(raw string) (string, error) {
		items, err := decodeItems(raw)
		if err != nil {
			if !discardCorrupt {
				return "", &corruptItemsError{raw: raw, err: err}
			}
			items = []models.ScheduleItem{}
		}

		items, changed := fn(items)
		if !changed {
			return "", ErrUnchanged
		}
		return encodeItems(items)
	}
}

func (r *ScheduleRepository) load() ([]models.ScheduleItem, error) {
	raw, err := r.kv.Get(itemsKey)
	if err != nil {
		return nil, err
	}
	return decodeItems(raw)
}

func decodeItems(raw string) ([]models.ScheduleItem, error) {
	if raw == "" {
		return []models.ScheduleItem{}, nil
	}

	var items []models.ScheduleItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode schedule items: %w", err)
	}
	if items == nil {
		items = []models.ScheduleItem{}
	}
	return items, nil
}

func encodeItems(items []models.ScheduleItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: encode schedule items: %v", ErrStorageUnavailable, err)
	}
	return string(data), nil
}
