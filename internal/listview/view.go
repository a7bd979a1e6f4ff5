// Package listview implements the editable list view shared by the
// schedule, user and amenity screens: a source snapshot fetched from the
// backend, a filtered projection, a single pending edit and per-row actions.
package listview

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Source is the backend collection a View is bound to.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
	Patch(ctx context.Context, id string, patch Patch) error
}

// Config describes how a View identifies, filters, sorts and edits records.
type Config[T any, C any] struct {
	Resource    string
	Key         func(T) string
	Match       func(T, C) bool
	Compare     func(a, b T, c C) int
	Fields      []FieldSpec
	State       func(T) string
	Transitions []Transition[T]
}

// Pending is the record currently open in the editor.
type Pending[T any] struct {
	ID     string
	Record T
	Draft  map[string]string
}

// View holds one resource's list state for one session. All methods are safe
// for concurrent use; backend calls are made without holding the lock.
type View[T any, C any] struct {
	cfg Config[T, C]
	src Source[T]

	mu       sync.RWMutex
	source   []T
	filtered []T
	criteria C
	pending  *Pending[T]
	loadedAt time.Time
}

func New[T any, C any](cfg Config[T, C], src Source[T]) *View[T, C] {
	return &View[T, C]{cfg: cfg, src: src}
}

func (v *View[T, C]) Resource() string { return v.cfg.Resource }

func (v *View[T, C]) Fields() []FieldSpec { return v.cfg.Fields }

// Load fetches the collection once. On failure the previous state is kept.
func (v *View[T, C]) Load(ctx context.Context) error {
	records, err := v.src.List(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", v.cfg.Resource, err)
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		id := v.cfg.Key(rec)
		if _, dup := seen[id]; dup {
			return fmt.Errorf("load %s: %w: %s", v.cfg.Resource, ErrDuplicateKey, id)
		}
		seen[id] = struct{}{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = records
	v.filtered = ApplyFilter(records, v.criteria, v.cfg.Match, v.cfg.Compare)
	v.loadedAt = time.Now()
	if v.pending != nil {
		if _, ok := seen[v.pending.ID]; !ok {
			v.pending = nil
		}
	}
	return nil
}

// Loaded reports whether a snapshot has been fetched successfully.
func (v *View[T, C]) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return !v.loadedAt.IsZero()
}

// Source returns a copy of the last fetched snapshot.
func (v *View[T, C]) Source() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.source...)
}

// Filtered returns a copy of the current projection.
func (v *View[T, C]) Filtered() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.filtered...)
}

func (v *View[T, C]) Criteria() C {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.criteria
}

// SetCriteria stores c and recomputes the filtered view synchronously.
func (v *View[T, C]) SetCriteria(c C) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = c
	v.filtered = ApplyFilter(v.source, c, v.cfg.Match, v.cfg.Compare)
}

// Get returns the source record with the given id.
func (v *View[T, C]) Get(id string) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	i := v.indexOf(v.source, id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return v.source[i], true
}

// MutateRow sends patch for the record id and, once the backend accepts it,
// applies the same patch locally to both lists.
func (v *View[T, C]) MutateRow(ctx context.Context, id string, patch Patch) error {
	if _, ok := v.Get(id); !ok {
		return fmt.Errorf("%s %s: %w", v.cfg.Resource, id, ErrNotFound)
	}
	if err := v.src.Patch(ctx, id, patch); err != nil {
		return fmt.Errorf("update %s %s: %w", v.cfg.Resource, id, err)
	}
	return v.applyLocal(id, patch)
}

// applyLocal overlays patch onto the record with id in both lists. Rows are
// patched in place and keep their position until the next filter change.
func (v *View[T, C]) applyLocal(id string, patch Patch) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	si := v.indexOf(v.source, id)
	if si < 0 {
		// Reloaded without this record while the request was in flight.
		return nil
	}
	updated, err := ApplyPatch(v.source[si], patch)
	if err != nil {
		return fmt.Errorf("apply %s %s: %w", v.cfg.Resource, id, err)
	}
	v.source[si] = updated
	if fi := v.indexOf(v.filtered, id); fi >= 0 {
		v.filtered[fi] = updated
	}
	if v.pending != nil && v.pending.ID == id {
		v.pending.Record = updated
	}
	return nil
}

func (v *View[T, C]) indexOf(list []T, id string) int {
	for i, rec := range list {
		if v.cfg.Key(rec) == id {
			return i
		}
	}
	return -1
}
