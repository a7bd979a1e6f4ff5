package services

import (
	"context"
	"time"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	gormModels "amonic/skydesk/internal/models/gorm"
)

// ViewRegistry keeps one list view per session and resource in the
// process-local cache. Views expire with the session TTL.
type ViewRegistry struct {
	cache common.CacheInterface
	ttl   time.Duration
}

func NewViewRegistry(cache common.CacheInterface, ttl time.Duration) *ViewRegistry {
	return &ViewRegistry{cache: cache, ttl: ttl}
}

func viewKey(sessionID, resource string) string {
	return string(constants.CachePrefixView) + sessionID + ":" + resource
}

// ViewFor returns the session's view for resource, building it on first use.
// Concurrent first requests of one session end up sharing the same view.
func ViewFor[T any, C any](r *ViewRegistry, sessionID, resource string, build func() *listview.View[T, C]) *listview.View[T, C] {
	key := viewKey(sessionID, resource)
	if cached, ok := r.cache.Get(key); ok {
		if v, ok := cached.(*listview.View[T, C]); ok {
			return v
		}
	}

	v := build()
	if err := r.cache.Add(key, v, r.ttl); err != nil {
		if cached, ok := r.cache.Get(key); ok {
			if existing, ok := cached.(*listview.View[T, C]); ok {
				return existing
			}
		}
		r.cache.Set(key, v, r.ttl)
	}
	return v
}

// PutView replaces the session's view for resource.
func PutView[T any, C any](r *ViewRegistry, sessionID, resource string, v *listview.View[T, C]) {
	r.cache.Set(viewKey(sessionID, resource), v, r.ttl)
}

// LookupView returns the session's view for resource if one exists.
func LookupView[T any, C any](r *ViewRegistry, sessionID, resource string) (*listview.View[T, C], bool) {
	cached, ok := r.cache.Get(viewKey(sessionID, resource))
	if !ok {
		return nil, false
	}
	v, ok := cached.(*listview.View[T, C])
	return v, ok
}

// Forget removes one view of a session.
func (r *ViewRegistry) Forget(sessionID, resource string) {
	r.cache.Delete(viewKey(sessionID, resource))
}

// Drop forgets every view of a session.
func (r *ViewRegistry) Drop(sessionID string) {
	if r == nil || sessionID == "" {
		return
	}
	r.cache.DeletePrefix(string(constants.CachePrefixView) + sessionID + ":")
}

// journaledSource writes a journal entry and a mutation metric for every
// patch sent through the wrapped source.
type journaledSource[T any] struct {
	listview.Source[T]
	resource string
	journal  Journal
	metrics  *metrics.MetricsRegistry
}

func (s journaledSource[T]) Patch(ctx context.Context, id string, patch listview.Patch) error {
	err := s.Source.Patch(ctx, id, patch)
	outcome := constants.JournalOutcomeOK
	if err != nil {
		outcome = constants.JournalOutcomeFailed
		logging.Warn("Row update failed", "resource", s.resource, "record_id", id, "error", err)
	}
	if s.metrics != nil {
		s.metrics.RowMutationsTotal.WithLabelValues(s.resource, outcome).Inc()
	}
	record(ctx, s.journal, &gormModels.JournalEntry{
		Resource: s.resource,
		RecordID: id,
		Action:   constants.JournalActionPatch,
		Outcome:  outcome,
		Payload:  payloadOf(patch),
		Error:    errorText(err),
	})
	return err
}

// commitDraft commits draft as the edit of record id. The editor is reopened
// first when the session's view lost it, e.g. after the view expired.
func commitDraft[T any, C any](ctx context.Context, view *listview.View[T, C], id string, draft map[string]string) error {
	if pending, ok := view.Editor(); !ok || pending.ID != id {
		if _, err := view.OpenEditor(id); err != nil {
			return err
		}
	}
	if err := view.SetDrafts(draft); err != nil {
		return err
	}
	return view.CommitEditor(ctx)
}
