package services

import (
	"context"
	"encoding/json"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/logging"
	gormModels "amonic/skydesk/internal/models/gorm"
)

// Journal records mutations issued against the reservation backend.
type Journal interface {
	Record(ctx context.Context, entry *gormModels.JournalEntry) error
}

// NopJournal is used when no journal database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *gormModels.JournalEntry) error { return nil }

// record stamps the entry with the request and user, then writes it. A
// journal failure is logged and never fails the user's action.
func record(ctx context.Context, j Journal, entry *gormModels.JournalEntry) {
	if j == nil {
		return
	}
	entry.RequestID = auth.GetRequestID(ctx)
	if claims := auth.GetUserClaims(ctx); claims != nil {
		entry.UserID = claims.UserID()
	}
	if err := j.Record(ctx, entry); err != nil {
		logging.Warn("Failed to write journal entry",
			"resource", entry.Resource,
			"record_id", entry.RecordID,
			"action", entry.Action,
			"error", err)
	}
}

func payloadOf(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
