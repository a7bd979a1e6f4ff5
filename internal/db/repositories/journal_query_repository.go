package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/models/entities"
)

// JournalQueryRepo serves the read side of the journal through sqlx.
type JournalQueryRepo struct {
	db *sqlx.DB
}

func NewJournalQueryRepo(db *sqlx.DB) *JournalQueryRepo {
	return &JournalQueryRepo{db}
}

func (r *JournalQueryRepo) PartialBookings(ctx context.Context, limit int) ([]entities.PartialBooking, error) {
	rows := []entities.PartialBooking{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.GetPartialBookings),
		constants.JournalActionBooking, constants.JournalOutcomePartial, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *JournalQueryRepo) OutcomeCounts(ctx context.Context, resource string) (map[string]int, error) {
	var rows []entities.OutcomeCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.CountJournalByOutcome), resource); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Outcome] = row.Total
	}
	return out, nil
}

func (r *JournalQueryRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
