package repositories

import (
	"context"

	gormlib "gorm.io/gorm"

	"amonic/skydesk/internal/models/gorm"
)

// JournalRepo writes journal entries.
type JournalRepo struct {
	db *gormlib.DB
}

func NewJournalRepo(db *gormlib.DB) *JournalRepo {
	return &JournalRepo{db: db}
}

func (r *JournalRepo) Record(ctx context.Context, entry *gorm.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByBookingReference returns every entry written for one booking, oldest
// first.
func (r *JournalRepo) FindByBookingReference(ctx context.Context, ref string) ([]gorm.JournalEntry, error) {
	var entries []gorm.JournalEntry
	err := r.db.WithContext(ctx).
		Where("booking_reference = ?", ref).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}
