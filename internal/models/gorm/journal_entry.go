package gorm

import "time"

// JournalEntry records one mutation the portal issued against the
// reservation backend, with its outcome.
type JournalEntry struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Resource         string    `gorm:"column:resource;type:varchar(50);not null;index" json:"resource"`
	RecordID         string    `gorm:"column:record_id;type:varchar(64)" json:"record_id,omitempty"`
	Action           string    `gorm:"column:action;type:varchar(20);not null;index:idx_journal_action_outcome" json:"action"`
	Outcome          string    `gorm:"column:outcome;type:varchar(20);not null;index:idx_journal_action_outcome" json:"outcome"`
	Payload          string    `gorm:"column:payload;type:text" json:"payload,omitempty"`
	Error            string    `gorm:"column:error;type:text" json:"error,omitempty"`
	BookingReference string    `gorm:"column:booking_reference;type:varchar(64);index" json:"booking_reference,omitempty"`
	UserID           int       `gorm:"column:user_id" json:"user_id"`
	RequestID        string    `gorm:"column:request_id;type:varchar(64)" json:"request_id,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}
