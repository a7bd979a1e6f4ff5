package constants

// Journal read queries. Written with '?' placeholders and rebound per driver.
const (
	GetPartialBookings = `
	SELECT id, booking_reference, payload, error, request_id, created_at
	FROM journal_entries
	WHERE action = ? AND outcome = ?
	ORDER BY created_at DESC
	LIMIT ?
	`

	CountJournalByOutcome = `
	SELECT outcome, COUNT(*) AS total
	FROM journal_entries
	WHERE resource = ?
	GROUP BY outcome
	`
)
