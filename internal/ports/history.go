package ports

import "time"

// HistoryStore remembers which previews were served.
// The backing store (bbolt) serializes writes; concurrent reads are safe.
type HistoryStore interface {
	// Record appends one preview session. ID and CreatedAt are filled in
	// by the store when empty.
	Record(entry *HistoryEntry) error

	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(limit int) ([]HistoryEntry, error)

	// Clear removes every entry. Idempotent.
	Clear() error

	Close() error
}

// HistoryEntry describes one served preview page.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Char      string    `json:"char"`
	Families  []string  `json:"families"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
