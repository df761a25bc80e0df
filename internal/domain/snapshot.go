package domain

import "time"

// Snapshot is one recorded collection run: the activity window that was
// fetched plus the interval length the collection was requested with.
// WindowDays is carried alongside the window because the aggregator trusts
// the caller-supplied length rather than re-deriving it from the data.
type Snapshot struct {
	ID          string          `json:"id"`
	WindowDays  int             `json:"window_days"`
	Window      *ActivityWindow `json:"window"`
	CollectedAt time.Time       `json:"collected_at"`
}
