package domain

import "time"

// Activity entry statuses.
const (
	ActivityStatusSuccess = "success"
	ActivityStatusError   = "error"
)

// ActivityEntry is one recorded database operation, surfaced by the
// monitor panel. Entries keep append order; nothing beyond that is
// guaranteed.
type ActivityEntry struct {
	Timestamp  time.Time              `json:"timestamp"`
	Type       string                 `json:"type"` // INSERT, SELECT, UPDATE
	Table      string                 `json:"table"`
	Action     string                 `json:"action"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Status     string                 `json:"status"`
	DurationMs float64                `json:"duration"`
}
