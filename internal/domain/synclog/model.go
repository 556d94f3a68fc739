package synclog

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusPartial   Status = "PARTIAL"
	StatusFailed    Status = "FAILED"
)

// RecordError is one per-record failure captured during a run.
type RecordError struct {
	ExternalID string `json:"external_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// Error detail kinds recorded under ErrorDetails.
const (
	KindSchema           = "schema"
	KindIdentityConflict = "identity_conflict"
	KindStorage          = "storage"
	KindTransport        = "transport"
	KindAmbiguousMatch   = "ambiguous_match"
)

// SyncLog is the audit record of one sync run. Rows are append-only except
// for the single terminal transition.
type SyncLog struct {
	ID             string
	Source         string
	EntityType     string
	Status         Status
	SeasonID       *string
	GameID         *string
	RecordsProcessed int
	RecordsCreated   int
	RecordsUpdated   int
	RecordsSkipped   int
	ErrorMessage   string
	ErrorDetails   map[string]any
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// CanTransition permits exactly STARTED → {COMPLETED, PARTIAL, FAILED}.
func (l SyncLog) CanTransition(next Status) bool {
	if l.Status != StatusStarted {
		return false
	}
	switch next {
	case StatusCompleted, StatusPartial, StatusFailed:
		return true
	default:
		return false
	}
}

func (l SyncLog) Validate() error {
	if l.Source == "" {
		return fmt.Errorf("sync log source is required")
	}
	if l.EntityType == "" {
		return fmt.Errorf("sync log entity type is required")
	}
	if l.Status == StatusStarted && l.CompletedAt != nil {
		return fmt.Errorf("started log cannot carry completed_at")
	}
	if l.Status != StatusStarted && l.CompletedAt == nil {
		return fmt.Errorf("terminal log requires completed_at")
	}
	return nil
}
