package synclog

import (
	"context"
	"time"
)

type ListFilter struct {
	Source     string
	EntityType string
	Status     Status
	Since      time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, item SyncLog) (SyncLog, error)
	Get(ctx context.Context, id string) (SyncLog, bool, error)
	// Finish applies the terminal transition; it fails if the row is
	// already terminal.
	Finish(ctx context.Context, item SyncLog) error
	List(ctx context.Context, filter ListFilter) ([]SyncLog, int, error)
	Latest(ctx context.Context, source, entityType string) (SyncLog, bool, error)
}
