package memory

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/synclog"
)

type SyncLogRepository struct {
	s *Store
}

func (r *SyncLogRepository) Create(_ context.Context, item synclog.SyncLog) (synclog.SyncLog, error) {
	if err := item.Validate(); err != nil {
		return synclog.SyncLog{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return synclog.SyncLog{}, err
		}
		item.ID = newID
	}
	if _, exists := r.s.syncLogs[item.ID]; exists {
		return synclog.SyncLog{}, fmt.Errorf("sync log %s already exists", item.ID)
	}

	r.s.syncLogs[item.ID] = item
	r.s.syncLogOrder = append(r.s.syncLogOrder, item.ID)
	return item, nil
}

func (r *SyncLogRepository) Get(_ context.Context, id string) (synclog.SyncLog, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.syncLogs[id]
	return item, ok, nil
}

func (r *SyncLogRepository) Finish(_ context.Context, item synclog.SyncLog) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.syncLogs[item.ID]
	if !ok {
		return fmt.Errorf("sync log %s not found", item.ID)
	}
	if !existing.CanTransition(item.Status) {
		return fmt.Errorf("sync log %s cannot move %s -> %s", item.ID, existing.Status, item.Status)
	}

	r.s.syncLogs[item.ID] = item
	return nil
}

// List returns logs newest first.
func (r *SyncLogRepository) List(_ context.Context, filter synclog.ListFilter) ([]synclog.SyncLog, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []synclog.SyncLog
	for i := len(r.s.syncLogOrder) - 1; i >= 0; i-- {
		item := r.s.syncLogs[r.s.syncLogOrder[i]]
		if !matchesSyncLogFilter(item, filter) {
			continue
		}
		matched = append(matched, item)
	}

	total := len(matched)
	matched = paginate(matched, filter.Limit, filter.Offset)
	return matched, total, nil
}

func (r *SyncLogRepository) Latest(_ context.Context, source, entityType string) (synclog.SyncLog, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := len(r.s.syncLogOrder) - 1; i >= 0; i-- {
		item := r.s.syncLogs[r.s.syncLogOrder[i]]
		if item.Source == source && item.EntityType == entityType {
			return item, true, nil
		}
	}
	return synclog.SyncLog{}, false, nil
}

func matchesSyncLogFilter(item synclog.SyncLog, filter synclog.ListFilter) bool {
	if filter.Source != "" && item.Source != filter.Source {
		return false
	}
	if filter.EntityType != "" && item.EntityType != filter.EntityType {
		return false
	}
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if !filter.Since.IsZero() && item.StartedAt.Before(filter.Since) {
		return false
	}
	return true
}
