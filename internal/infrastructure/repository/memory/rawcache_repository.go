package memory

import (
	"context"

	"github.com/courtdata/hoopsync/internal/domain/rawcache"
)

type RawCacheRepository struct {
	s *Store
}

func (r *RawCacheRepository) Get(_ context.Context, source, endpoint, paramsKey string) (rawcache.Entry, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entry, ok := r.s.raw[tupleKey(source, endpoint, paramsKey)]
	return entry, ok, nil
}

func (r *RawCacheRepository) Put(_ context.Context, entry rawcache.Entry) (bool, error) {
	if entry.ContentHash == "" {
		entry.ContentHash = rawcache.HashPayload(entry.Payload)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := tupleKey(entry.Source, entry.Endpoint, entry.ParamsKey)
	previous, existed := r.s.raw[key]
	r.s.raw[key] = entry
	changed := !existed || previous.ContentHash != entry.ContentHash
	return changed, nil
}
