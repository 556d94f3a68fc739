package rawcache

import "context"

type Repository interface {
	Get(ctx context.Context, source, endpoint, paramsKey string) (Entry, bool, error)
	// Put stores the entry and reports whether the payload changed relative
	// to what was cached (true for first sightings).
	Put(ctx context.Context, entry Entry) (bool, error)
}
