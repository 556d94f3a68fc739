package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/rawcache"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type RawCacheRepository struct {
	db *sqlx.DB
}

func NewRawCacheRepository(db *sqlx.DB) *RawCacheRepository {
	return &RawCacheRepository{db: db}
}

type rawResponseTableModel struct {
	Source      string    `db:"source"`
	Endpoint    string    `db:"endpoint"`
	ParamsKey   string    `db:"params_key"`
	Payload     []byte    `db:"payload"`
	ContentHash string    `db:"content_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}

func (r *RawCacheRepository) Get(ctx context.Context, source, endpoint, paramsKey string) (rawcache.Entry, bool, error) {
	query, args, err := qb.Select("source", "endpoint", "params_key", "payload", "content_hash", "fetched_at").
		From("raw_responses").
		Where(
			qb.Eq("source", source),
			qb.Eq("endpoint", endpoint),
			qb.Eq("params_key", paramsKey),
		).ToSQL()
	if err != nil {
		return rawcache.Entry{}, false, fmt.Errorf("build select raw response query: %w", err)
	}

	var row rawResponseTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rawcache.Entry{}, false, nil
		}
		return rawcache.Entry{}, false, fmt.Errorf("select raw response: %w", err)
	}
	return rawcache.Entry(row), true, nil
}

// Put upserts the payload and reports whether its hash differs from the
// previously cached one (true for first sightings).
func (r *RawCacheRepository) Put(ctx context.Context, entry rawcache.Entry) (bool, error) {
	if entry.ContentHash == "" {
		entry.ContentHash = rawcache.HashPayload(entry.Payload)
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now().UTC()
	}

	var previousHash string
	err := r.db.GetContext(ctx, &previousHash,
		"SELECT content_hash FROM raw_responses WHERE source = $1 AND endpoint = $2 AND params_key = $3",
		entry.Source, entry.Endpoint, entry.ParamsKey)
	changed := true
	switch {
	case err == nil:
		changed = previousHash != entry.ContentHash
	case isNotFound(err):
		changed = true
	default:
		return false, fmt.Errorf("select previous raw response hash: %w", err)
	}

	upsert := `INSERT INTO raw_responses (source, endpoint, params_key, payload, content_hash, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (source, endpoint, params_key)
DO UPDATE SET
    payload = EXCLUDED.payload,
    content_hash = EXCLUDED.content_hash,
    fetched_at = EXCLUDED.fetched_at`
	if _, err := r.db.ExecContext(ctx, upsert,
		entry.Source, entry.Endpoint, entry.ParamsKey,
		entry.Payload, entry.ContentHash, entry.FetchedAt); err != nil {
		return false, fmt.Errorf("upsert raw response: %w", err)
	}
	return changed, nil
}
