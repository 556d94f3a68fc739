package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/synclog"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type SyncLogRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSyncLogRepository(db *sqlx.DB, ids id.Generator) *SyncLogRepository {
	return &SyncLogRepository{db: db, ids: ids}
}

type syncLogTableModel struct {
	ID               string         `db:"id"`
	Source           string         `db:"source"`
	EntityType       string         `db:"entity_type"`
	Status           string         `db:"status"`
	SeasonID         sql.NullString `db:"season_id"`
	GameID           sql.NullString `db:"game_id"`
	RecordsProcessed int            `db:"records_processed"`
	RecordsCreated   int            `db:"records_created"`
	RecordsUpdated   int            `db:"records_updated"`
	RecordsSkipped   int            `db:"records_skipped"`
	ErrorMessage     string         `db:"error_message"`
	ErrorDetails     string         `db:"error_details"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
}

func (m syncLogTableModel) toDomain() synclog.SyncLog {
	out := synclog.SyncLog{
		ID:               m.ID,
		Source:           m.Source,
		EntityType:       m.EntityType,
		Status:           synclog.Status(m.Status),
		RecordsProcessed: m.RecordsProcessed,
		RecordsCreated:   m.RecordsCreated,
		RecordsUpdated:   m.RecordsUpdated,
		RecordsSkipped:   m.RecordsSkipped,
		ErrorMessage:     m.ErrorMessage,
		ErrorDetails:     decodeJSONMap(m.ErrorDetails),
		StartedAt:        m.StartedAt,
	}
	if m.SeasonID.Valid {
		v := m.SeasonID.String
		out.SeasonID = &v
	}
	if m.GameID.Valid {
		v := m.GameID.String
		out.GameID = &v
	}
	if m.CompletedAt.Valid {
		t := m.CompletedAt.Time
		out.CompletedAt = &t
	}
	return out
}

func newSyncLogInsertModel(item synclog.SyncLog) syncLogTableModel {
	out := syncLogTableModel{
		ID:               item.ID,
		Source:           item.Source,
		EntityType:       item.EntityType,
		Status:           string(item.Status),
		RecordsProcessed: item.RecordsProcessed,
		RecordsCreated:   item.RecordsCreated,
		RecordsUpdated:   item.RecordsUpdated,
		RecordsSkipped:   item.RecordsSkipped,
		ErrorMessage:     item.ErrorMessage,
		ErrorDetails:     encodeJSONMap(item.ErrorDetails),
		StartedAt:        item.StartedAt,
	}
	if item.SeasonID != nil {
		out.SeasonID = sql.NullString{String: *item.SeasonID, Valid: true}
	}
	if item.GameID != nil {
		out.GameID = sql.NullString{String: *item.GameID, Valid: true}
	}
	if item.CompletedAt != nil {
		out.CompletedAt = sql.NullTime{Time: *item.CompletedAt, Valid: true}
	}
	return out
}

func syncLogSelectColumns() []string {
	return []string{
		"id", "source", "entity_type", "status", "season_id", "game_id",
		"records_processed", "records_created", "records_updated", "records_skipped",
		"error_message", "error_details", "started_at", "completed_at",
	}
}

func (r *SyncLogRepository) Create(ctx context.Context, item synclog.SyncLog) (synclog.SyncLog, error) {
	if err := item.Validate(); err != nil {
		return synclog.SyncLog{}, err
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return synclog.SyncLog{}, fmt.Errorf("mint sync log id: %w", err)
		}
		item.ID = newID
	}

	query, args, err := qb.InsertModel("sync_logs", newSyncLogInsertModel(item), "")
	if err != nil {
		return synclog.SyncLog{}, fmt.Errorf("build insert sync log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return synclog.SyncLog{}, fmt.Errorf("insert sync log: %w", err)
	}
	return item, nil
}

func (r *SyncLogRepository) Get(ctx context.Context, logID string) (synclog.SyncLog, bool, error) {
	query, args, err := qb.Select(syncLogSelectColumns()...).From("sync_logs").
		Where(qb.Eq("id", logID)).ToSQL()
	if err != nil {
		return synclog.SyncLog{}, false, fmt.Errorf("build select sync log query: %w", err)
	}

	var row syncLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synclog.SyncLog{}, false, nil
		}
		return synclog.SyncLog{}, false, fmt.Errorf("select sync log: %w", err)
	}
	return row.toDomain(), true, nil
}

// Finish applies the single allowed terminal transition. The guard on the
// stored status makes a double finish a no-row update, reported as an error.
func (r *SyncLogRepository) Finish(ctx context.Context, item synclog.SyncLog) error {
	if err := item.Validate(); err != nil {
		return err
	}
	model := newSyncLogInsertModel(item)

	query, args, err := qb.Update("sync_logs").
		Set("status", model.Status).
		Set("records_processed", model.RecordsProcessed).
		Set("records_created", model.RecordsCreated).
		Set("records_updated", model.RecordsUpdated).
		Set("records_skipped", model.RecordsSkipped).
		Set("error_message", model.ErrorMessage).
		Set("error_details", model.ErrorDetails).
		Set("completed_at", model.CompletedAt).
		Where(
			qb.Eq("id", item.ID),
			qb.Eq("status", string(synclog.StatusStarted)),
		).ToSQL()
	if err != nil {
		return fmt.Errorf("build finish sync log query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finish sync log %s: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("sync log %s is not in %s state", item.ID, synclog.StatusStarted)
	}
	return nil
}

func (r *SyncLogRepository) List(ctx context.Context, filter synclog.ListFilter) ([]synclog.SyncLog, int, error) {
	var conditions []qb.Condition
	if filter.Source != "" {
		conditions = append(conditions, qb.Eq("source", filter.Source))
	}
	if filter.EntityType != "" {
		conditions = append(conditions, qb.Eq("entity_type", filter.EntityType))
	}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, qb.Gte("started_at", filter.Since))
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("sync_logs").Where(conditions...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count sync logs query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count sync logs: %w", err)
	}

	builder := qb.Select(syncLogSelectColumns()...).From("sync_logs").
		Where(conditions...).
		OrderBy("started_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build select sync logs query: %w", err)
	}

	var rows []syncLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("select sync logs: %w", err)
	}

	out := make([]synclog.SyncLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *SyncLogRepository) Latest(ctx context.Context, source, entityType string) (synclog.SyncLog, bool, error) {
	query, args, err := qb.Select(syncLogSelectColumns()...).From("sync_logs").
		Where(qb.Eq("source", source), qb.Eq("entity_type", entityType)).
		OrderBy("started_at DESC", "id DESC").
		Limit(1).ToSQL()
	if err != nil {
		return synclog.SyncLog{}, false, fmt.Errorf("build select latest sync log query: %w", err)
	}

	var row syncLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synclog.SyncLog{}, false, nil
		}
		return synclog.SyncLog{}, false, fmt.Errorf("select latest sync log: %w", err)
	}
	return row.toDomain(), true, nil
}
