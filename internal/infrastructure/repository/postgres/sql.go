// Package postgres holds the sqlx-backed repository implementations. Every
// repository maps db-tagged table models to domain structs at the boundary;
// domain types never leak sql.Null wrappers.
package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/bytedance/sonic"

	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nullStringToString(value sql.NullString) string {
	if !value.Valid {
		return ""
	}
	return value.String
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullIntToPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func nullableFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullFloatToPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func encodeJSONMap(value map[string]any) string {
	if len(value) == 0 {
		return "{}"
	}
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func decodeJSONMap(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}
	out := make(map[string]any)
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]any{}
	}
	return out
}

func encodeExternalIDs(value map[string]string) string {
	if len(value) == 0 {
		return "{}"
	}
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func decodeExternalIDs(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return map[string]string{}
	}
	out := make(map[string]string)
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]string{}
	}
	return out
}

// externalIDCondition matches rows whose external_ids map contains the
// (source, external id) pair, served by the GIN jsonb_path_ops index.
func externalIDCondition(source, externalID string) qb.Condition {
	needle := encodeExternalIDs(map[string]string{source: externalID})
	return qb.Expr("external_ids @> ?::jsonb", needle)
}
