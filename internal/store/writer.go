package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

// Insert translates a display-shaped record to storage columns, stamps it
// with modification metadata and the acting user, and inserts it as a new
// row. Unrecognized display fields are dropped, not rejected. Returns the
// storage-assigned identity.
func (s *Store) Insert(ctx context.Context, fields map[string]string, actor string) (int64, error) {
	payload := s.stamp(schema.ToStorage(fields), actor)
	now := s.now()
	// Fresh rows get a correlative tag derived from the insert time, as the
	// original sheet numbering did.
	payload["numero"] = strconv.FormatInt(now.Unix(), 10)

	cols, args := orderedPayload(payload)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sqlStr := fmt.Sprintf(
		"INSERT INTO inventario (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	var id int64
	if err := s.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

// Update applies a partial display-shaped record to an existing row. Only
// the supplied fields change; everything else is left untouched in storage.
// The identity must be known to the caller; there is no upsert fallback.
func (s *Store) Update(ctx context.Context, id int64, fields map[string]string, actor string) error {
	if id <= 0 {
		return ErrMissingIdentity
	}

	payload := s.stamp(schema.ToStorage(fields), actor)
	cols, args := orderedPayload(payload)

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id)

	sqlStr := fmt.Sprintf(
		"UPDATE inventario SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args),
	)

	res, err := s.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update record %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// stamp attaches the modification timestamp and actor identity to a storage
// payload. The actor arrives as an explicit parameter; the writer never
// reads ambient session state.
func (s *Store) stamp(payload map[string]string, actor string) map[string]string {
	if actor == "" {
		actor = "Sistema"
	}
	payload["ultima_actualizacion"] = s.now().Format(time.RFC3339)
	payload["modificado_por"] = actor
	return payload
}

// orderedPayload lays the payload out in canonical column order so generated
// SQL is deterministic.
func orderedPayload(payload map[string]string) ([]string, []any) {
	cols := make([]string, 0, len(payload))
	args := make([]any, 0, len(payload))
	for _, col := range schema.StorageFields() {
		if v, ok := payload[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	return cols, args
}

// IsUniqueViolation reports whether a store error is a uniqueness conflict,
// used by callers to map failures to a duplicate-serial response.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
