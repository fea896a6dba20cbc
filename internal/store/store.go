// Package store talks to the inventory tables. It exposes the paginated
// full-table fetch, the display→storage record writer, deletion, and the
// append-only audit log. All SQL lives here; callers work with display- or
// storage-shaped maps.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

// ErrMissingIdentity is returned when an update or delete is attempted
// without a valid storage identity.
var ErrMissingIdentity = errors.New("record identity is required")

// ErrNotFound is returned when the targeted record does not exist.
var ErrNotFound = errors.New("record not found")

// RawRecord is one storage-shaped row. The "id" key holds the int64 storage
// identity; every other key is a storage column name with a string or nil
// value.
type RawRecord map[string]any

// ID returns the storage identity of the row, or 0 if absent.
func (r RawRecord) ID() int64 {
	if v, ok := r["id"].(int64); ok {
		return v
	}
	return 0
}

// Store accesses the inventory over a capped-range remote table.
type Store struct {
	DB       *sql.DB
	PageSize int

	// now is the modification-stamp clock, overridable in tests.
	now func() time.Time
}

// New creates a Store with the given per-request row cap.
func New(db *sql.DB, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{DB: db, PageSize: pageSize, now: time.Now}
}

// FetchAll downloads every row of the inventory table in id order, working
// around the per-request row cap with sequential range requests. The
// returned onPage callback, when non-nil, observes each page count.
func (s *Store) FetchAll(ctx context.Context, onPage func(rows int)) ([]RawRecord, error) {
	return FetchAll(ctx, s.PageSize, func(ctx context.Context, offset, limit int) ([]RawRecord, error) {
		page, err := s.fetchPage(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		if onPage != nil {
			onPage(len(page))
		}
		return page, nil
	})
}

// fetchPage selects one ordered range of rows. Ordering by the monotonically
// increasing id keeps page boundaries stable while the table is quiet;
// concurrent writers make the fetch best-effort, as in the original system.
func (s *Store) fetchPage(ctx context.Context, offset, limit int) ([]RawRecord, error) {
	cols := schema.StorageFields()
	sqlStr := fmt.Sprintf(
		"SELECT id, %s FROM inventario ORDER BY id ASC LIMIT %d OFFSET %d",
		strings.Join(cols, ", "), limit, offset,
	)

	rows, err := s.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := []RawRecord{}
	for rows.Next() {
		var id int64
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, 0, len(cols)+1)
		dest = append(dest, &id)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := RawRecord{"id": id}
		for i, col := range cols {
			if vals[i].Valid {
				rec[col] = vals[i].String
			} else {
				rec[col] = nil
			}
		}
		page = append(page, rec)
	}
	return page, rows.Err()
}

// Delete removes a record permanently. There is no soft delete.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrMissingIdentity
	}
	res, err := s.DB.ExecContext(ctx, "DELETE FROM inventario WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
