package store

import (
	"context"
	"fmt"
)

// DefaultPageSize is the remote store's hard per-request row cap.
const DefaultPageSize = 1000

// PageFunc fetches one ordered range of rows: up to limit rows starting at
// offset. Row order must be stable across calls (the store orders by id).
type PageFunc func(ctx context.Context, offset, limit int) ([]RawRecord, error)

// FetchAll retrieves the full table by issuing sequential range requests of
// pageSize rows until a short page or an empty page signals end-of-data.
//
// A table whose size is an exact multiple of pageSize costs one extra,
// empty round trip. Any page failure aborts the whole fetch; no partial
// result is returned and no retry is attempted.
func FetchAll(ctx context.Context, pageSize int, fetch PageFunc) ([]RawRecord, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []RawRecord
	offset := 0
	for {
		page, err := fetch(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}
	return all, nil
}
