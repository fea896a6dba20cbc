package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable serves pages out of an in-memory table and counts requests.
func fakeTable(n int) (PageFunc, *int) {
	rows := make([]RawRecord, n)
	for i := range rows {
		rows[i] = RawRecord{"id": int64(i + 1)}
	}
	calls := 0
	fetch := func(_ context.Context, offset, limit int) ([]RawRecord, error) {
		calls++
		if offset >= len(rows) {
			return nil, nil
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		return rows[offset:end], nil
	}
	return fetch, &calls
}

func TestFetchAllCompleteness(t *testing.T) {
	const pageSize = 1000

	cases := []struct {
		rows      int
		wantCalls int
	}{
		{0, 1},
		{1, 1},
		{999, 1},
		{1000, 2}, // exact multiple: one full page plus one empty round trip
		{1001, 2},
		{2000, 3},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_rows", tc.rows), func(t *testing.T) {
			fetch, calls := fakeTable(tc.rows)
			got, err := FetchAll(context.Background(), pageSize, fetch)
			require.NoError(t, err)
			require.Len(t, got, tc.rows)
			assert.Equal(t, tc.wantCalls, *calls, "page request count")

			// Sort order is preserved across page boundaries, no
			// duplicates, no omissions.
			for i, rec := range got {
				assert.Equal(t, int64(i+1), rec.ID())
			}
		})
	}
}

func TestFetchAllAbortsOnPageError(t *testing.T) {
	boom := errors.New("quota exceeded")
	calls := 0
	fetch := func(_ context.Context, offset, limit int) ([]RawRecord, error) {
		calls++
		if offset == 0 {
			page := make([]RawRecord, limit)
			for i := range page {
				page[i] = RawRecord{"id": int64(i + 1)}
			}
			return page, nil
		}
		return nil, boom
	}

	got, err := FetchAll(context.Background(), 10, fetch)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "offset 10")
	assert.Nil(t, got, "no partial result on failure")
	assert.Equal(t, 2, calls, "fetch stops at the failing page")
}

func TestFetchAllDefaultsPageSize(t *testing.T) {
	fetch, calls := fakeTable(5)
	got, err := FetchAll(context.Background(), 0, fetch)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 1, *calls)
}
