package internal

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// listParams holds common query parameters for inventory list endpoints
type listParams struct {
	limit  int
	offset int
	q      string
	tipo   string
	area   string
	estado string
}

// parseListParams parses limit, offset, q, and the column filters from the
// request. Defaults: limit=50 (max 200), offset=0.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:  limit,
		offset: offset,
		q:      strings.TrimSpace(values.Get("q")),
		tipo:   strings.ToUpper(strings.TrimSpace(values.Get("tipo"))),
		area:   strings.ToUpper(strings.TrimSpace(values.Get("area"))),
		estado: strings.ToUpper(strings.TrimSpace(values.Get("estado"))),
	}
}

// sendListResponse writes the standard paginated list envelope.
func sendListResponse(w http.ResponseWriter, items interface{}, totalCount int, params listParams) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": items,
		"meta": map[string]interface{}{
			"total":  totalCount,
			"limit":  params.limit,
			"offset": params.offset,
		},
	})
}
