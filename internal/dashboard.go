package internal

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jbautista-a11y/inventario-ti/internal/models"
	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

// Resumen is the dashboard summary of the working set.
type Resumen struct {
	Total      int            `json:"total"`
	Asignados  int            `json:"asignados"`
	StockMtto  int            `json:"stock_mtto"`
	CostoTotal float64        `json:"costo_total"`
	PorTipo    map[string]int `json:"por_tipo"`
	PorArea    map[string]int `json:"por_area"`
}

// usableEstados are the states that count toward the Stock/Mtto counter when
// the equipment has no assigned user.
var usableEstados = map[string]bool{
	"EN REVISIÓN":   true,
	"MANTENIMIENTO": true,
	"OPERATIVO":     true,
	"DISPONIBLE":    true,
}

// computeResumen folds the working set into the dashboard counters. A record
// counts as assigned when its USUARIO holds a real login rather than a
// placeholder or short tag.
func computeResumen(records []models.Record) Resumen {
	res := Resumen{
		PorTipo: map[string]int{},
		PorArea: map[string]int{},
	}
	res.Total = len(records)

	for _, rec := range records {
		assigned := len([]rune(rec.Field("USUARIO"))) > 2
		if assigned {
			res.Asignados++
		} else if usableEstados[rec.Field("ESTADO")] {
			res.StockMtto++
		}

		if cost, ok := parseCosto(rec.Field("COSTO")); ok {
			res.CostoTotal += cost
		}

		if tipo := rec.Field("TIPO"); tipo != "" && tipo != schema.Placeholder {
			res.PorTipo[tipo]++
		}
		if area := rec.Field("ÁREA"); area != "" && area != schema.Placeholder {
			res.PorArea[area]++
		}
	}
	return res
}

// parseCosto extracts a numeric amount from a stored cost cell, tolerating
// the "S/" currency prefix and thousands separators. Unparseable cells are
// ignored rather than failing the summary.
func parseCosto(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == schema.Placeholder {
		return 0, false
	}
	s = strings.TrimPrefix(s, "S/")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dashboardResumen summarizes the working set. It honors the same filters
// as the list endpoint so the counters can follow a narrowed view.
func (s *Server) dashboardResumen(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	snap, err := s.refreshWorkingSet(r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	records := snap.Records
	if params.q != "" || params.tipo != "" || params.area != "" || params.estado != "" {
		filtered := make([]models.Record, 0, len(records))
		for _, rec := range records {
			if params.matches(rec) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	res := computeResumen(records)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": res,
		"meta": map[string]interface{}{
			"version":    snap.Version,
			"fetched_at": snap.FetchedAt,
		},
	})
}
