package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/jbautista-a11y/inventario-ti/internal/auth"
	"github.com/jbautista-a11y/inventario-ti/internal/cache"
	"github.com/jbautista-a11y/inventario-ti/internal/models"
	"github.com/jbautista-a11y/inventario-ti/internal/reportes"
	"github.com/jbautista-a11y/inventario-ti/internal/schema"
	"github.com/jbautista-a11y/inventario-ti/internal/store"

	"github.com/go-chi/chi/v5"
)

// refreshWorkingSet returns the current normalized working set, fetching the
// full table page by page when the cached snapshot is stale or invalidated.
func (s *Server) refreshWorkingSet(r *http.Request) (*cache.Snapshot, error) {
	if snap, ok := s.Cache.Get(); ok {
		return snap, nil
	}

	raw, err := s.Store.FetchAll(r.Context(), func(int) {
		s.Metrics.ObservePage()
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(raw))
	for _, row := range raw {
		rec := models.Record{ID: row.ID(), Fields: schema.Normalize(map[string]any(row))}
		records = append(records, rec)
	}

	snap := s.Cache.Put(records)
	s.Metrics.ObserveWorkingSet(len(records))
	return snap, nil
}

// matches applies the list filters to one record.
func (p listParams) matches(rec models.Record) bool {
	if p.tipo != "" && rec.Field("TIPO") != p.tipo {
		return false
	}
	if p.area != "" && rec.Field("ÁREA") != p.area {
		return false
	}
	if p.estado != "" && rec.Field("ESTADO") != p.estado {
		return false
	}
	if p.q != "" {
		needle := strings.ToUpper(p.q)
		for _, v := range rec.Fields {
			if strings.Contains(v, needle) {
				return true
			}
		}
		return false
	}
	return true
}

// LIST over the working set with basic filters & pagination
func (s *Server) listInventario(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	snap, err := s.refreshWorkingSet(r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	filtered := []models.Record{}
	for _, rec := range snap.Records {
		if params.matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	totalCount := len(filtered)

	start := params.offset
	if start > totalCount {
		start = totalCount
	}
	end := start + params.limit
	if end > totalCount {
		end = totalCount
	}

	sendListResponse(w, filtered[start:end], totalCount, params)
}

func (s *Server) getInventario(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.findRecord(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// findRecord resolves the {id} URL parameter against the working set. It
// writes the error response itself when the record cannot be served.
func (s *Server) findRecord(w http.ResponseWriter, r *http.Request) (models.Record, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return models.Record{}, false
	}

	snap, err := s.refreshWorkingSet(r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return models.Record{}, false
	}

	for _, rec := range snap.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
	return models.Record{}, false
}

func (s *Server) createInventario(w http.ResponseWriter, r *http.Request) {
	var in models.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", 400)
		return
	}

	fields := make(map[string]string, len(in.Fields))
	blank := true
	for name, v := range in.Fields {
		norm := schema.NormalizeValue(v)
		fields[name] = norm
		if norm != "" && norm != schema.Placeholder {
			blank = false
		}
	}
	if blank {
		http.Error(w, "record has no content", 400)
		return
	}

	// Serial uniqueness is enforced here, against the working set, before
	// anything reaches the writer. The check is best-effort under concurrent
	// writers; a losing race still surfaces as a storage-level conflict.
	if serial := fields["NRO DE SERIE"]; serial != "" && serial != schema.Placeholder {
		if snap, err := s.refreshWorkingSet(r); err == nil {
			for _, rec := range snap.Records {
				if rec.Field("NRO DE SERIE") == serial {
					http.Error(w, fmt.Sprintf("nro de serie %s ya registrado (id %d)", serial, rec.ID), http.StatusConflict)
					return
				}
			}
		}
	}

	actor := auth.ActorFromContext(r.Context())
	id, err := s.Store.Insert(r.Context(), fields, actor)
	if err != nil {
		if store.IsUniqueViolation(err) {
			http.Error(w, "duplicate record", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	s.audit(r, models.AuditCreate, fmt.Sprintf("Equipo %s (%s)", fields["NRO DE SERIE"], fields["TIPO"]))
	s.Cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id": id,
	})
}

func (s *Server) updateInventario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	var in models.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", 400)
		return
	}
	if len(in.Fields) == 0 {
		http.Error(w, "no fields to update", 400)
		return
	}

	fields := make(map[string]string, len(in.Fields))
	for name, v := range in.Fields {
		fields[name] = schema.NormalizeValue(v)
	}

	actor := auth.ActorFromContext(r.Context())
	if err := s.Store.Update(r.Context(), id, fields, actor); err != nil {
		switch {
		case err == store.ErrNotFound:
			http.Error(w, "not found", http.StatusNotFound)
		case err == store.ErrMissingIdentity:
			http.Error(w, "invalid record id", http.StatusBadRequest)
		case store.IsUniqueViolation(err):
			http.Error(w, "duplicate record", http.StatusConflict)
		default:
			http.Error(w, err.Error(), 500)
		}
		return
	}

	s.audit(r, models.AuditEdit, fmt.Sprintf("Equipo id %d", id))
	s.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteInventario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		switch err {
		case store.ErrNotFound:
			http.Error(w, "not found", http.StatusNotFound)
		case store.ErrMissingIdentity:
			http.Error(w, "invalid record id", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), 500)
		}
		return
	}

	s.audit(r, models.AuditDelete, fmt.Sprintf("Equipo id %d", id))
	s.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// opcionesInventario merges the configured vocabularies with the distinct
// values actually stored, so dropdowns offer historical values too.
func (s *Server) opcionesInventario(w http.ResponseWriter, r *http.Request) {
	snap, err := s.refreshWorkingSet(r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	options := map[string][]string{}
	for field, configured := range s.Vocab {
		seen := map[string]bool{}
		merged := []string{}
		for _, v := range configured {
			if !seen[v] {
				seen[v] = true
				merged = append(merged, v)
			}
		}
		for _, rec := range snap.Records {
			v := rec.Field(field)
			if v == "" || v == schema.Placeholder || seen[v] {
				continue
			}
			seen[v] = true
			merged = append(merged, v)
		}
		sort.Strings(merged)
		options[field] = merged
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(options)
}

// plantillaInventario serves the bulk-upload template: the canonical header
// row plus dropdown validations seeded from the vocabularies.
func (s *Server) plantillaInventario(w http.ResponseWriter, r *http.Request) {
	data, err := reportes.GenerateUploadTemplate(s.Vocab)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="plantilla_inventario.xlsx"`)
	w.Write(data)
}

// actaInventario renders the signed delivery certificate for one record.
func (s *Server) actaInventario(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.findRecord(w, r)
	if !ok {
		return
	}

	snap, err := s.refreshWorkingSet(r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	data, err := s.Filler.Fill(rec, snap.Records)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="acta_entrega_%d.xlsx"`, rec.ID))
	w.Write(data)
}
