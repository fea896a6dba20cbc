package store

import (
	"context"
	"time"

	"github.com/jbautista-a11y/inventario-ti/internal/models"
)

// RecordAudit appends one audit entry. Entries are never updated or deleted
// by this layer.
func (s *Store) RecordAudit(ctx context.Context, actor, action, detail string) error {
	if actor == "" {
		actor = "Desconocido"
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO logs_auditoria (usuario, accion, detalle, fecha)
		VALUES ($1, $2, $3, $4)`,
		actor, action, detail, s.now().Format(time.RFC3339))
	return err
}

// ListAudit returns the newest entries first, capped at limit.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, usuario, accion, detalle, fecha
		FROM logs_auditoria
		ORDER BY fecha DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Usuario, &e.Accion, &e.Detalle, &e.Fecha); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
