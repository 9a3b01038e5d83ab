package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre PostgreSQL (usable con pool o tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta un registro de auditoría (inmutable, solo INSERT).
func (r *AuditRepo) Append(entry *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, field, old_value, new_value, reason, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.Field,
		entry.OldValue, entry.NewValue, entry.Reason, entry.ActorID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEntity lista registros de auditoría de una entidad, más recientes primero.
func (r *AuditRepo) ListByEntity(entityType, entityID string, limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, field, old_value, new_value, reason, actor_id, created_at
		FROM audit_logs WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var a entity.AuditLog
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Action, &a.Field,
			&a.OldValue, &a.NewValue, &a.Reason, &a.ActorID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
