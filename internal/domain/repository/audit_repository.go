package repository

import "github.com/jhoicas/margenes-api/internal/domain/entity"

// AuditRepository define el puerto de persistencia para el registro de auditoría.
type AuditRepository interface {
	Append(entry *entity.AuditLog) error
	ListByEntity(entityType, entityID string, limit, offset int) ([]*entity.AuditLog, error)
}
