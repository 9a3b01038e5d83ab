package entity

import "time"

// AuditLog registro inmutable de acciones sobre entidades del sistema.
// ActorID siempre viene como parámetro explícito del caso de uso; no se
// lee de ningún estado ambiental.
type AuditLog struct {
	ID         string
	EntityType string // sales_order, purchase_order, metrics, user
	EntityID   string
	Action     string // create, update, recalculate, recompute
	Field      string
	OldValue   string
	NewValue   string
	Reason     string
	ActorID    string
	CreatedAt  time.Time
}
