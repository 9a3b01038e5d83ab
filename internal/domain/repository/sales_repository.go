package repository

import (
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// SalesRepository define el puerto de persistencia para órdenes de venta.
// La unicidad (channel, order_number) la garantiza un constraint en DB;
// CreateOrder traduce la violación a domain.ErrDuplicate.
type SalesRepository interface {
	CreateOrder(order *entity.SalesOrder) error
	GetOrderByID(id string) (*entity.SalesOrder, error)
	// GetOrderByIDForUpdate bloquea la fila de la orden (SELECT FOR UPDATE);
	// el recálculo la lee así dentro de su transacción.
	GetOrderByIDForUpdate(id string) (*entity.SalesOrder, error)
	GetOrderByChannelAndNumber(channel, orderNumber string) (*entity.SalesOrder, error)
	ListOrders(limit, offset int) ([]*entity.SalesOrder, error)
	UpdateLineSnapshot(line *entity.SalesLine) error
}
