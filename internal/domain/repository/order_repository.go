// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// CreateOrder persists a new order and fills in generated fields.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrderByID retrieves an order by its numeric ID.
	FindOrderByID(ctx context.Context, id int64) (*entity.Order, error)

	// UpdateOrderStatus sets the status of an order.
	// Returns ErrOrderNotFound when no row matches.
	UpdateOrderStatus(ctx context.Context, id int64, status entity.OrderStatus) error
}
