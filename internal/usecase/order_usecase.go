package usecase

import (
	"context"

	"fleet/internal/domain/entity"
)

// CreateOrderInput represents the input for placing a new order.
type CreateOrderInput struct {
	CustomerID  int64  `json:"customer_id"`
	Description string `json:"description"`
}

// OrderUsecase defines the order mutations that drive realtime notifications.
// Emission is coupled to the mutation: the event goes out synchronously after
// the write commits, so a client reacting to the notification by re-fetching
// always sees the persisted state.
type OrderUsecase interface {
	// CreateOrder persists a new order (and its unassigned delivery) and
	// notifies the admin room with a new_order event.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)

	// UpdateOrderStatus sets the order status. When the value actually
	// changes, exactly one order_status_updated event is emitted to the
	// owning customer's room; a no-op write emits nothing.
	UpdateOrderStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error)
}
