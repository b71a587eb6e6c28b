package usecase

import (
	"context"

	"fleet/internal/domain/entity"
)

// DispatchUsecase covers delivery assignment and status transitions, each
// paired with its realtime notification.
type DispatchUsecase interface {
	// GetDelivery retrieves a delivery with its last persisted coordinates.
	GetDelivery(ctx context.Context, deliveryID int64) (*entity.Delivery, error)

	// AssignDelivery sets the driver and vehicle working a delivery and
	// notifies the driver's room with a delivery_assigned event.
	AssignDelivery(ctx context.Context, deliveryID, driverID, vehicleID int64) error

	// UpdateDeliveryStatus sets the delivery status. Transitions into
	// AwaitingConfirmation and Confirmed notify the admin room.
	UpdateDeliveryStatus(ctx context.Context, deliveryID int64, status entity.DeliveryStatus) error
}
