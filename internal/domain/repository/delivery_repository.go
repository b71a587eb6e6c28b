package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for delivery persistence.
var (
	// ErrDeliveryNotFound is returned when a delivery is not found.
	ErrDeliveryNotFound = errors.New("delivery not found")
)

// DeliveryRepository defines the interface for delivery-related database operations.
type DeliveryRepository interface {
	// CreateDelivery persists a new delivery and fills in generated fields.
	CreateDelivery(ctx context.Context, delivery *entity.Delivery) error

	// FindDeliveryByID retrieves a delivery by its numeric ID.
	FindDeliveryByID(ctx context.Context, id int64) (*entity.Delivery, error)

	// UpdateDeliveryPosition persists the last reported driver coordinates
	// on a delivery. A write against a nonexistent delivery returns
	// ErrDeliveryNotFound (zero rows affected), not a database error.
	UpdateDeliveryPosition(ctx context.Context, id int64, lat, lng float64) error

	// AssignDelivery sets the driver and vehicle working a delivery and
	// moves it to the Assigned status.
	AssignDelivery(ctx context.Context, id, driverID, vehicleID int64) error

	// UpdateDeliveryStatus sets the status of a delivery.
	UpdateDeliveryStatus(ctx context.Context, id int64, status entity.DeliveryStatus) error
}
