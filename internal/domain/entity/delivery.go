package entity

import "time"

// DeliveryStatus enumerates the lifecycle states of a delivery.
type DeliveryStatus string

const (
	DeliveryStatusUnassigned           DeliveryStatus = "Unassigned"
	DeliveryStatusAssigned             DeliveryStatus = "Assigned"
	DeliveryStatusEnRoute              DeliveryStatus = "EnRoute"
	DeliveryStatusAwaitingConfirmation DeliveryStatus = "AwaitingConfirmation"
	DeliveryStatusConfirmed            DeliveryStatus = "Confirmed"
)

// ParseDeliveryStatus validates a raw status value.
func ParseDeliveryStatus(raw string) (DeliveryStatus, bool) {
	switch status := DeliveryStatus(raw); status {
	case DeliveryStatusUnassigned, DeliveryStatusAssigned, DeliveryStatusEnRoute,
		DeliveryStatusAwaitingConfirmation, DeliveryStatusConfirmed:
		return status, true
	default:
		return "", false
	}
}

// Delivery represents the physical fulfilment of one order, including the
// last reported position of the driver working it.
type Delivery struct {
	ID         int64          `json:"id"`          // Numeric delivery identifier.
	OrderID    int64          `json:"order_id"`    // The order being fulfilled.
	CustomerID int64          `json:"customer_id"` // Denormalized owner of the underlying order.
	DriverID   *int64         `json:"driver_id"`   // Assigned driver; nil until assignment.
	VehicleID  *int64         `json:"vehicle_id"`  // Assigned vehicle; nil until assignment.
	Status     DeliveryStatus `json:"status"`      // Current lifecycle status.
	CurrentLat float64        `json:"current_lat"` // Last persisted driver latitude.
	CurrentLng float64        `json:"current_lng"` // Last persisted driver longitude.
	CreatedAt  time.Time      `json:"created_at"`  // Timestamp of creation.
	UpdatedAt  time.Time      `json:"updated_at"`  // Timestamp of the last modification.
}
