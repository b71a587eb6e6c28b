package realtime

import (
	"context"
	"encoding/json"

	"fleet/internal/domain/entity"
)

// Server→client event kinds.
const (
	EventLocationUpdated             = "location_updated"
	EventDriverLocationUpdate        = "driver_location_update"
	EventNewOrder                    = "new_order"
	EventOrderStatusUpdated          = "order_status_updated"
	EventDeliveryAssigned            = "delivery_assigned"
	EventDeliveryPendingConfirmation = "delivery_pending_confirmation"
	EventDeliveryConfirmed           = "delivery_confirmed"
)

// Client→server operation names.
const (
	OpJoinDelivery     = "join_delivery"
	OpJoinAdminRoom    = "join_admin_room"
	OpJoinCustomerRoom = "join_customer_room"
	OpJoinDriverRoom   = "join_driver_room"
	OpLeaveDelivery    = "leave_delivery"
	OpUpdateLocation   = "update_location"
	OpDeviceUpdate     = "device_update"
)

// Event is one ephemeral, fire-and-forget notification published to a topic.
// Events are never persisted: a subscriber connected at emission time
// receives the event, a latecomer does not.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Marshal encodes the event into its wire frame. A marshal failure yields
// nil; callers drop the frame.
func (e Event) Marshal() []byte {
	frame, err := json.Marshal(e)
	if err != nil {
		return nil
	}

	return frame
}

// Envelope is the inbound wire frame: an operation name plus its payload.
type Envelope struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LocationUpdatedData is the payload of a location_updated event, broadcast
// to the delivery room after the coordinates were persisted.
type LocationUpdatedData struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DriverLocationUpdateData is the payload of a driver_location_update event,
// broadcast to the admin room for device-originated fixes.
type DriverLocationUpdateData struct {
	DriverID     int64   `json:"driver_id"`
	FirstName    string  `json:"first_name,omitempty"`
	LastName     string  `json:"last_name,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	SerialNumber string  `json:"serial_number"`
}

// NewOrderData is the payload of a new_order event.
type NewOrderData struct {
	Message string        `json:"message"`
	Order   *entity.Order `json:"order"`
}

// OrderStatusUpdatedData is the payload of an order_status_updated event.
type OrderStatusUpdatedData struct {
	Message string             `json:"message"`
	OrderID int64              `json:"order_id"`
	Status  entity.OrderStatus `json:"status"`
}

// MessageData is the payload of the message-only notification kinds
// (delivery_assigned, delivery_pending_confirmation, delivery_confirmed).
type MessageData struct {
	Message string `json:"message"`
}

// UpdateLocationPayload is the inbound update_location operation payload.
type UpdateLocationPayload struct {
	DeliveryID int64   `json:"delivery_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// DeviceUpdatePayload is the inbound device_update operation payload.
type DeviceUpdatePayload struct {
	SerialNumber string  `json:"serial_number"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// JoinPayload carries the numeric ID for the join/leave operations that
// target an entity-scoped room.
type JoinPayload struct {
	ID int64 `json:"id"`
}

// Publisher is the seam the business layer uses to emit events. The Hub is
// the production implementation; emission is best-effort and never returns
// delivery state to the caller.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, event Event)
}
