// Package entity contains the core business objects of the project.
package entity

import "time"

// OrderStatus enumerates the lifecycle states of a customer order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusScheduled OrderStatus = "Scheduled"
	OrderStatusInTransit OrderStatus = "InTransit"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus validates a raw status value.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch status := OrderStatus(raw); status {
	case OrderStatusPending, OrderStatusScheduled, OrderStatusInTransit,
		OrderStatusDelivered, OrderStatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// Order represents a customer order awaiting (or undergoing) delivery.
type Order struct {
	ID          int64       `json:"id"`          // Numeric order identifier.
	CustomerID  int64       `json:"customer_id"` // The customer who placed the order.
	Status      OrderStatus `json:"status"`      // Current lifecycle status.
	Description string      `json:"description"` // Free-form description of the goods.
	CreatedAt   time.Time   `json:"created_at"`  // Timestamp of creation.
	UpdatedAt   time.Time   `json:"updated_at"`  // Timestamp of the last modification.
}
