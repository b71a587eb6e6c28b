package entity

import "github.com/google/uuid"

// Role names issued by the external token service.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleDriver   = "driver"
)

// Driver represents a delivery driver. UserID links the driver record to the
// authenticated account issued by the external identity provider.
type Driver struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
}

// Customer represents a customer account able to place orders.
type Customer struct {
	ID     int64     `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
}
