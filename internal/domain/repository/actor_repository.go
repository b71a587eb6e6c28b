package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for driver and customer persistence.
var (
	// ErrDriverNotFound is returned when a driver record is not found.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrCustomerNotFound is returned when a customer record is not found.
	ErrCustomerNotFound = errors.New("customer not found")
)

// DriverRepository defines the interface for driver-related database operations.
type DriverRepository interface {
	// FindDriverByID retrieves a driver by its numeric ID.
	FindDriverByID(ctx context.Context, id int64) (*entity.Driver, error)

	// FindDriverByUserID resolves the driver record owned by an authenticated user.
	FindDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error)
}

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	// FindCustomerByID retrieves a customer by its numeric ID.
	FindCustomerByID(ctx context.Context, id int64) (*entity.Customer, error)

	// FindCustomerByUserID resolves the customer record owned by an authenticated user.
	FindCustomerByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error)
}
