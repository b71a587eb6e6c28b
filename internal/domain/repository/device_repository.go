package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for tracker device persistence.
var (
	// ErrDeviceNotFound is returned when a tracker device is not found.
	ErrDeviceNotFound = errors.New("tracker device not found")
)

// DeviceRepository defines the interface for tracker-device database operations.
type DeviceRepository interface {
	// FindDeviceBySerial retrieves a tracker device by its hardware serial number.
	FindDeviceBySerial(ctx context.Context, serial string) (*entity.TrackerDevice, error)

	// UpdateDevicePosition persists the last reported coordinates on a device record.
	UpdateDevicePosition(ctx context.Context, serial string, lat, lng float64) error

	// RebindDevice assigns (or clears, with nil) the driver bound to a device serial.
	RebindDevice(ctx context.Context, serial string, driverID *int64) error
}
