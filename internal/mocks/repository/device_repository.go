package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// DeviceRepository is a mock of repository.DeviceRepository.
type DeviceRepository struct {
	mock.Mock
}

func (m *DeviceRepository) FindDeviceBySerial(ctx context.Context, serial string) (*entity.TrackerDevice, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.TrackerDevice), args.Error(1)
}

func (m *DeviceRepository) UpdateDevicePosition(ctx context.Context, serial string, lat, lng float64) error {
	args := m.Called(ctx, serial, lat, lng)

	return args.Error(0)
}

func (m *DeviceRepository) RebindDevice(ctx context.Context, serial string, driverID *int64) error {
	args := m.Called(ctx, serial, driverID)

	return args.Error(0)
}
