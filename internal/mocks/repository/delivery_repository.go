package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// DeliveryRepository is a mock of repository.DeliveryRepository.
type DeliveryRepository struct {
	mock.Mock
}

func (m *DeliveryRepository) CreateDelivery(ctx context.Context, delivery *entity.Delivery) error {
	args := m.Called(ctx, delivery)

	return args.Error(0)
}

func (m *DeliveryRepository) FindDeliveryByID(ctx context.Context, id int64) (*entity.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Delivery), args.Error(1)
}

func (m *DeliveryRepository) UpdateDeliveryPosition(ctx context.Context, id int64, lat, lng float64) error {
	args := m.Called(ctx, id, lat, lng)

	return args.Error(0)
}

func (m *DeliveryRepository) AssignDelivery(ctx context.Context, id, driverID, vehicleID int64) error {
	args := m.Called(ctx, id, driverID, vehicleID)

	return args.Error(0)
}

func (m *DeliveryRepository) UpdateDeliveryStatus(ctx context.Context, id int64, status entity.DeliveryStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}
