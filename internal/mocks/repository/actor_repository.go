package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// DriverRepository is a mock of repository.DriverRepository.
type DriverRepository struct {
	mock.Mock
}

func (m *DriverRepository) FindDriverByID(ctx context.Context, id int64) (*entity.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Driver), args.Error(1)
}

func (m *DriverRepository) FindDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Driver), args.Error(1)
}

// CustomerRepository is a mock of repository.CustomerRepository.
type CustomerRepository struct {
	mock.Mock
}

func (m *CustomerRepository) FindCustomerByID(ctx context.Context, id int64) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *CustomerRepository) FindCustomerByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Customer), args.Error(1)
}
