// Package repository provides hand-written testify mocks of the domain
// repository interfaces for use in usecase and realtime tests.
package repository

import (
	"context"

	"fleet/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// OrderRepository is a mock of repository.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *OrderRepository) FindOrderByID(ctx context.Context, id int64) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}
