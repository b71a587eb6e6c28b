package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/realtime"
	"fleet/internal/usecase"

	"github.com/pkg/errors"
)

type orderService struct {
	orderRepo    repository.OrderRepository
	deliveryRepo repository.DeliveryRepository
	publisher    realtime.Publisher
	logger       *slog.Logger
}

// NewOrderService creates the order usecase.
func NewOrderService(
	orderRepo repository.OrderRepository,
	deliveryRepo repository.DeliveryRepository,
	publisher realtime.Publisher,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateOrder persists the order and its unassigned delivery, then notifies
// admins. Notification is best-effort: a lost event never rolls back the
// committed mutation.
func (s *orderService) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (*entity.Order, error) {
	now := time.Now()
	order := &entity.Order{
		CustomerID:  input.CustomerID,
		Status:      entity.OrderStatusPending,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	delivery := &entity.Delivery{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     entity.DeliveryStatusUnassigned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.deliveryRepo.CreateDelivery(ctx, delivery); err != nil {
		return nil, errors.Wrap(err, "create delivery for order")
	}

	s.publisher.Publish(ctx, realtime.TopicAdmin, realtime.Event{
		Name: realtime.EventNewOrder,
		Data: realtime.NewOrderData{
			Message: fmt.Sprintf("New order #%d received", order.ID),
			Order:   order,
		},
	})

	return order, nil
}

// UpdateOrderStatus persists the transition and emits exactly one
// order_status_updated event to the owning customer's room. Setting the
// same status again is a no-op and emits nothing.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}

	if order.Status == status {
		s.logger.Debug("order status unchanged, skipping notification",
			slog.Int64("orderID", orderID),
			slog.String("status", string(status)),
		)

		return order, nil
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, errors.Wrap(err, "update order status")
	}
	order.Status = status

	s.publisher.Publish(ctx, realtime.CustomerTopic(order.CustomerID), realtime.Event{
		Name: realtime.EventOrderStatusUpdated,
		Data: realtime.OrderStatusUpdatedData{
			Message: fmt.Sprintf("Order #%d is now %s", orderID, status),
			OrderID: orderID,
			Status:  status,
		},
	})

	return order, nil
}
