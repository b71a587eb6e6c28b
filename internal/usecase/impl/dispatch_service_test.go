package impl

import (
	"context"
	"testing"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	mockRepo "fleet/internal/mocks/repository"
	"fleet/internal/realtime"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatchFixture() (*mockRepo.DeliveryRepository, *recordingPublisher, *dispatchService) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	publisher := &recordingPublisher{}
	service := NewDispatchService(deliveryRepo, publisher, newTestLogger()).(*dispatchService)

	return deliveryRepo, publisher, service
}

func TestDispatchService_GetDelivery(t *testing.T) {
	deliveryRepo, _, service := newDispatchFixture()

	ctx := context.Background()
	deliveryRepo.On("FindDeliveryByID", ctx, int64(42)).
		Return(&entity.Delivery{ID: 42, CustomerID: 7}, nil)

	delivery, err := service.GetDelivery(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), delivery.ID)
}

func TestDispatchService_GetDelivery_NotFound(t *testing.T) {
	deliveryRepo, _, service := newDispatchFixture()

	ctx := context.Background()
	deliveryRepo.On("FindDeliveryByID", ctx, int64(404)).
		Return(nil, repository.ErrDeliveryNotFound)

	_, err := service.GetDelivery(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrDeliveryNotFound)
}

func TestDispatchService_AssignDelivery_NotifiesDriverRoom(t *testing.T) {
	deliveryRepo, publisher, service := newDispatchFixture()

	ctx := context.Background()
	deliveryRepo.On("AssignDelivery", ctx, int64(42), int64(3), int64(11)).Return(nil)

	require.NoError(t, service.AssignDelivery(ctx, 42, 3, 11))

	event := publisher.requireOne(t)
	assert.Equal(t, realtime.DriverTopic(3), event.Topic)
	assert.Equal(t, realtime.EventDeliveryAssigned, event.Event.Name)

	data, ok := event.Event.Data.(realtime.MessageData)
	require.True(t, ok)
	assert.Equal(t, "You have been assigned delivery #42", data.Message)
}

func TestDispatchService_AssignDelivery_WriteFailureSuppressesNotification(t *testing.T) {
	deliveryRepo, publisher, service := newDispatchFixture()

	ctx := context.Background()
	deliveryRepo.On("AssignDelivery", ctx, int64(42), int64(3), int64(11)).
		Return(errors.New("connection reset"))

	require.Error(t, service.AssignDelivery(ctx, 42, 3, 11))
	assert.Empty(t, publisher.published())
}

func TestDispatchService_UpdateDeliveryStatus_AdminNotifications(t *testing.T) {
	tests := []struct {
		name      string
		status    entity.DeliveryStatus
		wantEvent string
	}{
		{
			name:      "arrival requests confirmation",
			status:    entity.DeliveryStatusAwaitingConfirmation,
			wantEvent: realtime.EventDeliveryPendingConfirmation,
		},
		{
			name:      "confirmation closes the loop",
			status:    entity.DeliveryStatusConfirmed,
			wantEvent: realtime.EventDeliveryConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deliveryRepo, publisher, service := newDispatchFixture()

			ctx := context.Background()
			deliveryRepo.On("UpdateDeliveryStatus", ctx, int64(42), tt.status).Return(nil)

			require.NoError(t, service.UpdateDeliveryStatus(ctx, 42, tt.status))

			event := publisher.requireOne(t)
			assert.Equal(t, realtime.TopicAdmin, event.Topic)
			assert.Equal(t, tt.wantEvent, event.Event.Name)
		})
	}
}

func TestDispatchService_UpdateDeliveryStatus_SilentTransitions(t *testing.T) {
	deliveryRepo, publisher, service := newDispatchFixture()

	ctx := context.Background()
	deliveryRepo.On("UpdateDeliveryStatus", ctx, int64(42), entity.DeliveryStatusEnRoute).Return(nil)

	require.NoError(t, service.UpdateDeliveryStatus(ctx, 42, entity.DeliveryStatusEnRoute))
	assert.Empty(t, publisher.published())
}
