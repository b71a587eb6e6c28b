package impl

import (
	"context"
	"fmt"
	"log/slog"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/realtime"
	"fleet/internal/usecase"

	"github.com/pkg/errors"
)

type dispatchService struct {
	deliveryRepo repository.DeliveryRepository
	publisher    realtime.Publisher
	logger       *slog.Logger
}

// NewDispatchService creates the dispatch usecase.
func NewDispatchService(
	deliveryRepo repository.DeliveryRepository,
	publisher realtime.Publisher,
	logger *slog.Logger,
) usecase.DispatchUsecase {
	return &dispatchService{
		deliveryRepo: deliveryRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *dispatchService) GetDelivery(ctx context.Context, deliveryID int64) (*entity.Delivery, error) {
	delivery, err := s.deliveryRepo.FindDeliveryByID(ctx, deliveryID)
	if err != nil {
		return nil, errors.Wrap(err, "find delivery")
	}

	return delivery, nil
}

// AssignDelivery sets the driver and vehicle, then notifies the driver's
// room so every session of that driver sees the assignment.
func (s *dispatchService) AssignDelivery(ctx context.Context, deliveryID, driverID, vehicleID int64) error {
	if err := s.deliveryRepo.AssignDelivery(ctx, deliveryID, driverID, vehicleID); err != nil {
		return errors.Wrap(err, "assign delivery")
	}

	s.publisher.Publish(ctx, realtime.DriverTopic(driverID), realtime.Event{
		Name: realtime.EventDeliveryAssigned,
		Data: realtime.MessageData{
			Message: fmt.Sprintf("You have been assigned delivery #%d", deliveryID),
		},
	})

	return nil
}

// UpdateDeliveryStatus persists the transition; the two admin-relevant
// states each notify the admin room after the write commits.
func (s *dispatchService) UpdateDeliveryStatus(ctx context.Context, deliveryID int64, status entity.DeliveryStatus) error {
	if err := s.deliveryRepo.UpdateDeliveryStatus(ctx, deliveryID, status); err != nil {
		return errors.Wrap(err, "update delivery status")
	}

	switch status {
	case entity.DeliveryStatusAwaitingConfirmation:
		s.publisher.Publish(ctx, realtime.TopicAdmin, realtime.Event{
			Name: realtime.EventDeliveryPendingConfirmation,
			Data: realtime.MessageData{
				Message: fmt.Sprintf("Delivery #%d arrived, awaiting confirmation", deliveryID),
			},
		})
	case entity.DeliveryStatusConfirmed:
		s.publisher.Publish(ctx, realtime.TopicAdmin, realtime.Event{
			Name: realtime.EventDeliveryConfirmed,
			Data: realtime.MessageData{
				Message: fmt.Sprintf("Delivery #%d confirmed", deliveryID),
			},
		})
	default:
		s.logger.Debug("delivery status changed without notification",
			slog.Int64("deliveryID", deliveryID),
			slog.String("status", string(status)),
		)
	}

	return nil
}
