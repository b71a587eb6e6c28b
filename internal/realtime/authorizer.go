package realtime

import (
	"context"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"

	"github.com/pkg/errors"
)

// ErrJoinDenied is returned when an actor requests a topic it is not
// entitled to.
var ErrJoinDenied = errors.New("join denied")

// Authorizer decides, at join time, whether an actor may subscribe to a
// topic. The delivery-topic check goes back to the store rather than
// trusting that the client only requests deliveries it already fetched.
type Authorizer interface {
	Authorize(ctx context.Context, actor Actor, topic Topic) error
}

type topicAuthorizer struct {
	deliveryRepo repository.DeliveryRepository
}

// NewAuthorizer builds the production Authorizer backed by the delivery store.
func NewAuthorizer(deliveryRepo repository.DeliveryRepository) Authorizer {
	return &topicAuthorizer{deliveryRepo: deliveryRepo}
}

// Authorize applies the room-membership rule:
//   - admins may join the admin room and any delivery room;
//   - a customer may join only its own customer room and delivery rooms
//     whose underlying order it owns;
//   - a driver may join only its own driver room and delivery rooms
//     currently assigned to it.
func (a *topicAuthorizer) Authorize(ctx context.Context, actor Actor, topic Topic) error {
	if deliveryID, ok := topic.DeliveryID(); ok {
		return a.authorizeDelivery(ctx, actor, deliveryID)
	}

	for _, allowed := range actor.BaseTopics() {
		if topic == allowed {
			return nil
		}
	}

	return ErrJoinDenied
}

func (a *topicAuthorizer) authorizeDelivery(ctx context.Context, actor Actor, deliveryID int64) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}

	delivery, err := a.deliveryRepo.FindDeliveryByID(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, repository.ErrDeliveryNotFound) {
			return ErrJoinDenied
		}

		return errors.Wrap(err, "authorize delivery join")
	}

	switch actor.Role {
	case entity.RoleCustomer:
		if actor.CustomerID != nil && delivery.CustomerID == *actor.CustomerID {
			return nil
		}
	case entity.RoleDriver:
		if actor.DriverID != nil && delivery.DriverID != nil && *delivery.DriverID == *actor.DriverID {
			return nil
		}
	}

	return ErrJoinDenied
}
