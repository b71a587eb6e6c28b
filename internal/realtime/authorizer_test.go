package realtime

import (
	"context"
	"testing"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	mockRepo "fleet/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer_AdminJoinsAnything(t *testing.T) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	authorizer := NewAuthorizer(deliveryRepo)

	ctx := context.Background()
	admin := Actor{Role: entity.RoleAdmin}

	require.NoError(t, authorizer.Authorize(ctx, admin, TopicAdmin))
	// Delivery rooms need no store lookup for admins.
	require.NoError(t, authorizer.Authorize(ctx, admin, DeliveryTopic(42)))
	deliveryRepo.AssertNotCalled(t, "FindDeliveryByID")
}

func TestAuthorizer_CustomerOwnRoomOnly(t *testing.T) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	authorizer := NewAuthorizer(deliveryRepo)

	ctx := context.Background()
	customerID := int64(7)
	customer := Actor{Role: entity.RoleCustomer, CustomerID: &customerID}

	require.NoError(t, authorizer.Authorize(ctx, customer, CustomerTopic(7)))
	assert.ErrorIs(t, authorizer.Authorize(ctx, customer, CustomerTopic(8)), ErrJoinDenied)
	assert.ErrorIs(t, authorizer.Authorize(ctx, customer, TopicAdmin), ErrJoinDenied)
	assert.ErrorIs(t, authorizer.Authorize(ctx, customer, DriverTopic(7)), ErrJoinDenied)
}

func TestAuthorizer_CustomerDeliveryOwnership(t *testing.T) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	authorizer := NewAuthorizer(deliveryRepo)

	ctx := context.Background()
	customerID := int64(7)
	customer := Actor{Role: entity.RoleCustomer, CustomerID: &customerID}

	deliveryRepo.On("FindDeliveryByID", ctx, int64(1)).
		Return(&entity.Delivery{ID: 1, CustomerID: 7}, nil)
	deliveryRepo.On("FindDeliveryByID", ctx, int64(2)).
		Return(&entity.Delivery{ID: 2, CustomerID: 99}, nil)

	require.NoError(t, authorizer.Authorize(ctx, customer, DeliveryTopic(1)))
	assert.ErrorIs(t, authorizer.Authorize(ctx, customer, DeliveryTopic(2)), ErrJoinDenied)
}

func TestAuthorizer_DriverDeliveryAssignment(t *testing.T) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	authorizer := NewAuthorizer(deliveryRepo)

	ctx := context.Background()
	driverID := int64(3)
	otherDriver := int64(4)
	driver := Actor{Role: entity.RoleDriver, DriverID: &driverID}

	deliveryRepo.On("FindDeliveryByID", ctx, int64(1)).
		Return(&entity.Delivery{ID: 1, CustomerID: 7, DriverID: &driverID}, nil)
	deliveryRepo.On("FindDeliveryByID", ctx, int64(2)).
		Return(&entity.Delivery{ID: 2, CustomerID: 7, DriverID: &otherDriver}, nil)
	deliveryRepo.On("FindDeliveryByID", ctx, int64(3)).
		Return(&entity.Delivery{ID: 3, CustomerID: 7}, nil)

	require.NoError(t, authorizer.Authorize(ctx, driver, DeliveryTopic(1)))
	assert.ErrorIs(t, authorizer.Authorize(ctx, driver, DeliveryTopic(2)), ErrJoinDenied)
	// Unassigned delivery: no driver may watch it yet.
	assert.ErrorIs(t, authorizer.Authorize(ctx, driver, DeliveryTopic(3)), ErrJoinDenied)
}

func TestAuthorizer_UnknownDeliveryDenied(t *testing.T) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	authorizer := NewAuthorizer(deliveryRepo)

	ctx := context.Background()
	customerID := int64(7)
	customer := Actor{Role: entity.RoleCustomer, CustomerID: &customerID}

	deliveryRepo.On("FindDeliveryByID", ctx, int64(404)).
		Return(nil, repository.ErrDeliveryNotFound)

	assert.ErrorIs(t, authorizer.Authorize(ctx, customer, DeliveryTopic(404)), ErrJoinDenied)
}

func TestAuthorizer_StoreErrorPropagates(t *testing.T) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	authorizer := NewAuthorizer(deliveryRepo)

	ctx := context.Background()
	customerID := int64(7)
	customer := Actor{Role: entity.RoleCustomer, CustomerID: &customerID}

	storeErr := errors.New("connection reset")
	deliveryRepo.On("FindDeliveryByID", ctx, int64(1)).Return(nil, storeErr)

	err := authorizer.Authorize(ctx, customer, DeliveryTopic(1))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrJoinDenied)
	assert.ErrorIs(t, err, storeErr)
}
