package impl

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	mockRepo "fleet/internal/mocks/repository"
	"fleet/internal/realtime"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTrackingFixture() (*mockRepo.DeliveryRepository, *mockRepo.DeviceRepository, *mockRepo.DriverRepository, *recordingPublisher, *trackingService) {
	deliveryRepo := new(mockRepo.DeliveryRepository)
	deviceRepo := new(mockRepo.DeviceRepository)
	driverRepo := new(mockRepo.DriverRepository)
	publisher := &recordingPublisher{}

	service := NewTrackingService(deliveryRepo, deviceRepo, driverRepo, publisher, newTestLogger()).(*trackingService)

	return deliveryRepo, deviceRepo, driverRepo, publisher, service
}

func TestTrackingService_ReportPosition_PersistsThenBroadcasts(t *testing.T) {
	deliveryRepo, _, _, publisher, service := newTrackingFixture()

	ctx := context.Background()
	deliveryRepo.On("UpdateDeliveryPosition", ctx, int64(42), 25.03, 121.56).Return(nil)

	require.NoError(t, service.ReportPosition(ctx, 42, 25.03, 121.56))

	event := publisher.requireOne(t)
	assert.Equal(t, realtime.DeliveryTopic(42), event.Topic)
	assert.Equal(t, realtime.EventLocationUpdated, event.Event.Name)
	deliveryRepo.AssertExpectations(t)
}

func TestTrackingService_ReportPosition_UnknownDeliveryDropped(t *testing.T) {
	deliveryRepo, _, _, publisher, service := newTrackingFixture()

	ctx := context.Background()
	deliveryRepo.On("UpdateDeliveryPosition", ctx, int64(404), 1.0, 2.0).
		Return(repository.ErrDeliveryNotFound)

	// The connection survives a stale delivery ID; nothing is broadcast.
	require.NoError(t, service.ReportPosition(ctx, 404, 1.0, 2.0))
	assert.Empty(t, publisher.published())
}

func TestTrackingService_ReportPosition_WriteFailureSuppressesBroadcast(t *testing.T) {
	deliveryRepo, _, _, publisher, service := newTrackingFixture()

	ctx := context.Background()
	deliveryRepo.On("UpdateDeliveryPosition", ctx, int64(42), 1.0, 2.0).
		Return(errors.New("connection reset"))

	require.Error(t, service.ReportPosition(ctx, 42, 1.0, 2.0))
	assert.Empty(t, publisher.published())
}

func TestTrackingService_ReportDeviceFix_BoundDeviceReachesAdmins(t *testing.T) {
	_, deviceRepo, driverRepo, publisher, service := newTrackingFixture()

	ctx := context.Background()
	driverID := int64(3)
	deviceRepo.On("FindDeviceBySerial", ctx, "SN-1").
		Return(&entity.TrackerDevice{Serial: "SN-1", DriverID: &driverID}, nil).Once()
	driverRepo.On("FindDriverByID", ctx, driverID).
		Return(&entity.Driver{ID: driverID, FirstName: "Mei", LastName: "Lin"}, nil).Once()
	deviceRepo.On("UpdateDevicePosition", ctx, "SN-1", 25.0, 121.5).Return(nil)

	require.NoError(t, service.ReportDeviceFix(ctx, "SN-1", 25.0, 121.5))

	event := publisher.requireOne(t)
	assert.Equal(t, realtime.TopicAdmin, event.Topic)
	assert.Equal(t, realtime.EventDriverLocationUpdate, event.Event.Name)
	deviceRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestTrackingService_ReportDeviceFix_BindingIsCached(t *testing.T) {
	_, deviceRepo, driverRepo, publisher, service := newTrackingFixture()

	ctx := context.Background()
	driverID := int64(3)
	// Resolution happens once; subsequent fixes reuse the cache.
	deviceRepo.On("FindDeviceBySerial", ctx, "SN-1").
		Return(&entity.TrackerDevice{Serial: "SN-1", DriverID: &driverID}, nil).Once()
	driverRepo.On("FindDriverByID", ctx, driverID).
		Return(&entity.Driver{ID: driverID, FirstName: "Mei", LastName: "Lin"}, nil).Once()
	deviceRepo.On("UpdateDevicePosition", ctx, "SN-1", 25.0, 121.5).Return(nil).Twice()

	require.NoError(t, service.ReportDeviceFix(ctx, "SN-1", 25.0, 121.5))
	require.NoError(t, service.ReportDeviceFix(ctx, "SN-1", 25.0, 121.5))

	assert.Len(t, publisher.published(), 2)
	deviceRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestTrackingService_ReportDeviceFix_UnknownSerialDropped(t *testing.T) {
	_, deviceRepo, _, publisher, service := newTrackingFixture()

	ctx := context.Background()
	deviceRepo.On("FindDeviceBySerial", ctx, "GHOST").
		Return(nil, repository.ErrDeviceNotFound)

	require.NoError(t, service.ReportDeviceFix(ctx, "GHOST", 1.0, 2.0))
	assert.Empty(t, publisher.published())
	deviceRepo.AssertNotCalled(t, "UpdateDevicePosition")
}

func TestTrackingService_ReportDeviceFix_UnboundPersistedNotBroadcast(t *testing.T) {
	_, deviceRepo, _, publisher, service := newTrackingFixture()

	ctx := context.Background()
	deviceRepo.On("FindDeviceBySerial", ctx, "SN-2").
		Return(&entity.TrackerDevice{Serial: "SN-2"}, nil).Once()
	deviceRepo.On("UpdateDevicePosition", ctx, "SN-2", 25.0, 121.5).Return(nil)

	require.NoError(t, service.ReportDeviceFix(ctx, "SN-2", 25.0, 121.5))
	assert.Empty(t, publisher.published())
	deviceRepo.AssertExpectations(t)
}

func TestTrackingService_RebindDevice_InvalidatesCache(t *testing.T) {
	_, deviceRepo, driverRepo, _, service := newTrackingFixture()

	ctx := context.Background()
	oldDriver := int64(3)
	newDriver := int64(4)

	deviceRepo.On("FindDeviceBySerial", ctx, "SN-1").
		Return(&entity.TrackerDevice{Serial: "SN-1", DriverID: &oldDriver}, nil).Once()
	driverRepo.On("FindDriverByID", ctx, oldDriver).
		Return(&entity.Driver{ID: oldDriver}, nil).Once()
	deviceRepo.On("UpdateDevicePosition", ctx, "SN-1", 1.0, 2.0).Return(nil).Twice()
	require.NoError(t, service.ReportDeviceFix(ctx, "SN-1", 1.0, 2.0))

	deviceRepo.On("RebindDevice", ctx, "SN-1", &newDriver).Return(nil)
	require.NoError(t, service.RebindDevice(ctx, "SN-1", &newDriver))

	// The next fix must resolve the binding again.
	deviceRepo.On("FindDeviceBySerial", ctx, "SN-1").
		Return(&entity.TrackerDevice{Serial: "SN-1", DriverID: &newDriver}, nil).Once()
	driverRepo.On("FindDriverByID", ctx, newDriver).
		Return(&entity.Driver{ID: newDriver}, nil).Once()
	require.NoError(t, service.ReportDeviceFix(ctx, "SN-1", 1.0, 2.0))

	deviceRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestTrackingService_RebindDevice_RepoErrorKeepsCache(t *testing.T) {
	_, deviceRepo, _, _, service := newTrackingFixture()

	ctx := context.Background()
	deviceRepo.On("RebindDevice", ctx, "SN-1", (*int64)(nil)).
		Return(errors.New("connection reset"))

	require.Error(t, service.RebindDevice(ctx, "SN-1", nil))
}

func TestTrackingService_ReportDeviceFix_ConcurrentSameSerial(t *testing.T) {
	_, deviceRepo, driverRepo, publisher, service := newTrackingFixture()

	ctx := context.Background()
	driverID := int64(3)
	deviceRepo.On("FindDeviceBySerial", ctx, "SN-1").
		Return(&entity.TrackerDevice{Serial: "SN-1", DriverID: &driverID}, nil)
	driverRepo.On("FindDriverByID", ctx, driverID).
		Return(&entity.Driver{ID: driverID, FirstName: "Mei", LastName: "Lin"}, nil)
	deviceRepo.On("UpdateDevicePosition", ctx, "SN-1", mock.Anything, mock.Anything).
		Return(nil)

	// A hardware gateway and a reconnecting socket can report the same
	// serial at once; every fix must land without corrupting the cache.
	const workers, fixes = 8, 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < fixes; i++ {
				assert.NoError(t, service.ReportDeviceFix(ctx, "SN-1",
					25.0+float64(w)*0.001, 121.5+float64(i)*0.001))
			}
		}(w)
	}
	wg.Wait()

	assert.Len(t, publisher.published(), workers*fixes)
}

func TestTrackingService_ReportDeviceFix_PersistedBaselineFlagsJump(t *testing.T) {
	deviceRepo := new(mockRepo.DeviceRepository)
	driverRepo := new(mockRepo.DriverRepository)
	publisher := &recordingPublisher{}

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	service := NewTrackingService(new(mockRepo.DeliveryRepository), deviceRepo, driverRepo, publisher, logger).(*trackingService)

	ctx := context.Background()
	deviceRepo.On("FindDeviceBySerial", ctx, "SN-1").
		Return(&entity.TrackerDevice{Serial: "SN-1", LastLat: 25.0, LastLng: 121.5, UpdatedAt: time.Now()}, nil).Once()
	deviceRepo.On("UpdateDevicePosition", ctx, "SN-1", 48.85, 2.35).Return(nil)

	// The device is unbound so nothing broadcasts, but the implausible
	// move from the persisted position is flagged on the very first fix.
	require.NoError(t, service.ReportDeviceFix(ctx, "SN-1", 48.85, 2.35))
	assert.Contains(t, logBuf.String(), "jumped implausibly far")
	assert.Empty(t, publisher.published())
}
