// Package impl contains the concrete usecase implementations.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/realtime"
	"fleet/internal/usecase"

	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

// deviceJumpWarnMeters flags fixes that moved implausibly far since the
// previous one; the fix is still accepted.
const deviceJumpWarnMeters = 50_000

// cachedBinding is the resolved serial→driver mapping held between fixes.
// Invalidated on rebind; re-resolved on the next fix. The identity fields
// are immutable after construction; the fix fields are updated by whichever
// connection reports for this serial, so they carry their own lock.
type cachedBinding struct {
	driverID  *int64
	firstName string
	lastName  string

	mu      sync.Mutex
	lastFix entity.PositionFix
	hasFix  bool
}

// recordFix swaps in the newest fix and returns the previous one.
func (b *cachedBinding) recordFix(fix entity.PositionFix) (entity.PositionFix, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.lastFix, b.hasFix
	b.lastFix = fix
	b.hasFix = true

	return prev, had
}

type trackingService struct {
	deliveryRepo repository.DeliveryRepository
	deviceRepo   repository.DeviceRepository
	driverRepo   repository.DriverRepository
	publisher    realtime.Publisher
	logger       *slog.Logger

	mu       sync.Mutex
	bindings map[string]*cachedBinding
}

// NewTrackingService creates the tracking usecase. It is also the
// realtime.PositionSink wired into every websocket connection.
func NewTrackingService(
	deliveryRepo repository.DeliveryRepository,
	deviceRepo repository.DeviceRepository,
	driverRepo repository.DriverRepository,
	publisher realtime.Publisher,
	logger *slog.Logger,
) usecase.TrackingUsecase {
	return &trackingService{
		deliveryRepo: deliveryRepo,
		deviceRepo:   deviceRepo,
		driverRepo:   driverRepo,
		publisher:    publisher,
		logger:       logger,
		bindings:     make(map[string]*cachedBinding),
	}
}

// ReportPosition persists the fix on the delivery, then broadcasts to the
// delivery's room. Persistence strictly precedes broadcast: a failed write
// must not produce a misleading live-location notification.
func (s *trackingService) ReportPosition(ctx context.Context, deliveryID int64, lat, lng float64) error {
	if err := s.deliveryRepo.UpdateDeliveryPosition(ctx, deliveryID, lat, lng); err != nil {
		if errors.Is(err, repository.ErrDeliveryNotFound) {
			s.logger.Warn("position update for unknown delivery, dropping",
				slog.Int64("deliveryID", deliveryID),
			)

			return nil
		}

		return errors.Wrap(err, "persist delivery position")
	}

	s.publisher.Publish(ctx, realtime.DeliveryTopic(deliveryID), realtime.Event{
		Name: realtime.EventLocationUpdated,
		Data: realtime.LocationUpdatedData{Lat: lat, Lng: lng},
	})

	return nil
}

// ReportDeviceFix resolves the device binding, persists the device
// coordinates, and re-broadcasts bound fixes to the admin room. Drivers do
// not receive their own device-originated fixes back.
func (s *trackingService) ReportDeviceFix(ctx context.Context, serial string, lat, lng float64) error {
	binding, err := s.resolveBinding(ctx, serial)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			s.logger.Warn("fix from unknown device serial, dropping",
				slog.String("serial", serial),
			)

			return nil
		}

		return errors.Wrap(err, "resolve device binding")
	}

	if err := s.deviceRepo.UpdateDevicePosition(ctx, serial, lat, lng); err != nil {
		return errors.Wrap(err, "persist device position")
	}

	fix := entity.PositionFix{Lat: lat, Lng: lng, ObservedAt: time.Now()}
	if prev, had := binding.recordFix(fix); had {
		if jump := geo.Distance(prev.Point(), fix.Point()); jump > deviceJumpWarnMeters {
			s.logger.Warn("device fix jumped implausibly far",
				slog.String("serial", serial),
				slog.Float64("meters", jump),
			)
		}
	}

	if binding.driverID == nil {
		s.logger.Debug("fix from unbound device persisted, not broadcast",
			slog.String("serial", serial),
		)

		return nil
	}

	s.publisher.Publish(ctx, realtime.TopicAdmin, realtime.Event{
		Name: realtime.EventDriverLocationUpdate,
		Data: realtime.DriverLocationUpdateData{
			DriverID:     *binding.driverID,
			FirstName:    binding.firstName,
			LastName:     binding.lastName,
			Lat:          lat,
			Lng:          lng,
			SerialNumber: serial,
		},
	})

	return nil
}

// RebindDevice reassigns the device and drops the cached binding so the
// next fix resolves fresh. No historical re-attribution happens.
func (s *trackingService) RebindDevice(ctx context.Context, serial string, driverID *int64) error {
	if err := s.deviceRepo.RebindDevice(ctx, serial, driverID); err != nil {
		return errors.Wrap(err, "rebind device")
	}

	s.mu.Lock()
	delete(s.bindings, serial)
	s.mu.Unlock()

	return nil
}

func (s *trackingService) resolveBinding(ctx context.Context, serial string) (*cachedBinding, error) {
	s.mu.Lock()
	binding, ok := s.bindings[serial]
	s.mu.Unlock()
	if ok {
		return binding, nil
	}

	device, err := s.deviceRepo.FindDeviceBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	binding = &cachedBinding{driverID: device.DriverID}
	if !device.UpdatedAt.IsZero() {
		// Seed the jump check from the persisted position so the first
		// fix after a cache miss is still sanity-checked.
		binding.lastFix = entity.PositionFix{
			Lat:        device.LastLat,
			Lng:        device.LastLng,
			ObservedAt: device.UpdatedAt,
		}
		binding.hasFix = true
	}
	if device.DriverID != nil {
		driver, err := s.driverRepo.FindDriverByID(ctx, *device.DriverID)
		if err != nil {
			// Broadcast without the name rather than dropping the fix.
			s.logger.Warn("could not resolve bound driver",
				slog.String("serial", serial),
				slog.Int64("driverID", *device.DriverID),
				slog.Any("error", err),
			)
		} else {
			binding.firstName = driver.FirstName
			binding.lastName = driver.LastName
		}
	}

	s.mu.Lock()
	s.bindings[serial] = binding
	s.mu.Unlock()

	return binding, nil
}
