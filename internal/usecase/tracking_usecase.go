// Package usecase defines the application's business-operation interfaces.
package usecase

import "context"

// TrackingUsecase is the single write path for live position data. Both
// operations persist before broadcasting, so a subscriber that re-fetches
// delivery state after seeing an event always observes the new coordinates.
type TrackingUsecase interface {
	// ReportPosition persists a driver-reported fix on a delivery and then
	// broadcasts location_updated to the delivery's room. An unknown
	// delivery is logged and dropped without error.
	ReportPosition(ctx context.Context, deliveryID int64, lat, lng float64) error

	// ReportDeviceFix ingests a fix from third-party hardware keyed by
	// device serial. Unknown serials are dropped; fixes from devices with
	// no bound driver are persisted but not broadcast; fixes from bound
	// devices are persisted and re-broadcast to the admin room.
	ReportDeviceFix(ctx context.Context, serial string, lat, lng float64) error

	// RebindDevice assigns (or clears) the driver bound to a device serial
	// and invalidates the cached binding. Takes effect on the next fix.
	RebindDevice(ctx context.Context, serial string, driverID *int64) error
}
