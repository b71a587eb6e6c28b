package entity

import (
	"time"

	"github.com/paulmach/orb"
)

// TrackerDevice represents a third-party GPS tracking unit identified by its
// hardware serial number. DriverID is the current device binding; a device
// with a nil DriverID is unassigned and its fixes are persisted but never
// broadcast. Rebinding takes effect on the next reported fix.
type TrackerDevice struct {
	ID        int64     `json:"id"`
	Serial    string    `json:"serial"`
	DriverID  *int64    `json:"driver_id"`
	LastLat   float64   `json:"last_lat"`
	LastLng   float64   `json:"last_lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PositionFix is one reported GPS coordinate pair. ObservedAt is stamped at
// ingestion time; the reporting hardware does not send its own clock.
type PositionFix struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ObservedAt time.Time `json:"observed_at"`
}

// Point returns the fix as an orb point (lng/lat order).
func (f PositionFix) Point() orb.Point {
	return orb.Point{f.Lng, f.Lat}
}
