package model

import "time"

// TrackerDeviceModel is the GORM struct for the 'tracker_devices' table.
// DriverID carries the current device binding; a null value marks an
// unassigned device whose fixes are persisted but never broadcast.
type TrackerDeviceModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Serial    string `gorm:"type:varchar(64);not null;uniqueIndex"`
	DriverID  *int64 `gorm:"index"`
	LastLat   float64
	LastLng   float64
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (TrackerDeviceModel) TableName() string {
	return "tracker_devices"
}
