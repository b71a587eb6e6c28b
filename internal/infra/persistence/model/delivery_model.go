package model

import "time"

// DeliveryModel is the GORM struct for the 'deliveries' table. CurrentLat
// and CurrentLng hold the last persisted driver position; the realtime
// broadcast is notification-only and this row is the source of truth.
type DeliveryModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	OrderID    int64  `gorm:"not null;uniqueIndex"`
	CustomerID int64  `gorm:"not null;index"`
	DriverID   *int64 `gorm:"index"`
	VehicleID  *int64
	Status     string  `gorm:"type:varchar(32);not null"`
	CurrentLat float64 `gorm:"not null;default:0"`
	CurrentLng float64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeliveryModel) TableName() string {
	return "deliveries"
}
