package model

import "github.com/google/uuid"

// DriverModel is the GORM struct for the 'drivers' table.
type DriverModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100);not null"`
	Phone     string    `gorm:"type:varchar(32)"`
}

// TableName explicitly sets the table name for GORM.
func (DriverModel) TableName() string {
	return "drivers"
}

// CustomerModel is the GORM struct for the 'customers' table.
type CustomerModel struct {
	ID     int64     `gorm:"primaryKey;autoIncrement"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name   string    `gorm:"type:varchar(200);not null"`
	Phone  string    `gorm:"type:varchar(32)"`
}

// TableName explicitly sets the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}
