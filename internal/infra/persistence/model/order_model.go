// Package model holds the GORM-specific table structs.
package model

import "time"

// OrderModel is the GORM struct for the 'orders' table.
type OrderModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CustomerID  int64  `gorm:"not null;index"`
	Status      string `gorm:"type:varchar(32);not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
