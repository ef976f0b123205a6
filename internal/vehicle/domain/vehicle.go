package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Vehicle represents a customer's vehicle
type Vehicle struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CustomerID   uint           `json:"customer_id" gorm:"not null;index"`
	Make         string         `json:"make" gorm:"not null"`
	Model        string         `json:"model" gorm:"not null"`
	Year         int            `json:"year"`
	LicensePlate string         `json:"license_plate" gorm:"uniqueIndex;not null"`
	VIN          string         `json:"vin" gorm:"column:vin"`
	Color        string         `json:"color"`
	Mileage      int            `json:"mileage"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// VehicleRepository defines the interface for vehicle data access
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *Vehicle) error
	FindByID(ctx context.Context, id uint) (*Vehicle, error)
	FindAll(ctx context.Context, limit, offset int) ([]Vehicle, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]Vehicle, error)
	Update(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, id uint) error
}
