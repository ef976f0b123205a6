package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Appointment statuses
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ValidStatus reports whether s is a known appointment status
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment represents a scheduled service visit
type Appointment struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CustomerID  uint           `json:"customer_id" gorm:"not null;index"`
	VehicleID   uint           `json:"vehicle_id" gorm:"not null;index"`
	ScheduledAt time.Time      `json:"scheduled_at" gorm:"not null;index"`
	ServiceType string         `json:"service_type" gorm:"not null"`
	Status      string         `json:"status" gorm:"not null;default:'scheduled'"`
	Notes       string         `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// AppointmentRepository defines the interface for appointment data access
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *Appointment) error
	FindByID(ctx context.Context, id uint) (*Appointment, error)
	FindAll(ctx context.Context, limit, offset int) ([]Appointment, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int) ([]Appointment, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]Appointment, error)
	Update(ctx context.Context, appointment *Appointment) error
	Delete(ctx context.Context, id uint) error
}
