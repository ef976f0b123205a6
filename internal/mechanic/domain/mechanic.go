package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Mechanic employment statuses
const (
	StatusActive   = "active"
	StatusOnLeave  = "on_leave"
	StatusInactive = "inactive"
)

// ValidStatus reports whether s is a known mechanic status
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusInactive:
		return true
	}
	return false
}

// Mechanic represents a garage mechanic
type Mechanic struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"not null"`
	Email          string         `json:"email" gorm:"uniqueIndex;not null"`
	Phone          string         `json:"phone"`
	Specialization string         `json:"specialization"`
	HourlyRate     float64        `json:"hourly_rate" gorm:"not null;default:0"`
	HireDate       *time.Time     `json:"hire_date"`
	Status         string         `json:"status" gorm:"not null;default:'active'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// MechanicRepository defines the interface for mechanic data access
type MechanicRepository interface {
	Create(ctx context.Context, mechanic *Mechanic) error
	FindByID(ctx context.Context, id uint) (*Mechanic, error)
	FindAll(ctx context.Context, limit, offset int) ([]Mechanic, error)
	FindActive(ctx context.Context) ([]Mechanic, error)
	Update(ctx context.Context, mechanic *Mechanic) error
	Delete(ctx context.Context, id uint) error
}
