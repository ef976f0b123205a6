package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleMechanic     = "mechanic"
	RoleReceptionist = "receptionist"
)

// ValidRole reports whether r is a known user role
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMechanic, RoleReceptionist:
		return true
	}
	return false
}

// User represents an application user account
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null;default:'receptionist'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
}
