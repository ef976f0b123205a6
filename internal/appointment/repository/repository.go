package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tair/garage-management/internal/appointment/domain"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GORM appointment repository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// AutoMigrate creates the appointments table
func (r *GormAppointmentRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Appointment{})
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uint) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment not found")
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &appointment, nil
}

func (r *GormAppointmentRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	query := r.db.WithContext(ctx).Order("scheduled_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	return appointments, nil
}

// FindUpcoming returns scheduled or confirmed appointments starting at or
// after the given time
func (r *GormAppointmentRepository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	query := r.db.WithContext(ctx).
		Where("scheduled_at >= ? AND status IN ?", from, []string{domain.StatusScheduled, domain.StatusConfirmed}).
		Order("scheduled_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to find upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *GormAppointmentRepository) FindByCustomer(ctx context.Context, customerID uint) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments for customer: %w", err)
	}
	return appointments, nil
}

func (r *GormAppointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	if err := r.db.WithContext(ctx).Save(appointment).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *GormAppointmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}
