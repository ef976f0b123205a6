package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/garage-management/internal/vehicle/domain"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GORM vehicle repository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// AutoMigrate creates the vehicles table
func (r *GormVehicleRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Vehicle{})
}

func (r *GormVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *GormVehicleRepository) FindByID(ctx context.Context, id uint) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle not found")
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return &vehicle, nil
}

func (r *GormVehicleRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	query := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to find vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *GormVehicleRepository) FindByCustomer(ctx context.Context, customerID uint) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles for customer: %w", err)
	}
	return vehicles, nil
}

func (r *GormVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.db.WithContext(ctx).Save(vehicle).Error; err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

func (r *GormVehicleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Vehicle{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vehicle not found")
	}
	return nil
}
