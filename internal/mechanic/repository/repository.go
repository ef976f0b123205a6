package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/garage-management/internal/mechanic/domain"
)

// GormMechanicRepository implements MechanicRepository using GORM
type GormMechanicRepository struct {
	db *gorm.DB
}

// NewGormMechanicRepository creates a new GORM mechanic repository
func NewGormMechanicRepository(db *gorm.DB) *GormMechanicRepository {
	return &GormMechanicRepository{db: db}
}

// AutoMigrate creates the mechanics table
func (r *GormMechanicRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Mechanic{})
}

func (r *GormMechanicRepository) Create(ctx context.Context, mechanic *domain.Mechanic) error {
	if err := r.db.WithContext(ctx).Create(mechanic).Error; err != nil {
		return fmt.Errorf("failed to create mechanic: %w", err)
	}
	return nil
}

func (r *GormMechanicRepository) FindByID(ctx context.Context, id uint) (*domain.Mechanic, error) {
	var mechanic domain.Mechanic
	if err := r.db.WithContext(ctx).First(&mechanic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("mechanic not found")
		}
		return nil, fmt.Errorf("failed to find mechanic: %w", err)
	}
	return &mechanic, nil
}

func (r *GormMechanicRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Mechanic, error) {
	var mechanics []domain.Mechanic
	query := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&mechanics).Error; err != nil {
		return nil, fmt.Errorf("failed to find mechanics: %w", err)
	}
	return mechanics, nil
}

func (r *GormMechanicRepository) FindActive(ctx context.Context) ([]domain.Mechanic, error) {
	var mechanics []domain.Mechanic
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Order("name ASC").
		Find(&mechanics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active mechanics: %w", err)
	}
	return mechanics, nil
}

func (r *GormMechanicRepository) Update(ctx context.Context, mechanic *domain.Mechanic) error {
	if err := r.db.WithContext(ctx).Save(mechanic).Error; err != nil {
		return fmt.Errorf("failed to update mechanic: %w", err)
	}
	return nil
}

func (r *GormMechanicRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Mechanic{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete mechanic: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("mechanic not found")
	}
	return nil
}
