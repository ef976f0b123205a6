package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/garage-management/internal/part/domain"
)

// GormPartRepository implements PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GORM part repository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// AutoMigrate creates the parts table
func (r *GormPartRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Part{})
}

func (r *GormPartRepository) Create(ctx context.Context, part *domain.Part) error {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	return nil
}

func (r *GormPartRepository) FindByID(ctx context.Context, id uint) (*domain.Part, error) {
	var part domain.Part
	if err := r.db.WithContext(ctx).First(&part, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("part not found")
		}
		return nil, fmt.Errorf("failed to find part: %w", err)
	}
	return &part, nil
}

func (r *GormPartRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Part, error) {
	var parts []domain.Part
	query := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("failed to find parts: %w", err)
	}
	return parts, nil
}

// FindLowStock returns parts at or below their reorder threshold
func (r *GormPartRepository) FindLowStock(ctx context.Context) ([]domain.Part, error) {
	var parts []domain.Part
	err := r.db.WithContext(ctx).
		Where("stock_quantity <= min_stock_level").
		Order("stock_quantity ASC").
		Find(&parts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock parts: %w", err)
	}
	return parts, nil
}

func (r *GormPartRepository) Update(ctx context.Context, part *domain.Part) error {
	if err := r.db.WithContext(ctx).Save(part).Error; err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	return nil
}

func (r *GormPartRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Part{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete part: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("part not found")
	}
	return nil
}
