package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/garage-management/internal/customer/domain"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// AutoMigrate creates the customers table
func (r *GormCustomerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Customer{})
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer not found")
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (r *GormCustomerRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	var customers []domain.Customer
	query := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers: %w", err)
	}
	return customers, nil
}

// Search matches name, email or phone against the given term
func (r *GormCustomerRepository) Search(ctx context.Context, term string, limit, offset int) ([]domain.Customer, error) {
	var customers []domain.Customer
	pattern := "%" + term + "%"
	query := r.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern).
		Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer not found")
	}
	return nil
}
