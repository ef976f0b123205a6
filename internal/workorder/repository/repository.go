package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	partdomain "github.com/tair/garage-management/internal/part/domain"
	"github.com/tair/garage-management/internal/workorder/domain"
)

// GormStore implements domain.Store using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM work-order store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the work-order tables
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.WorkOrder{},
		&domain.WorkOrderPart{},
		&domain.WorkOrderMechanic{},
	)
}

// Transaction runs fn against a transaction-scoped store. Any error from
// fn rolls the whole unit of work back.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateOrder(ctx context.Context, order *domain.WorkOrder) error {
	if err := s.db.WithContext(ctx).Omit("Parts", "Mechanics").Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order number %s: %w", order.OrderNumber, domain.ErrDuplicateOrderNumber)
		}
		return fmt.Errorf("failed to create work order: %w", err)
	}
	return nil
}

func (s *GormStore) SaveOrder(ctx context.Context, order *domain.WorkOrder) error {
	if err := s.db.WithContext(ctx).Omit("Parts", "Mechanics").Save(order).Error; err != nil {
		return fmt.Errorf("failed to save work order: %w", err)
	}
	return nil
}

func (s *GormStore) FindOrderByID(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := s.db.WithContext(ctx).
		Preload("Parts").
		Preload("Mechanics").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to find work order: %w", err)
	}
	return &order, nil
}

func (s *GormStore) DeleteOrder(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.WorkOrder{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete work order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWorkOrderNotFound
	}
	return nil
}

func (s *GormStore) ListOrders(ctx context.Context, filter domain.ListFilter) ([]domain.WorkOrder, error) {
	query := s.db.WithContext(ctx).
		Preload("Parts").
		Preload("Mechanics").
		Order("created_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.MechanicID != 0 {
		query = query.Where("assigned_mechanic_id = ?", filter.MechanicID)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []domain.WorkOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) CountInYear(ctx context.Context, year int) (int64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var count int64
	err := s.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Unscoped().
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count work orders: %w", err)
	}
	return count, nil
}

func (s *GormStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	db := s.db.WithContext(ctx)
	stats := &domain.Statistics{}

	counts := []struct {
		status string
		dest   *int64
	}{
		{"", &stats.Total},
		{domain.StatusPending, &stats.Pending},
		{domain.StatusInProgress, &stats.InProgress},
		{domain.StatusCompleted, &stats.Completed},
	}
	for _, c := range counts {
		q := db.Model(&domain.WorkOrder{})
		if c.status != "" {
			q = q.Where("status = ?", c.status)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count work orders: %w", err)
		}
	}

	var avgHours *float64
	err := db.Model(&domain.WorkOrder{}).
		Where("completed_at IS NOT NULL").
		Select("AVG(EXTRACT(EPOCH FROM (completed_at - created_at)) / 3600)").
		Scan(&avgHours).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average completion time: %w", err)
	}
	if avgHours != nil {
		stats.AverageCompletionHours = *avgHours
	}

	var revenue *float64
	err = db.Model(&domain.WorkOrder{}).
		Where("status = ?", domain.StatusCompleted).
		Where("completed_at >= date_trunc('month', now())").
		Select("SUM(total_cost)").
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}
	if revenue != nil {
		stats.RevenueThisMonth = *revenue
	}

	return stats, nil
}

func (s *GormStore) AddPartLine(ctx context.Context, line *domain.WorkOrderPart) error {
	if err := s.db.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to add part line: %w", err)
	}
	return nil
}

func (s *GormStore) DeletePartLines(ctx context.Context, orderID uint) error {
	err := s.db.WithContext(ctx).
		Where("work_order_id = ?", orderID).
		Delete(&domain.WorkOrderPart{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete part lines: %w", err)
	}
	return nil
}

func (s *GormStore) AddLaborLine(ctx context.Context, line *domain.WorkOrderMechanic) error {
	if err := s.db.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to add labor line: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteLaborLines(ctx context.Context, orderID uint) error {
	err := s.db.WithContext(ctx).
		Where("work_order_id = ?", orderID).
		Delete(&domain.WorkOrderMechanic{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete labor lines: %w", err)
	}
	return nil
}

// FindPartForUpdate reads a part under FOR UPDATE so the stock check and
// the following decrement are covered by the same row lock.
func (s *GormStore) FindPartForUpdate(ctx context.Context, partID uint) (*partdomain.Part, error) {
	var part partdomain.Part
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&part, partID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to find part: %w", err)
	}
	return &part, nil
}

// ConsumeStock decrements stock with a conditional update; zero rows
// affected means the quantity would have gone negative.
func (s *GormStore) ConsumeStock(ctx context.Context, partID uint, quantity int) error {
	res := s.db.WithContext(ctx).Model(&partdomain.Part{}).
		Where("id = ? AND stock_quantity >= ?", partID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to consume stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var part partdomain.Part
		if err := s.db.WithContext(ctx).First(&part, partID).Error; err != nil {
			return domain.ErrPartNotFound
		}
		return &domain.InsufficientStockError{
			PartID:    part.ID,
			PartName:  part.Name,
			Requested: quantity,
			Available: part.StockQuantity,
		}
	}
	return nil
}

func (s *GormStore) RestoreStock(ctx context.Context, partID uint, quantity int) error {
	res := s.db.WithContext(ctx).Model(&partdomain.Part{}).
		Where("id = ?", partID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to restore stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPartNotFound
	}
	return nil
}
