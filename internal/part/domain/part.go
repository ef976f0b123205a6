package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Part statuses
const (
	StatusActive       = "active"
	StatusDiscontinued = "discontinued"
)

// Part represents a stocked spare part. StockQuantity never goes below
// zero; it is only mutated through the work-order store so the check and
// the decrement share one transaction.
type Part struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	PartNumber    string         `json:"part_number" gorm:"uniqueIndex;not null"`
	Description   string         `json:"description"`
	Category      string         `json:"category" gorm:"index"`
	Brand         string         `json:"brand"`
	CostPrice     float64        `json:"cost_price" gorm:"not null;default:0"`
	SellingPrice  float64        `json:"selling_price" gorm:"not null;default:0"`
	StockQuantity int            `json:"stock_quantity" gorm:"not null;default:0"`
	MinStockLevel int            `json:"min_stock_level" gorm:"not null;default:0"`
	Supplier      string         `json:"supplier"`
	Location      string         `json:"location"`
	Status        string         `json:"status" gorm:"default:'active'"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Part) TableName() string {
	return "parts"
}

// IsLowStock reports whether the part has fallen to its reorder threshold
func (p *Part) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// ProfitMargin returns the selling margin over cost price as a percentage
func (p *Part) ProfitMargin() float64 {
	if p.CostPrice > 0 {
		return (p.SellingPrice - p.CostPrice) / p.CostPrice * 100
	}
	return 0
}

// PartRepository defines the contract for part data access
type PartRepository interface {
	Create(ctx context.Context, part *Part) error
	FindByID(ctx context.Context, id uint) (*Part, error)
	FindAll(ctx context.Context, limit, offset int) ([]Part, error)
	FindLowStock(ctx context.Context) ([]Part, error)
	Update(ctx context.Context, part *Part) error
	Delete(ctx context.Context, id uint) error
}
