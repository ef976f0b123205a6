package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLowStock(t *testing.T) {
	part := Part{StockQuantity: 5, MinStockLevel: 5}
	assert.True(t, part.IsLowStock())

	part.StockQuantity = 6
	assert.False(t, part.IsLowStock())

	part.StockQuantity = 0
	assert.True(t, part.IsLowStock())
}

func TestProfitMargin(t *testing.T) {
	part := Part{CostPrice: 10.00, SellingPrice: 15.00}
	assert.InDelta(t, 50.0, part.ProfitMargin(), 0.001)

	part = Part{CostPrice: 0, SellingPrice: 15.00}
	assert.Zero(t, part.ProfitMargin())

	part = Part{CostPrice: 20.00, SellingPrice: 18.00}
	assert.InDelta(t, -10.0, part.ProfitMargin(), 0.001)
}
