package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("consume: %w", &InsufficientStockError{
		PartID:    3,
		PartName:  "Brake pads",
		Requested: 4,
		Available: 1,
	})

	assert.True(t, errors.Is(err, ErrInsufficientStock))

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Contains(t, stockErr.Error(), "Brake pads")
	assert.Contains(t, stockErr.Error(), "requested 4")
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Field: "customer_id", Reason: "is required"})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, "invalid customer_id: is required", errors.Unwrap(err).Error())
}
