package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkOrderNotFound is returned when the referenced order does not exist
	ErrWorkOrderNotFound = errors.New("work order not found")
	// ErrPartNotFound is returned when a part line references an unknown part
	ErrPartNotFound = errors.New("part not found")
	// ErrMechanicNotFound is returned when a labor line references an unknown mechanic
	ErrMechanicNotFound = errors.New("mechanic not found")
	// ErrInsufficientStock is the sentinel matched by errors.Is for any
	// InsufficientStockError
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateOrderNumber surfaces a unique violation on order_number;
	// creation retries with a fresh sequence when the number was generated
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
	// ErrValidation covers malformed input rejected before any write
	ErrValidation = errors.New("validation error")
)

// InsufficientStockError names the part whose stock could not cover a
// requested quantity.
type InsufficientStockError struct {
	PartID    uint
	PartName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %q (id=%d): requested %d, available %d",
		e.PartName, e.PartID, e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientStock) match
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ValidationError carries the field that failed shape validation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
