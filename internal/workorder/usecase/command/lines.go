package command

import (
	"context"
	"time"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// PartLine is a requested part consumption
type PartLine struct {
	PartID    uint
	Quantity  int
	UnitPrice float64
}

// LaborLine is a requested mechanic assignment
type LaborLine struct {
	MechanicID      uint
	HoursWorked     float64
	HourlyRate      float64
	WorkDescription string
	StartedAt       *time.Time
	FinishedAt      *time.Time
}

func validatePartLines(lines []PartLine) error {
	for _, line := range lines {
		if line.PartID == 0 {
			return &domain.ValidationError{Field: "part_id", Reason: "is required"}
		}
		if line.Quantity <= 0 {
			return &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
		}
		if line.UnitPrice < 0 {
			return &domain.ValidationError{Field: "unit_price", Reason: "cannot be negative"}
		}
	}
	return nil
}

func validateLaborLines(lines []LaborLine) error {
	for _, line := range lines {
		if line.MechanicID == 0 {
			return &domain.ValidationError{Field: "mechanic_id", Reason: "is required"}
		}
		if line.HoursWorked < 0 {
			return &domain.ValidationError{Field: "hours_worked", Reason: "cannot be negative"}
		}
		if line.HourlyRate < 0 {
			return &domain.ValidationError{Field: "hourly_rate", Reason: "cannot be negative"}
		}
	}
	return nil
}

// consumePartLines checks stock and creates a line item for every
// requested part, decrementing stock as it goes. The unit price is
// snapshotted onto the line. Must run inside the operation transaction:
// a failure on any line aborts every decrement made before it.
func consumePartLines(ctx context.Context, tx domain.Store, orderID uint, lines []PartLine) error {
	for _, line := range lines {
		part, err := tx.FindPartForUpdate(ctx, line.PartID)
		if err != nil {
			return err
		}
		if part.StockQuantity < line.Quantity {
			return &domain.InsufficientStockError{
				PartID:    part.ID,
				PartName:  part.Name,
				Requested: line.Quantity,
				Available: part.StockQuantity,
			}
		}
		if err := tx.ConsumeStock(ctx, line.PartID, line.Quantity); err != nil {
			return err
		}
		item := &domain.WorkOrderPart{
			WorkOrderID: orderID,
			PartID:      line.PartID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  float64(line.Quantity) * line.UnitPrice,
		}
		if err := tx.AddPartLine(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// addLaborLines creates a labor line item per assignment. Hours default
// to zero for mechanics assigned before the work is done.
func addLaborLines(ctx context.Context, tx domain.Store, orderID uint, lines []LaborLine) error {
	for _, line := range lines {
		item := &domain.WorkOrderMechanic{
			WorkOrderID:     orderID,
			MechanicID:      line.MechanicID,
			HoursWorked:     line.HoursWorked,
			HourlyRate:      line.HourlyRate,
			TotalCost:       line.HoursWorked * line.HourlyRate,
			StartedAt:       line.StartedAt,
			FinishedAt:      line.FinishedAt,
			WorkDescription: line.WorkDescription,
		}
		if err := tx.AddLaborLine(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// recalcAndSave reloads the aggregate with its children, re-derives the
// cost fields and persists them.
func recalcAndSave(ctx context.Context, tx domain.Store, orderID uint) (*domain.WorkOrder, error) {
	order, err := tx.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.RecalculateCosts()
	if err := tx.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
