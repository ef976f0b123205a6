package command

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// RecalculateCostCommand represents the command to recompute order costs
type RecalculateCostCommand struct {
	OrderID uint
}

// RecalculateCostHandler handles recalculate cost command
type RecalculateCostHandler struct {
	store domain.Store
}

// NewRecalculateCostHandler creates a new recalculate cost handler
func NewRecalculateCostHandler(store domain.Store) *RecalculateCostHandler {
	return &RecalculateCostHandler{store: store}
}

// Handle re-derives parts_cost, labor_cost and total_cost from the line
// items. Idempotent.
func (h *RecalculateCostHandler) Handle(ctx context.Context, cmd RecalculateCostCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}

	var result *domain.WorkOrder
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		updated, err := recalcAndSave(ctx, tx, cmd.OrderID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
