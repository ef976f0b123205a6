package command

import (
	"context"
	"time"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// CompleteWorkOrderCommand represents the command to complete an order
type CompleteWorkOrderCommand struct {
	OrderID uint
}

// CompleteWorkOrderHandler handles complete work order command
type CompleteWorkOrderHandler struct {
	store domain.Store
}

// NewCompleteWorkOrderHandler creates a new complete work order handler
func NewCompleteWorkOrderHandler(store domain.Store) *CompleteWorkOrderHandler {
	return &CompleteWorkOrderHandler{store: store}
}

// Handle marks the order completed. Costs are assumed final; no stock is
// touched.
func (h *CompleteWorkOrderHandler) Handle(ctx context.Context, cmd CompleteWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}

	var result *domain.WorkOrder
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.FindOrderByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		now := time.Now()
		order.Status = domain.StatusCompleted
		order.CompletedAt = &now
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
