package command

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// CancelWorkOrderCommand represents the command to cancel an order
type CancelWorkOrderCommand struct {
	OrderID uint
	Reason  string
}

// CancelWorkOrderHandler handles cancel work order command
type CancelWorkOrderHandler struct {
	store domain.Store
}

// NewCancelWorkOrderHandler creates a new cancel work order handler
func NewCancelWorkOrderHandler(store domain.Store) *CancelWorkOrderHandler {
	return &CancelWorkOrderHandler{store: store}
}

// Handle cancels the order, returning every consumed part quantity to
// stock. Line items are kept as a record of what was restored.
// Idempotent: cancelling an already-cancelled order is a no-op, so stock
// can never be restored twice.
func (h *CancelWorkOrderHandler) Handle(ctx context.Context, cmd CancelWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}

	var result *domain.WorkOrder
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.FindOrderByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.Status == domain.StatusCancelled {
			result = order
			return nil
		}

		for _, line := range order.Parts {
			if err := tx.RestoreStock(ctx, line.PartID, line.Quantity); err != nil {
				return err
			}
		}

		order.Status = domain.StatusCancelled
		note := "Cancelled"
		if cmd.Reason != "" {
			note = "Cancelled: " + cmd.Reason
		}
		order.AppendInternalNote(note)

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
