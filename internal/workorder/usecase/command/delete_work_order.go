package command

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// DeleteWorkOrderCommand represents the command to delete a work order
type DeleteWorkOrderCommand struct {
	OrderID uint
}

// DeleteWorkOrderHandler handles delete work order command
type DeleteWorkOrderHandler struct {
	store domain.Store
}

// NewDeleteWorkOrderHandler creates a new delete work order handler
func NewDeleteWorkOrderHandler(store domain.Store) *DeleteWorkOrderHandler {
	return &DeleteWorkOrderHandler{store: store}
}

// Handle soft-deletes the order. Deletion performs no stock
// reconciliation; cancel the order first if its parts should return to
// stock.
func (h *DeleteWorkOrderHandler) Handle(ctx context.Context, cmd DeleteWorkOrderCommand) error {
	if cmd.OrderID == 0 {
		return &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	return h.store.Transaction(ctx, func(tx domain.Store) error {
		return tx.DeleteOrder(ctx, cmd.OrderID)
	})
}
