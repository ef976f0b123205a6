package command

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// AddPartsCommand represents the command to add parts to an existing order
type AddPartsCommand struct {
	OrderID uint
	Parts   []PartLine
}

// AddPartsHandler handles add parts command
type AddPartsHandler struct {
	store domain.Store
}

// NewAddPartsHandler creates a new add parts handler
func NewAddPartsHandler(store domain.Store) *AddPartsHandler {
	return &AddPartsHandler{store: store}
}

// Handle executes the add parts command. Additive: existing line items
// are untouched. The transaction makes the whole batch all-or-nothing.
func (h *AddPartsHandler) Handle(ctx context.Context, cmd AddPartsCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	if len(cmd.Parts) == 0 {
		return nil, &domain.ValidationError{Field: "parts", Reason: "at least one line is required"}
	}
	if err := validatePartLines(cmd.Parts); err != nil {
		return nil, err
	}

	var result *domain.WorkOrder
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.FindOrderByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if err := consumePartLines(ctx, tx, order.ID, cmd.Parts); err != nil {
			return err
		}
		updated, err := recalcAndSave(ctx, tx, order.ID)
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
