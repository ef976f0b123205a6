package command

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// AssignMechanicsCommand represents the command to assign mechanics
type AssignMechanicsCommand struct {
	OrderID   uint
	Mechanics []LaborLine
}

// AssignMechanicsHandler handles assign mechanics command
type AssignMechanicsHandler struct {
	store domain.Store
}

// NewAssignMechanicsHandler creates a new assign mechanics handler
func NewAssignMechanicsHandler(store domain.Store) *AssignMechanicsHandler {
	return &AssignMechanicsHandler{store: store}
}

// Handle executes the assign mechanics command. The labor collection is
// replaced wholesale; labor lines carry no stock so nothing is restored.
func (h *AssignMechanicsHandler) Handle(ctx context.Context, cmd AssignMechanicsCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	if err := validateLaborLines(cmd.Mechanics); err != nil {
		return nil, err
	}

	var result *domain.WorkOrder
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.FindOrderByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if err := tx.DeleteLaborLines(ctx, order.ID); err != nil {
			return err
		}
		if err := addLaborLines(ctx, tx, order.ID, cmd.Mechanics); err != nil {
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
