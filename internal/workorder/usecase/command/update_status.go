package command

import (
	"context"
	"fmt"

	"github.com/tair/garage-management/internal/workorder/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// UpdateStatusCommand represents the command to move an order's status
type UpdateStatusCommand struct {
	OrderID uint
	Status  string
}

// UpdateStatusHandler handles update status command
type UpdateStatusHandler struct {
	store     domain.Store
	publisher domain.Publisher
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(store domain.Store, publisher domain.Publisher) *UpdateStatusHandler {
	return &UpdateStatusHandler{store: store, publisher: publisher}
}

// Handle executes the status update. A notification carrying the order
// and the previous status is published exactly when the value changed;
// setting the same status again emits nothing.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	if !domain.ValidStatus(cmd.Status) {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown value %q", cmd.Status)}
	}

	var result *domain.WorkOrder
	var oldStatus string
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.FindOrderByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		oldStatus = order.Status
		if order.Status == cmd.Status {
			result = order
			return nil
		}
		order.Status = cmd.Status
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status != oldStatus && h.publisher != nil {
		if err := h.publisher.PublishStatusChanged(ctx, result, oldStatus); err != nil {
			logger.Warn(ctx).Err(err).
				Str("order_number", result.OrderNumber).
				Str("old_status", oldStatus).
				Msg("Failed to publish status change")
		}
	}

	return result, nil
}
