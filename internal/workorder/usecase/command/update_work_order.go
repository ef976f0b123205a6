package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/garage-management/internal/workorder/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// UpdateWorkOrderCommand merges the non-nil scalar fields onto the order.
// A non-nil Parts or Mechanics slice replaces the whole respective
// collection; nil leaves it untouched.
type UpdateWorkOrderCommand struct {
	OrderID             uint
	AssignedMechanicID  *uint
	ProblemDescription  *string
	Diagnosis           *string
	WorkPerformed       *string
	Priority            *string
	Status              *string
	StartedAt           *time.Time
	CompletedAt         *time.Time
	EstimatedCompletion *time.Time
	EstimatedHours      *int
	CustomerNotes       *string
	InternalNotes       *string
	Parts               []PartLine
	Mechanics           []LaborLine
}

// UpdateWorkOrderHandler handles update work order command
type UpdateWorkOrderHandler struct {
	store     domain.Store
	publisher domain.Publisher
}

// NewUpdateWorkOrderHandler creates a new update work order handler
func NewUpdateWorkOrderHandler(store domain.Store, publisher domain.Publisher) *UpdateWorkOrderHandler {
	return &UpdateWorkOrderHandler{store: store, publisher: publisher}
}

// Handle executes the update work order command. Replacing the parts list
// first restores the stock held by the old lines, then consumes stock for
// the new ones, all inside the same transaction.
func (h *UpdateWorkOrderHandler) Handle(ctx context.Context, cmd UpdateWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	if cmd.Priority != nil && !domain.ValidPriority(*cmd.Priority) {
		return nil, &domain.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", *cmd.Priority)}
	}
	if cmd.Status != nil && !domain.ValidStatus(*cmd.Status) {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown value %q", *cmd.Status)}
	}
	if err := validatePartLines(cmd.Parts); err != nil {
		return nil, err
	}
	if err := validateLaborLines(cmd.Mechanics); err != nil {
		return nil, err
	}

	var result *domain.WorkOrder
	var oldStatus string
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.FindOrderByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		oldStatus = order.Status

		mergeScalars(order, cmd)
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}

		if cmd.Parts != nil {
			for _, line := range order.Parts {
				if err := tx.RestoreStock(ctx, line.PartID, line.Quantity); err != nil {
					return err
				}
			}
			if err := tx.DeletePartLines(ctx, order.ID); err != nil {
				return err
			}
			if err := consumePartLines(ctx, tx, order.ID, cmd.Parts); err != nil {
				return err
			}
		}

		if cmd.Mechanics != nil {
			if err := tx.DeleteLaborLines(ctx, order.ID); err != nil {
				return err
			}
			if err := addLaborLines(ctx, tx, order.ID, cmd.Mechanics); err != nil {
				return err
			}
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

	if result.Status != oldStatus && h.publisher != nil {
		if err := h.publisher.PublishStatusChanged(ctx, result, oldStatus); err != nil {
			logger.Warn(ctx).Err(err).
				Str("order_number", result.OrderNumber).
				Msg("Failed to publish status change")
		}
	}

	return result, nil
}

func mergeScalars(order *domain.WorkOrder, cmd UpdateWorkOrderCommand) {
	if cmd.AssignedMechanicID != nil {
		order.AssignedMechanicID = cmd.AssignedMechanicID
	}
	if cmd.ProblemDescription != nil {
		order.ProblemDescription = *cmd.ProblemDescription
	}
	if cmd.Diagnosis != nil {
		order.Diagnosis = *cmd.Diagnosis
	}
	if cmd.WorkPerformed != nil {
		order.WorkPerformed = *cmd.WorkPerformed
	}
	if cmd.Priority != nil {
		order.Priority = *cmd.Priority
	}
	if cmd.Status != nil {
		order.Status = *cmd.Status
	}
	if cmd.StartedAt != nil {
		order.StartedAt = cmd.StartedAt
	}
	if cmd.CompletedAt != nil {
		order.CompletedAt = cmd.CompletedAt
	}
	if cmd.EstimatedCompletion != nil {
		order.EstimatedCompletion = cmd.EstimatedCompletion
	}
	if cmd.EstimatedHours != nil {
		order.EstimatedHours = cmd.EstimatedHours
	}
	if cmd.CustomerNotes != nil {
		order.CustomerNotes = *cmd.CustomerNotes
	}
	if cmd.InternalNotes != nil {
		order.InternalNotes = *cmd.InternalNotes
	}
}
