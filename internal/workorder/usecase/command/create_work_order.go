package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// Two concurrent creations can read the same year count and mint the same
// number; the unique index rejects one and the loop re-reads the count.
const maxOrderNumberRetries = 3

// CreateWorkOrderCommand represents the command to create a work order
type CreateWorkOrderCommand struct {
	OrderNumber         string // generated when empty
	CustomerID          uint
	VehicleID           uint
	AssignedMechanicID  *uint
	ProblemDescription  string
	Diagnosis           string
	Priority            string
	StartedAt           *time.Time
	EstimatedCompletion *time.Time
	EstimatedHours      *int
	CustomerNotes       string
	InternalNotes       string
	Parts               []PartLine
	Mechanics           []LaborLine
}

// CreateWorkOrderHandler handles create work order command
type CreateWorkOrderHandler struct {
	store domain.Store
}

// NewCreateWorkOrderHandler creates a new create work order handler
func NewCreateWorkOrderHandler(store domain.Store) *CreateWorkOrderHandler {
	return &CreateWorkOrderHandler{store: store}
}

// Handle executes the create work order command. The order record, every
// part consumption and every labor line are written in one transaction:
// insufficient stock on any line leaves no order and no stock change.
func (h *CreateWorkOrderHandler) Handle(ctx context.Context, cmd CreateWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.CustomerID == 0 {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "is required"}
	}
	if cmd.VehicleID == 0 {
		return nil, &domain.ValidationError{Field: "vehicle_id", Reason: "is required"}
	}
	if cmd.ProblemDescription == "" {
		return nil, &domain.ValidationError{Field: "problem_description", Reason: "is required"}
	}
	if cmd.Priority == "" {
		cmd.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(cmd.Priority) {
		return nil, &domain.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", cmd.Priority)}
	}
	if err := validatePartLines(cmd.Parts); err != nil {
		return nil, err
	}
	if err := validateLaborLines(cmd.Mechanics); err != nil {
		return nil, err
	}

	generated := cmd.OrderNumber == ""

	var result *domain.WorkOrder
	for attempt := 0; ; attempt++ {
		err := h.store.Transaction(ctx, func(tx domain.Store) error {
			number := cmd.OrderNumber
			if generated {
				year := time.Now().Year()
				count, err := tx.CountInYear(ctx, year)
				if err != nil {
					return err
				}
				number = domain.FormatOrderNumber(year, int(count)+1)
			}

			order := &domain.WorkOrder{
				OrderNumber:         number,
				CustomerID:          cmd.CustomerID,
				VehicleID:           cmd.VehicleID,
				AssignedMechanicID:  cmd.AssignedMechanicID,
				ProblemDescription:  cmd.ProblemDescription,
				Diagnosis:           cmd.Diagnosis,
				Priority:            cmd.Priority,
				Status:              domain.StatusPending,
				StartedAt:           cmd.StartedAt,
				EstimatedCompletion: cmd.EstimatedCompletion,
				EstimatedHours:      cmd.EstimatedHours,
				CustomerNotes:       cmd.CustomerNotes,
				InternalNotes:       cmd.InternalNotes,
			}
			if err := tx.CreateOrder(ctx, order); err != nil {
				return err
			}
			if err := consumePartLines(ctx, tx, order.ID, cmd.Parts); err != nil {
				return err
			}
			if err := addLaborLines(ctx, tx, order.ID, cmd.Mechanics); err != nil {
				return err
			}

			populated, err := recalcAndSave(ctx, tx, order.ID)
			if err != nil {
				return err
			}
			result = populated
			return nil
		})
		if err == nil {
			return result, nil
		}
		if generated && errors.Is(err, domain.ErrDuplicateOrderNumber) && attempt < maxOrderNumberRetries {
			continue
		}
		return nil, err
	}
}
