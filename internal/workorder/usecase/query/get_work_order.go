package query

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// GetWorkOrderQuery represents the query to get a work order
type GetWorkOrderQuery struct {
	OrderID uint
}

// GetWorkOrderHandler handles get work order query
type GetWorkOrderHandler struct {
	store domain.Store
}

// NewGetWorkOrderHandler creates a new get work order handler
func NewGetWorkOrderHandler(store domain.Store) *GetWorkOrderHandler {
	return &GetWorkOrderHandler{store: store}
}

// Handle executes the get work order query
func (h *GetWorkOrderHandler) Handle(ctx context.Context, q GetWorkOrderQuery) (*domain.WorkOrder, error) {
	if q.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	return h.store.FindOrderByID(ctx, q.OrderID)
}
