package query

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// ListWorkOrdersQuery represents the query to list work orders
type ListWorkOrdersQuery struct {
	Filter domain.ListFilter
}

// ListWorkOrdersHandler handles list work orders query
type ListWorkOrdersHandler struct {
	store domain.Store
}

// NewListWorkOrdersHandler creates a new list work orders handler
func NewListWorkOrdersHandler(store domain.Store) *ListWorkOrdersHandler {
	return &ListWorkOrdersHandler{store: store}
}

// Handle executes the list work orders query
func (h *ListWorkOrdersHandler) Handle(ctx context.Context, q ListWorkOrdersQuery) ([]domain.WorkOrder, error) {
	if q.Filter.Limit == 0 {
		q.Filter.Limit = 15
	}
	if q.Filter.Limit > 100 {
		q.Filter.Limit = 100
	}
	return h.store.ListOrders(ctx, q.Filter)
}
