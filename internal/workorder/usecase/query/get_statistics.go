package query

import (
	"context"

	"github.com/tair/garage-management/internal/workorder/domain"
)

// GetStatisticsQuery represents the query for the dashboard statistics
type GetStatisticsQuery struct{}

// GetStatisticsHandler handles get statistics query
type GetStatisticsHandler struct {
	store domain.Store
}

// NewGetStatisticsHandler creates a new get statistics handler
func NewGetStatisticsHandler(store domain.Store) *GetStatisticsHandler {
	return &GetStatisticsHandler{store: store}
}

// Handle executes the get statistics query
func (h *GetStatisticsHandler) Handle(ctx context.Context, _ GetStatisticsQuery) (*domain.Statistics, error) {
	return h.store.Statistics(ctx)
}
