package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	partdomain "github.com/tair/garage-management/internal/part/domain"
	"github.com/tair/garage-management/internal/workorder/domain"
)

// queryStore stubs the read side of the store; write methods are never
// reached from queries.
type queryStore struct {
	orders map[uint]*domain.WorkOrder
	stats  *domain.Statistics

	lastFilter domain.ListFilter
}

func (s *queryStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return fn(s)
}

func (s *queryStore) FindOrderByID(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	return order, nil
}

func (s *queryStore) ListOrders(ctx context.Context, filter domain.ListFilter) ([]domain.WorkOrder, error) {
	s.lastFilter = filter
	var out []domain.WorkOrder
	for _, o := range s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *queryStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return s.stats, nil
}

func (s *queryStore) CreateOrder(context.Context, *domain.WorkOrder) error    { return nil }
func (s *queryStore) SaveOrder(context.Context, *domain.WorkOrder) error     { return nil }
func (s *queryStore) DeleteOrder(context.Context, uint) error                { return nil }
func (s *queryStore) CountInYear(context.Context, int) (int64, error)        { return 0, nil }
func (s *queryStore) AddPartLine(context.Context, *domain.WorkOrderPart) error { return nil }
func (s *queryStore) DeletePartLines(context.Context, uint) error            { return nil }
func (s *queryStore) AddLaborLine(context.Context, *domain.WorkOrderMechanic) error {
	return nil
}
func (s *queryStore) DeleteLaborLines(context.Context, uint) error { return nil }
func (s *queryStore) FindPartForUpdate(context.Context, uint) (*partdomain.Part, error) {
	return nil, domain.ErrPartNotFound
}
func (s *queryStore) ConsumeStock(context.Context, uint, int) error { return nil }
func (s *queryStore) RestoreStock(context.Context, uint, int) error { return nil }

func TestGetWorkOrder(t *testing.T) {
	store := &queryStore{orders: map[uint]*domain.WorkOrder{
		1: {ID: 1, OrderNumber: "WO-2026-0001", Status: domain.StatusPending},
	}}
	handler := NewGetWorkOrderHandler(store)

	order, err := handler.Handle(context.Background(), GetWorkOrderQuery{OrderID: 1})
	require.NoError(t, err)
	assert.Equal(t, "WO-2026-0001", order.OrderNumber)

	_, err = handler.Handle(context.Background(), GetWorkOrderQuery{OrderID: 2})
	assert.True(t, errors.Is(err, domain.ErrWorkOrderNotFound))

	_, err = handler.Handle(context.Background(), GetWorkOrderQuery{})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListWorkOrders_DefaultsAndCapsLimit(t *testing.T) {
	store := &queryStore{orders: map[uint]*domain.WorkOrder{}}
	handler := NewListWorkOrdersHandler(store)

	_, err := handler.Handle(context.Background(), ListWorkOrdersQuery{})
	require.NoError(t, err)
	assert.Equal(t, 15, store.lastFilter.Limit)

	_, err = handler.Handle(context.Background(), ListWorkOrdersQuery{
		Filter: domain.ListFilter{Limit: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, store.lastFilter.Limit)

	_, err = handler.Handle(context.Background(), ListWorkOrdersQuery{
		Filter: domain.ListFilter{Limit: 30, Status: domain.StatusPending},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, store.lastFilter.Limit)
	assert.Equal(t, domain.StatusPending, store.lastFilter.Status)
}

func TestGetStatistics(t *testing.T) {
	store := &queryStore{stats: &domain.Statistics{
		Total:            12,
		Pending:          3,
		InProgress:       4,
		Completed:        5,
		RevenueThisMonth: 1520.50,
	}}
	handler := NewGetStatisticsHandler(store)

	stats, err := handler.Handle(context.Background(), GetStatisticsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)
	assert.Equal(t, 1520.50, stats.RevenueThisMonth)
}
