package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/garage-management/internal/workorder/domain"
)

func TestCompleteWorkOrder_SetsStatusAndTimestamp(t *testing.T) {
	store := newFakeStore()
	store.addPart(1, "Air filter", 3, 12.00)

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Service due",
		Parts:              []PartLine{{PartID: 1, Quantity: 1, UnitPrice: 12.00}},
	})
	require.NoError(t, err)

	completed, err := NewCompleteWorkOrderHandler(store).Handle(context.Background(), CompleteWorkOrderCommand{
		OrderID: created.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	// Costs are final at completion; nothing is recomputed or restored
	assert.Equal(t, 12.00, completed.TotalCost)
	assert.Equal(t, 2, store.stockOf(1))
}

func TestCompleteWorkOrder_UnknownOrder(t *testing.T) {
	store := newFakeStore()
	_, err := NewCompleteWorkOrderHandler(store).Handle(context.Background(), CompleteWorkOrderCommand{OrderID: 42})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWorkOrderNotFound))
}
