package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/garage-management/internal/workorder/domain"
)

func TestDeleteWorkOrder_RemovesOrderWithoutTouchingStock(t *testing.T) {
	store := newFakeStore()
	store.addPart(1, "Wiper blade", 6, 9.00)

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Streaky wipers",
		Parts:              []PartLine{{PartID: 1, Quantity: 2, UnitPrice: 9.00}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, store.stockOf(1))

	err = NewDeleteWorkOrderHandler(store).Handle(context.Background(), DeleteWorkOrderCommand{OrderID: created.ID})
	require.NoError(t, err)

	_, err = store.FindOrderByID(context.Background(), created.ID)
	assert.True(t, errors.Is(err, domain.ErrWorkOrderNotFound))
	// Deletion is not cancellation: consumed stock stays consumed
	assert.Equal(t, 4, store.stockOf(1))
}

func TestDeleteWorkOrder_UnknownOrder(t *testing.T) {
	store := newFakeStore()
	err := NewDeleteWorkOrderHandler(store).Handle(context.Background(), DeleteWorkOrderCommand{OrderID: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWorkOrderNotFound))
}
