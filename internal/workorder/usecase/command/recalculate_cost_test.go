package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateCost_RederivesFromLineItems(t *testing.T) {
	store := newFakeStore()
	store.addPart(1, "Radiator", 2, 110.00)

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Overheating",
		Parts:              []PartLine{{PartID: 1, Quantity: 1, UnitPrice: 110.00}},
		Mechanics:          []LaborLine{{MechanicID: 2, HoursWorked: 1.5, HourlyRate: 50.00}},
	})
	require.NoError(t, err)

	// Tamper with the derived fields behind the usecase's back
	tampered := store.orders[created.ID]
	tampered.PartsCost = 0
	tampered.LaborCost = 0
	tampered.TotalCost = 999

	result, err := NewRecalculateCostHandler(store).Handle(context.Background(), RecalculateCostCommand{
		OrderID: created.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 110.00, result.PartsCost)
	assert.Equal(t, 75.00, result.LaborCost)
	assert.Equal(t, 185.00, result.TotalCost)
	assert.Equal(t, result.PartsCost+result.LaborCost, result.TotalCost)
}

func TestRecalculateCost_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addPart(1, "Radiator", 2, 110.00)

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Overheating",
		Parts:              []PartLine{{PartID: 1, Quantity: 1, UnitPrice: 110.00}},
	})
	require.NoError(t, err)

	handler := NewRecalculateCostHandler(store)
	first, err := handler.Handle(context.Background(), RecalculateCostCommand{OrderID: created.ID})
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), RecalculateCostCommand{OrderID: created.ID})
	require.NoError(t, err)

	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, first.PartsCost, second.PartsCost)
	assert.Equal(t, first.LaborCost, second.LaborCost)
}
