package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/garage-management/internal/workorder/domain"
)

func TestAddParts_AppendsToExistingLines(t *testing.T) {
	store := newFakeStore()
	store.addPart(1, "Spark plug", 8, 5.00)
	store.addPart(2, "Ignition coil", 4, 25.00)

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Rough idle",
		Parts:              []PartLine{{PartID: 1, Quantity: 4, UnitPrice: 5.00}},
	})
	require.NoError(t, err)

	updated, err := NewAddPartsHandler(store).Handle(context.Background(), AddPartsCommand{
		OrderID: created.ID,
		Parts:   []PartLine{{PartID: 2, Quantity: 1, UnitPrice: 25.00}},
	})
	require.NoError(t, err)

	require.Len(t, updated.Parts, 2)
	assert.Equal(t, 45.00, updated.PartsCost)
	assert.Equal(t, 4, store.stockOf(1))
	assert.Equal(t, 3, store.stockOf(2))
}

func TestAddParts_BatchIsAllOrNothing(t *testing.T) {
	store := newFakeStore()
	store.addPart(1, "Spark plug", 8, 5.00)
	store.addPart(2, "Ignition coil", 1, 25.00)

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Rough idle",
	})
	require.NoError(t, err)

	_, err = NewAddPartsHandler(store).Handle(context.Background(), AddPartsCommand{
		OrderID: created.ID,
		Parts: []PartLine{
			{PartID: 1, Quantity: 2, UnitPrice: 5.00},
			{PartID: 2, Quantity: 3, UnitPrice: 25.00},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Equal(t, 8, store.stockOf(1))
	assert.Equal(t, 1, store.stockOf(2))
	stored, err := store.FindOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Parts)
	assert.Zero(t, stored.PartsCost)
}

func TestAddParts_RequiresAtLeastOneLine(t *testing.T) {
	store := newFakeStore()
	_, err := NewAddPartsHandler(store).Handle(context.Background(), AddPartsCommand{OrderID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
