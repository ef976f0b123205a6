package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignMechanics_ReplacesLaborLines(t *testing.T) {
	store := newFakeStore()

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Gearbox whine",
		Mechanics: []LaborLine{
			{MechanicID: 1, HoursWorked: 2, HourlyRate: 45.00},
			{MechanicID: 2, HoursWorked: 1, HourlyRate: 45.00},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 135.00, created.LaborCost)

	updated, err := NewAssignMechanicsHandler(store).Handle(context.Background(), AssignMechanicsCommand{
		OrderID:   created.ID,
		Mechanics: []LaborLine{{MechanicID: 3, HoursWorked: 4, HourlyRate: 60.00, WorkDescription: "Gearbox rebuild"}},
	})
	require.NoError(t, err)

	require.Len(t, updated.Mechanics, 1)
	assert.Equal(t, uint(3), updated.Mechanics[0].MechanicID)
	assert.Equal(t, "Gearbox rebuild", updated.Mechanics[0].WorkDescription)
	assert.Equal(t, 240.00, updated.LaborCost)
	assert.Equal(t, 240.00, updated.TotalCost)
}

func TestAssignMechanics_EmptyListClearsAssignments(t *testing.T) {
	store := newFakeStore()

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Gearbox whine",
		Mechanics:          []LaborLine{{MechanicID: 1, HoursWorked: 2, HourlyRate: 45.00}},
	})
	require.NoError(t, err)

	updated, err := NewAssignMechanicsHandler(store).Handle(context.Background(), AssignMechanicsCommand{
		OrderID: created.ID,
	})
	require.NoError(t, err)

	assert.Empty(t, updated.Mechanics)
	assert.Zero(t, updated.LaborCost)
	assert.Zero(t, updated.TotalCost)
}
