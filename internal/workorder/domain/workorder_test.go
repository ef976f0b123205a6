package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecalculateCosts(t *testing.T) {
	order := WorkOrder{
		Parts: []WorkOrderPart{
			{Quantity: 2, UnitPrice: 10.00, TotalPrice: 20.00},
			{Quantity: 1, UnitPrice: 45.50, TotalPrice: 45.50},
		},
		Mechanics: []WorkOrderMechanic{
			{HoursWorked: 2, HourlyRate: 50.00, TotalCost: 100.00},
		},
	}

	order.RecalculateCosts()

	assert.Equal(t, 65.50, order.PartsCost)
	assert.Equal(t, 100.00, order.LaborCost)
	assert.Equal(t, 165.50, order.TotalCost)
}

func TestRecalculateCosts_NoLines(t *testing.T) {
	order := WorkOrder{PartsCost: 12, LaborCost: 34, TotalCost: 999}
	order.RecalculateCosts()
	assert.Zero(t, order.PartsCost)
	assert.Zero(t, order.LaborCost)
	assert.Zero(t, order.TotalCost)
}

func TestAppendInternalNote(t *testing.T) {
	var order WorkOrder
	order.AppendInternalNote("first")
	assert.Equal(t, "first", order.InternalNotes)

	order.AppendInternalNote("second")
	assert.Equal(t, "first\nsecond", order.InternalNotes)

	order.AppendInternalNote("")
	assert.Equal(t, "first\nsecond", order.InternalNotes)
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "WO-2026-0001", FormatOrderNumber(2026, 1))
	assert.Equal(t, "WO-2026-0042", FormatOrderNumber(2026, 42))
	assert.Equal(t, "WO-2026-12345", FormatOrderNumber(2026, 12345))
}

func TestOrderNumberYear(t *testing.T) {
	assert.Equal(t, 2026, OrderNumberYear("WO-2026-0042"))
	assert.Equal(t, 0, OrderNumberYear("garbage"))
	assert.Equal(t, 0, OrderNumberYear("WO-xx-0042"))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		StatusPending, StatusInProgress, StatusWaitingParts,
		StatusWaitingApproval, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		assert.True(t, ValidPriority(p), p)
	}
	assert.False(t, ValidPriority("asap"))
	assert.False(t, ValidPriority(""))
}
