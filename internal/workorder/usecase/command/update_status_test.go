package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/garage-management/internal/workorder/domain"
)

func TestUpdateStatus_PublishesExactlyOnce(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{}

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Misfire",
	})
	require.NoError(t, err)

	updated, err := NewUpdateStatusHandler(store, publisher).Handle(context.Background(), UpdateStatusCommand{
		OrderID: created.ID,
		Status:  domain.StatusInProgress,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, updated.Status)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, created.OrderNumber, publisher.events[0].orderNumber)
	assert.Equal(t, domain.StatusPending, publisher.events[0].oldStatus)
	assert.Equal(t, domain.StatusInProgress, publisher.events[0].newStatus)
}

func TestUpdateStatus_SameStatusEmitsNothing(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{}

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Misfire",
	})
	require.NoError(t, err)

	_, err = NewUpdateStatusHandler(store, publisher).Handle(context.Background(), UpdateStatusCommand{
		OrderID: created.ID,
		Status:  domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Empty(t, publisher.events)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	_, err := NewUpdateStatusHandler(store, &fakePublisher{}).Handle(context.Background(), UpdateStatusCommand{
		OrderID: 1,
		Status:  "done",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateStatus_PublishFailureDoesNotFailOperation(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{err: errors.New("broker unreachable")}

	created, err := NewCreateWorkOrderHandler(store).Handle(context.Background(), CreateWorkOrderCommand{
		CustomerID:         1,
		VehicleID:          1,
		ProblemDescription: "Misfire",
	})
	require.NoError(t, err)

	updated, err := NewUpdateStatusHandler(store, publisher).Handle(context.Background(), UpdateStatusCommand{
		OrderID: created.ID,
		Status:  domain.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	// The persisted status change is not undone by the publish failure
	stored, err := store.FindOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}
