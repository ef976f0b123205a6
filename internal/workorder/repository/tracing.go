package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/garage-management/internal/workorder/domain"
)

var tracer = otel.Tracer("workorder-store")

// GormStoreWithTracing wraps GormStore, adding spans around the
// operations on the hot path. The transaction callback receives the plain
// store; child operations stay inside the parent span.
type GormStoreWithTracing struct {
	*GormStore
}

// NewGormStoreWithTracing creates a new store with tracing
func NewGormStoreWithTracing(db *gorm.DB) *GormStoreWithTracing {
	return &GormStoreWithTracing{GormStore: NewGormStore(db)}
}

// Transaction with tracing
func (s *GormStoreWithTracing) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "store.Transaction")
	defer span.End()

	err := s.GormStore.Transaction(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// FindOrderByID with tracing
func (s *GormStoreWithTracing) FindOrderByID(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	ctx, span := tracer.Start(ctx, "store.FindOrderByID",
		trace.WithAttributes(attribute.Int("work_order.id", int(id))),
	)
	defer span.End()

	order, err := s.GormStore.FindOrderByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("work_order.number", order.OrderNumber),
		attribute.String("work_order.status", order.Status),
	)
	return order, nil
}

// ConsumeStock with tracing
func (s *GormStoreWithTracing) ConsumeStock(ctx context.Context, partID uint, quantity int) error {
	ctx, span := tracer.Start(ctx, "store.ConsumeStock",
		trace.WithAttributes(
			attribute.Int("part.id", int(partID)),
			attribute.Int("part.quantity", quantity),
		),
	)
	defer span.End()

	err := s.GormStore.ConsumeStock(ctx, partID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// RestoreStock with tracing
func (s *GormStoreWithTracing) RestoreStock(ctx context.Context, partID uint, quantity int) error {
	ctx, span := tracer.Start(ctx, "store.RestoreStock",
		trace.WithAttributes(
			attribute.Int("part.id", int(partID)),
			attribute.Int("part.quantity", quantity),
		),
	)
	defer span.End()

	err := s.GormStore.RestoreStock(ctx, partID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
