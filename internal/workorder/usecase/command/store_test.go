package command

import (
	"context"
	"fmt"
	"sort"
	"time"

	partdomain "github.com/tair/garage-management/internal/part/domain"
	"github.com/tair/garage-management/internal/workorder/domain"
)

// fakeStore is an in-memory Store with real transaction semantics: a
// failed transaction restores the snapshot taken when it began.
type fakeStore struct {
	orders     map[uint]*domain.WorkOrder
	deleted    map[uint]bool
	partLines  map[uint][]domain.WorkOrderPart
	laborLines map[uint][]domain.WorkOrderMechanic
	parts      map[uint]*partdomain.Part

	nextOrderID uint
	nextLineID  uint

	createCalls int
	// forced CreateOrder failures, consumed one per call
	failCreates   int
	failCreateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:     make(map[uint]*domain.WorkOrder),
		deleted:    make(map[uint]bool),
		partLines:  make(map[uint][]domain.WorkOrderPart),
		laborLines: make(map[uint][]domain.WorkOrderMechanic),
		parts:      make(map[uint]*partdomain.Part),
	}
}

func (f *fakeStore) addPart(id uint, name string, stock int, sellingPrice float64) {
	f.parts[id] = &partdomain.Part{
		ID:            id,
		Name:          name,
		PartNumber:    fmt.Sprintf("PN-%04d", id),
		StockQuantity: stock,
		SellingPrice:  sellingPrice,
		Status:        partdomain.StatusActive,
	}
}

func (f *fakeStore) stockOf(id uint) int {
	return f.parts[id].StockQuantity
}

type storeSnapshot struct {
	orders      map[uint]*domain.WorkOrder
	deleted     map[uint]bool
	partLines   map[uint][]domain.WorkOrderPart
	laborLines  map[uint][]domain.WorkOrderMechanic
	parts       map[uint]*partdomain.Part
	nextOrderID uint
	nextLineID  uint
}

func (f *fakeStore) snapshot() storeSnapshot {
	s := storeSnapshot{
		orders:      make(map[uint]*domain.WorkOrder, len(f.orders)),
		deleted:     make(map[uint]bool, len(f.deleted)),
		partLines:   make(map[uint][]domain.WorkOrderPart, len(f.partLines)),
		laborLines:  make(map[uint][]domain.WorkOrderMechanic, len(f.laborLines)),
		parts:       make(map[uint]*partdomain.Part, len(f.parts)),
		nextOrderID: f.nextOrderID,
		nextLineID:  f.nextLineID,
	}
	for id, o := range f.orders {
		clone := *o
		s.orders[id] = &clone
	}
	for id, d := range f.deleted {
		s.deleted[id] = d
	}
	for id, lines := range f.partLines {
		s.partLines[id] = append([]domain.WorkOrderPart(nil), lines...)
	}
	for id, lines := range f.laborLines {
		s.laborLines[id] = append([]domain.WorkOrderMechanic(nil), lines...)
	}
	for id, p := range f.parts {
		clone := *p
		s.parts[id] = &clone
	}
	return s
}

func (f *fakeStore) restore(s storeSnapshot) {
	f.orders = s.orders
	f.deleted = s.deleted
	f.partLines = s.partLines
	f.laborLines = s.laborLines
	f.parts = s.parts
	f.nextOrderID = s.nextOrderID
	f.nextLineID = s.nextLineID
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, order *domain.WorkOrder) error {
	f.createCalls++
	if f.failCreates > 0 {
		f.failCreates--
		return f.failCreateErr
	}
	for id, existing := range f.orders {
		if !f.deleted[id] && existing.OrderNumber == order.OrderNumber {
			return fmt.Errorf("create order: %w", domain.ErrDuplicateOrderNumber)
		}
	}
	f.nextOrderID++
	order.ID = f.nextOrderID
	order.CreatedAt = time.Now()
	clone := *order
	clone.Parts = nil
	clone.Mechanics = nil
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeStore) SaveOrder(ctx context.Context, order *domain.WorkOrder) error {
	if _, ok := f.orders[order.ID]; !ok || f.deleted[order.ID] {
		return domain.ErrWorkOrderNotFound
	}
	clone := *order
	clone.Parts = nil
	clone.Mechanics = nil
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeStore) FindOrderByID(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	stored, ok := f.orders[id]
	if !ok || f.deleted[id] {
		return nil, domain.ErrWorkOrderNotFound
	}
	order := *stored
	order.Parts = append([]domain.WorkOrderPart(nil), f.partLines[id]...)
	order.Mechanics = append([]domain.WorkOrderMechanic(nil), f.laborLines[id]...)
	return &order, nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, id uint) error {
	if _, ok := f.orders[id]; !ok || f.deleted[id] {
		return domain.ErrWorkOrderNotFound
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeStore) ListOrders(ctx context.Context, filter domain.ListFilter) ([]domain.WorkOrder, error) {
	var ids []uint
	for id := range f.orders {
		if f.deleted[id] {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var out []domain.WorkOrder
	for _, id := range ids {
		o := f.orders[id]
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && o.Priority != filter.Priority {
			continue
		}
		if filter.CustomerID != 0 && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.MechanicID != 0 && (o.AssignedMechanicID == nil || *o.AssignedMechanicID != filter.MechanicID) {
			continue
		}
		out = append(out, *o)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) CountInYear(ctx context.Context, year int) (int64, error) {
	var count int64
	for _, o := range f.orders {
		if o.CreatedAt.Year() == year {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}
	for id, o := range f.orders {
		if f.deleted[id] {
			continue
		}
		stats.Total++
		switch o.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusCompleted:
			stats.Completed++
			stats.RevenueThisMonth += o.TotalCost
		}
	}
	return stats, nil
}

func (f *fakeStore) AddPartLine(ctx context.Context, line *domain.WorkOrderPart) error {
	f.nextLineID++
	line.ID = f.nextLineID
	f.partLines[line.WorkOrderID] = append(f.partLines[line.WorkOrderID], *line)
	return nil
}

func (f *fakeStore) DeletePartLines(ctx context.Context, orderID uint) error {
	delete(f.partLines, orderID)
	return nil
}

func (f *fakeStore) AddLaborLine(ctx context.Context, line *domain.WorkOrderMechanic) error {
	f.nextLineID++
	line.ID = f.nextLineID
	f.laborLines[line.WorkOrderID] = append(f.laborLines[line.WorkOrderID], *line)
	return nil
}

func (f *fakeStore) DeleteLaborLines(ctx context.Context, orderID uint) error {
	delete(f.laborLines, orderID)
	return nil
}

func (f *fakeStore) FindPartForUpdate(ctx context.Context, partID uint) (*partdomain.Part, error) {
	p, ok := f.parts[partID]
	if !ok {
		return nil, domain.ErrPartNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeStore) ConsumeStock(ctx context.Context, partID uint, quantity int) error {
	p, ok := f.parts[partID]
	if !ok {
		return domain.ErrPartNotFound
	}
	if p.StockQuantity < quantity {
		return &domain.InsufficientStockError{
			PartID:    p.ID,
			PartName:  p.Name,
			Requested: quantity,
			Available: p.StockQuantity,
		}
	}
	p.StockQuantity -= quantity
	return nil
}

func (f *fakeStore) RestoreStock(ctx context.Context, partID uint, quantity int) error {
	p, ok := f.parts[partID]
	if !ok {
		return domain.ErrPartNotFound
	}
	p.StockQuantity += quantity
	return nil
}

// fakePublisher records every status change notification
type fakePublisher struct {
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	orderNumber string
	oldStatus   string
	newStatus   string
}

func (p *fakePublisher) PublishStatusChanged(ctx context.Context, order *domain.WorkOrder, oldStatus string) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{
		orderNumber: order.OrderNumber,
		oldStatus:   oldStatus,
		newStatus:   order.Status,
	})
	return nil
}
