package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	partdomain "github.com/tair/garage-management/internal/part/domain"
)

// Work order statuses
const (
	StatusPending         = "pending"
	StatusInProgress      = "in_progress"
	StatusWaitingParts    = "waiting_parts"
	StatusWaitingApproval = "waiting_approval"
	StatusCompleted       = "completed"
	StatusCancelled       = "cancelled"
)

// Work order priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidStatus reports whether s is a known work order status. Any status
// may move to any other status; the shop floor corrects mistakes by
// moving orders backward, so there is deliberately no transition table.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusWaitingParts,
		StatusWaitingApproval, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known work order priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// WorkOrder is the aggregate root for a repair job. The three cost fields
// are derived from the child collections and never set by callers;
// RecalculateCosts keeps total_cost == parts_cost + labor_cost.
type WorkOrder struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	OrderNumber         string         `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID          uint           `json:"customer_id" gorm:"not null;index"`
	VehicleID           uint           `json:"vehicle_id" gorm:"not null;index"`
	AssignedMechanicID  *uint          `json:"assigned_mechanic_id" gorm:"index"`
	ProblemDescription  string         `json:"problem_description" gorm:"type:text;not null"`
	Diagnosis           string         `json:"diagnosis" gorm:"type:text"`
	WorkPerformed       string         `json:"work_performed" gorm:"type:text"`
	LaborCost           float64        `json:"labor_cost" gorm:"not null;default:0"`
	PartsCost           float64        `json:"parts_cost" gorm:"not null;default:0"`
	TotalCost           float64        `json:"total_cost" gorm:"not null;default:0"`
	Priority            string         `json:"priority" gorm:"default:'medium'"`
	Status              string         `json:"status" gorm:"default:'pending';index"`
	StartedAt           *time.Time     `json:"started_at"`
	CompletedAt         *time.Time     `json:"completed_at"`
	EstimatedCompletion *time.Time     `json:"estimated_completion"`
	EstimatedHours      *int           `json:"estimated_hours"`
	CustomerNotes       string         `json:"customer_notes" gorm:"type:text"`
	InternalNotes       string         `json:"internal_notes" gorm:"type:text"`
	Parts               []WorkOrderPart     `json:"parts" gorm:"foreignKey:WorkOrderID"`
	Mechanics           []WorkOrderMechanic `json:"mechanics" gorm:"foreignKey:WorkOrderID"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (WorkOrder) TableName() string {
	return "work_orders"
}

// WorkOrderPart is a consumed-part line item. UnitPrice is snapshotted at
// consumption time and never re-read from the part.
type WorkOrderPart struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	WorkOrderID uint      `json:"work_order_id" gorm:"not null;index"`
	PartID      uint      `json:"part_id" gorm:"not null;index"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"`
	TotalPrice  float64   `json:"total_price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (WorkOrderPart) TableName() string {
	return "work_order_parts"
}

// WorkOrderMechanic is a labor line item
type WorkOrderMechanic struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	WorkOrderID     uint       `json:"work_order_id" gorm:"not null;index"`
	MechanicID      uint       `json:"mechanic_id" gorm:"not null;index"`
	HoursWorked     float64    `json:"hours_worked" gorm:"not null;default:0"`
	HourlyRate      float64    `json:"hourly_rate" gorm:"not null"`
	TotalCost       float64    `json:"total_cost" gorm:"not null"`
	StartedAt       *time.Time `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
	WorkDescription string     `json:"work_description" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (WorkOrderMechanic) TableName() string {
	return "work_order_mechanics"
}

// RecalculateCosts re-derives the three cost fields from the loaded child
// collections. Idempotent; called after every structural mutation.
func (w *WorkOrder) RecalculateCosts() {
	var partsCost, laborCost float64
	for _, line := range w.Parts {
		partsCost += line.TotalPrice
	}
	for _, labor := range w.Mechanics {
		laborCost += labor.TotalCost
	}
	w.PartsCost = partsCost
	w.LaborCost = laborCost
	w.TotalCost = partsCost + laborCost
}

// AppendInternalNote appends a note to the internal notes, newline
// separated, preserving prior notes.
func (w *WorkOrder) AppendInternalNote(note string) {
	if note == "" {
		return
	}
	if w.InternalNotes == "" {
		w.InternalNotes = note
		return
	}
	w.InternalNotes = w.InternalNotes + "\n" + note
}

// FormatOrderNumber builds the human-readable order number for the given
// year and sequence, e.g. WO-2026-0042.
func FormatOrderNumber(year, sequence int) string {
	return fmt.Sprintf("WO-%d-%04d", year, sequence)
}

// OrderNumberYear extracts the year segment of an order number, or zero
// when the number does not carry one.
func OrderNumberYear(orderNumber string) int {
	parts := strings.Split(orderNumber, "-")
	if len(parts) != 3 {
		return 0
	}
	var year int
	if _, err := fmt.Sscanf(parts[1], "%d", &year); err != nil {
		return 0
	}
	return year
}

// ListFilter narrows work order listings
type ListFilter struct {
	Status     string
	Priority   string
	MechanicID uint
	CustomerID uint
	Limit      int
	Offset     int
}

// Statistics is the dashboard aggregate over all work orders
type Statistics struct {
	Total                  int64   `json:"total"`
	Pending                int64   `json:"pending"`
	InProgress             int64   `json:"in_progress"`
	Completed              int64   `json:"completed"`
	AverageCompletionHours float64 `json:"average_completion_time"`
	RevenueThisMonth       float64 `json:"revenue_this_month"`
}

// Store is the transactional persistence boundary for the work-order
// aggregate and the part stock it consumes. Every service operation runs
// inside a single Transaction so a failure partway leaves no visible
// partial effect.
type Store interface {
	// Transaction runs fn against a transaction-scoped store. fn
	// returning an error rolls back everything it did.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateOrder(ctx context.Context, order *WorkOrder) error
	SaveOrder(ctx context.Context, order *WorkOrder) error
	FindOrderByID(ctx context.Context, id uint) (*WorkOrder, error)
	DeleteOrder(ctx context.Context, id uint) error
	ListOrders(ctx context.Context, filter ListFilter) ([]WorkOrder, error)
	CountInYear(ctx context.Context, year int) (int64, error)
	Statistics(ctx context.Context) (*Statistics, error)

	AddPartLine(ctx context.Context, line *WorkOrderPart) error
	DeletePartLines(ctx context.Context, orderID uint) error
	AddLaborLine(ctx context.Context, line *WorkOrderMechanic) error
	DeleteLaborLines(ctx context.Context, orderID uint) error

	// FindPartForUpdate reads a part under a row lock so the stock check
	// and the decrement cannot race another order's consumption.
	FindPartForUpdate(ctx context.Context, partID uint) (*partdomain.Part, error)
	// ConsumeStock atomically decrements stock, failing with
	// ErrInsufficientStock instead of driving the quantity negative.
	ConsumeStock(ctx context.Context, partID uint, quantity int) error
	RestoreStock(ctx context.Context, partID uint, quantity int) error
}

// Publisher emits work-order status change notifications. Fire and
// forget: a publish failure never fails the operation that caused it.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, order *WorkOrder, oldStatus string) error
}
