package kafka

import "time"

// WorkOrderStatusChangedEvent is emitted whenever a work order's status
// effectively changes. OldStatus carries the value before the change.
type WorkOrderStatusChangedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	WorkOrderID uint      `json:"work_order_id"`
	OrderNumber string    `json:"order_number"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	CustomerID  uint      `json:"customer_id"`
	TotalCost   float64   `json:"total_cost"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeWorkOrderStatusChanged = "workorder.status_changed"
)

// Kafka topics
const (
	TopicWorkOrderStatusChanged = "work-order-status-changed"
)
