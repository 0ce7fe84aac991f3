package ports

import (
	"context"
	"time"
)

// BatchEventType names what happened to a batch. It doubles as the routing key.
type BatchEventType string

const (
	BatchCreated         BatchEventType = "batch.created"
	BatchOrderAdded      BatchEventType = "batch.order_added"
	BatchOrderRemoved    BatchEventType = "batch.order_removed"
	BatchCourierAssigned BatchEventType = "batch.courier_assigned"
	BatchStarted         BatchEventType = "batch.started"
	BatchCompleted       BatchEventType = "batch.completed"
	BatchDeleted         BatchEventType = "batch.deleted"
)

// BatchEvent is the state of a batch right after a committed change.
type BatchEvent struct {
	Type       BatchEventType `json:"type"`
	BatchID    string         `json:"batchId"`
	ZoneID     string         `json:"zoneId"`
	Slot       string         `json:"slot"`
	Status     string         `json:"status"`
	CourierID  string         `json:"courierId,omitempty"`
	OrderID    string         `json:"orderId,omitempty"`
	OrderIDs   []string       `json:"orderIds"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// EventPublisher delivers batch events to the rest of the application.
// Events are published only after the unit of work that produced them committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...BatchEvent) error
}
