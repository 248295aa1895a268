package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	EventTypeCustomerCreated EventType = "customer.created"
	EventTypeProductCreated  EventType = "product.created"
	EventTypeOrderCreated    EventType = "order.created"
)

// Topics для Kafka
const (
	TopicCustomerEvents = "crm.customer.events"
	TopicProductEvents  = "crm.product.events"
	TopicOrderEvents    = "crm.order.events"
)

// EntityEvent представляет событие о созданной сущности CRM.
type EntityEvent struct {
	EventType EventType              `json:"event_type"`
	EntityID  string                 `json:"entity_id"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEntityEvent создает новое событие сущности.
func NewEntityEvent(eventType EventType, entityID string, metadata map[string]interface{}) *EntityEvent {
	return &EntityEvent{
		EventType: eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
