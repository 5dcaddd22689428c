package kafka

import "time"

// EventType определяет тип доменного события.
type EventType string

const (
	// События каталога
	EventTypeProductDeleted  EventType = "catalog.product.deleted"
	EventTypeCategoryDeleted EventType = "catalog.category.deleted"
	EventTypeBrandDeleted    EventType = "catalog.brand.deleted"
	EventTypeVoucherDeleted  EventType = "catalog.voucher.deleted"
	EventTypeCustomerDeleted EventType = "customer.deleted"

	// События заказов
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypePaymentStatusSet   EventType = "order.payment_status_set"

	// События возвратов
	EventTypeReturnApproved EventType = "return.approved"
	EventTypeReturnRejected EventType = "return.rejected"
)

// Топики Kafka
const (
	TopicCatalogEvents = "shopadmin.catalog.events"
	TopicOrderEvents   = "shopadmin.order.events"
	TopicReturnEvents  = "shopadmin.return.events"
)

// CatalogEvent — событие изменения каталога (удаления сущностей).
type CatalogEvent struct {
	EventType EventType              `json:"event_type"`
	EntityID  string                 `json:"entity_id"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// OrderEvent — событие жизненного цикла заказа.
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	CustomerID string                 `json:"customer_id"`
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ReturnEvent — событие решения по заявке на возврат.
type ReturnEvent struct {
	EventType EventType `json:"event_type"`
	ReturnID  string    `json:"return_id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Points    int64     `json:"points,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCatalogEvent создаёт событие каталога.
func NewCatalogEvent(eventType EventType, entityID string, metadata map[string]interface{}) *CatalogEvent {
	return &CatalogEvent{
		EventType: eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// NewOrderEvent создаёт событие заказа.
func NewOrderEvent(eventType EventType, orderID, customerID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}
