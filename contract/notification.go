// Package contract содержит DTO, разделяемые админ-сервисом и витриной.
// Схема уведомления принадлежит обоим сервисам одновременно: каждый
// импортирует её отсюда вместо локального переопределения, чтобы
// исключить тихий дрейф схемы.
package contract

import "time"

// NotificationType — тип уведомления покупателя.
type NotificationType string

const (
	// NotificationNormal — обычное информационное уведомление.
	NotificationNormal NotificationType = "normal"
	// NotificationDeliveryConfirmation — запрос подтверждения доставки
	// с парой действий confirm/cancel.
	NotificationDeliveryConfirmation NotificationType = "order_delivery_confirmation"
)

// NotificationActions — пара ссылок-действий для интерактивного уведомления.
type NotificationActions struct {
	Confirm string `json:"confirm,omitempty"`
	Cancel  string `json:"cancel,omitempty"`
}

// Notification — уведомление покупателя. Запись сохраняется локально
// до попытки realtime-доставки, поэтому покупатель увидит её при
// следующем опросе даже при недоступной витрине.
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	Message   string               `json:"message"`
	Link      string               `json:"link,omitempty"`
	OrderID   string               `json:"orderId,omitempty"`
	Type      NotificationType     `json:"type"`
	Actions   *NotificationActions `json:"actions,omitempty"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}
