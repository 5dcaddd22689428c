package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в магазине.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, но ещё не взят в обработку.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — заказ обрабатывается администратором.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusPrepared — заказ собран и готов к передаче в доставку.
	OrderStatusPrepared OrderStatus = "prepared"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен покупателю (терминальный статус).
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён (терминальный статус).
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusRank задаёт порядок статусов в цепочке жизненного цикла.
// Отмена стоит вне цепочки и обрабатывается отдельно.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    1,
	OrderStatusProcessing: 2,
	OrderStatusPrepared:   3,
	OrderStatusShipped:    4,
	OrderStatusDelivered:  5,
	OrderStatusCancelled:  6,
}

// Rank возвращает порядковый номер статуса в цепочке, 0 для неизвестного.
func (s OrderStatus) Rank() int {
	return statusRank[s]
}

// Valid сообщает, известен ли статус системе.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// PaymentStatus описывает состояние оплаты заказа. Оно меняется независимо
// от статуса доставки, кроме единственного вывода COD+delivered => paid.
type PaymentStatus string

const (
	PaymentStatusUnpaid     PaymentStatus = "unpaid"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusProcessing PaymentStatus = "processing"
)

// PaymentMethod — способ оплаты, выбранный при оформлении заказа.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodStripe PaymentMethod = "STRIPE"
	PaymentMethodMomo   PaymentMethod = "MOMO"
	PaymentMethodZalo   PaymentMethod = "ZALOPAY"
)

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ProductRef хранит ссылку на товар. Представление неоднозначно:
	// встречается как «сырой» идентификатор, так и типизированная
	// legacy-форма; сравнивать только через NormalizeRef/RefForms.
	ProductRef string
	Quantity   int32
	// Price — итоговая цена позиции на момент оформления.
	Price int64
	// OriginalPrice — цена до скидки, используется при возвратах.
	OriginalPrice int64
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID            string
	CustomerID    string
	Items         []OrderItem
	TotalPrice    int64
	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	// VoucherRef — ссылка на применённый ваучер, пустая строка если без него.
	// Представление так же неоднозначно, как и у OrderItem.ProductRef.
	VoucherRef string
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContainsProduct сообщает, есть ли товар среди позиций заказа,
// с учётом обеих форм хранения ссылки.
func (o *Order) ContainsProduct(productID string) bool {
	want := NormalizeRef(productID)
	for _, item := range o.Items {
		if NormalizeRef(item.ProductRef) == want {
			return true
		}
	}
	return false
}

// OrderStats — сводка по заказам для административной панели.
type OrderStats struct {
	TotalOrders      int
	ByStatus         map[OrderStatus]int
	TotalRevenue     int64
	PendingRevenue   int64
	ConfirmedRevenue int64
}
