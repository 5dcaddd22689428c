package domain

// EntityKind перечисляет сущности, для которых выполняются
// guard-проверки перед удалением.
type EntityKind string

const (
	KindCategory EntityKind = "category"
	KindBrand    EntityKind = "brand"
	KindProduct  EntityKind = "product"
	KindVoucher  EntityKind = "voucher"
	KindCustomer EntityKind = "customer"
)

// StatusConfig задаёт множество нетерминальных статусов заказа.
// Передаётся в guard и движок жизненного цикла при конструировании,
// а не лежит глобальной константой пакета.
type StatusConfig struct {
	NonTerminal []OrderStatus
}

// DefaultStatusConfig возвращает штатное множество нетерминальных статусов.
func DefaultStatusConfig() StatusConfig {
	return StatusConfig{
		NonTerminal: []OrderStatus{
			OrderStatusPending,
			OrderStatusProcessing,
			OrderStatusPrepared,
			OrderStatusShipped,
		},
	}
}

// IsTerminal сообщает, является ли статус терминальным для данной конфигурации.
func (c StatusConfig) IsTerminal(s OrderStatus) bool {
	for _, st := range c.NonTerminal {
		if st == s {
			return false
		}
	}
	return true
}
