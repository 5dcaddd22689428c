package domain

import "github.com/vladislavdragonenkov/shopadmin/contract"

// OrderRepository описывает требования к хранилищу заказов.
// Счётные методы принимают множество «активных» статусов явно —
// оно приходит из StatusConfig, а не из константы пакета.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// CountActiveByProducts считает заказы в указанных статусах, среди
	// позиций которых встречается любой из товаров (обе формы ссылок).
	CountActiveByProducts(productIDs []string, active []OrderStatus) (int, error)
	// CountActiveByVoucher считает заказы в указанных статусах с данным ваучером.
	CountActiveByVoucher(voucherID string, active []OrderStatus) (int, error)
	// CountActiveByCustomer считает заказы покупателя в указанных статусах.
	CountActiveByCustomer(customerID string, active []OrderStatus) (int, error)
	// ListIDsByProducts возвращает идентификаторы всех заказов (в любом
	// статусе), содержащих хотя бы один из товаров.
	ListIDsByProducts(productIDs []string) ([]string, error)
	// Stats агрегирует сводку по заказам.
	Stats() (OrderStats, error)
}

// ReturnRepository хранит заявки на возврат.
type ReturnRepository interface {
	Create(req ReturnRequest) error
	Get(id string) (ReturnRequest, error)
	Save(req ReturnRequest) error
	// CountPendingByOrders считает необработанные заявки по заказам.
	CountPendingByOrders(orderIDs []string) (int, error)
	// CountPendingByCustomer считает необработанные заявки покупателя.
	CountPendingByCustomer(customerID string) (int, error)
	Stats() (ReturnStats, error)
}

// ProductRepository хранит товары каталога.
type ProductRepository interface {
	Create(p Product) error
	Get(id string) (Product, error)
	// Delete удаляет товар; сообщает, существовала ли запись.
	Delete(id string) (bool, error)
	// DeleteMany удаляет набор товаров, возвращает число удалённых.
	DeleteMany(ids []string) (int, error)
	// CountByCategories возвращает число товаров на каждую из категорий
	// (обе формы ссылок); категории без товаров в карте отсутствуют.
	CountByCategories(categoryIDs []string) (map[string]int, error)
	// CountByBrands — аналогично для брендов.
	CountByBrands(brandIDs []string) (map[string]int, error)
}

// CategoryRepository хранит категории каталога.
type CategoryRepository interface {
	Create(c Category) error
	Get(id string) (Category, error)
	GetMany(ids []string) ([]Category, error)
	Delete(id string) (bool, error)
	DeleteMany(ids []string) (int, error)
}

// BrandRepository хранит бренды каталога.
type BrandRepository interface {
	Create(b Brand) error
	Get(id string) (Brand, error)
	GetMany(ids []string) ([]Brand, error)
	Delete(id string) (bool, error)
	DeleteMany(ids []string) (int, error)
}

// VoucherRepository хранит ваучеры.
type VoucherRepository interface {
	Create(v Voucher) error
	Get(id string) (Voucher, error)
	Save(v Voucher) error
	List() ([]Voucher, error)
	Delete(id string) (bool, error)
}

// VoucherClaimRepository — журнал выдач ваучеров.
type VoucherClaimRepository interface {
	Append(claim VoucherClaim) error
	// CountByVoucher считает все выдачи ваучера.
	CountByVoucher(voucherID string) (int, error)
	// CountUsedByVoucher считает использованные выдачи.
	CountUsedByVoucher(voucherID string) (int, error)
	// DeleteByVoucher вычищает журнал при удалении ваучера.
	DeleteByVoucher(voucherID string) (int, error)
}

// CustomerRepository хранит покупателей.
type CustomerRepository interface {
	Create(c Customer) error
	Get(id string) (Customer, error)
	Save(c Customer) error
	Delete(id string) (bool, error)
}

// ReviewRepository хранит отзывы.
type ReviewRepository interface {
	Create(r Review) error
	Get(id string) (Review, error)
	Save(r Review) error
	// DeleteByProducts жёстко удаляет отзывы на товары одним запросом;
	// используется только каскадом удаления товара.
	DeleteByProducts(productIDs []string) (int, error)
}

// NotificationRepository хранит уведомления покупателей до доставки.
type NotificationRepository interface {
	Create(n contract.Notification) (contract.Notification, error)
	ListByUser(userID string, limit int) ([]contract.Notification, error)
}

// PointTransactionRepository — журнал операций с баллами.
type PointTransactionRepository interface {
	Append(tx PointTransaction) error
	ListByUser(userID string, limit int) ([]PointTransaction, error)
}
