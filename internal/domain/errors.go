package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound возвращается, если категория не найдена.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrBrandNotFound возвращается, если бренд не найден.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrVoucherNotFound возвращается, если ваучер не найден.
	ErrVoucherNotFound = errors.New("voucher not found")
	// ErrCustomerNotFound возвращается, если покупатель не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrReturnNotFound возвращается, если заявка на возврат не найдена.
	ErrReturnNotFound = errors.New("return request not found")
	// ErrReviewNotFound возвращается, если отзыв не найден.
	ErrReviewNotFound = errors.New("review not found")
	// ErrVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrVersionConflict = errors.New("version conflict")
	// ErrInvalidStatusTransition — недопустимый переход статуса заказа.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	// ErrUnknownOrderStatus — статус, не входящий в жизненный цикл.
	ErrUnknownOrderStatus = errors.New("unknown order status")
)

// ReturnAlreadyProcessedError сообщает, что заявка уже обработана,
// и в какую сторону.
type ReturnAlreadyProcessedError struct {
	ID     string
	Status ReturnStatus
}

func (e *ReturnAlreadyProcessedError) Error() string {
	return fmt.Sprintf("return request %s already processed: %s", e.ID, e.Status)
}

// IntegrityViolationError — отказ guard-проверки: сущность нельзя удалить,
// пока на неё ссылаются незавершённые данные. Причина показывается
// оператору дословно.
type IntegrityViolationError struct {
	Kind          EntityKind
	BlockingCount int
	Reason        string
}

func (e *IntegrityViolationError) Error() string {
	return e.Reason
}

// IsIntegrityViolation сообщает, является ли ошибка отказом guard-проверки.
func IsIntegrityViolation(err error) bool {
	var iv *IntegrityViolationError
	return errors.As(err, &iv)
}

// CriticalSideEffectError — провал удалённого вызова, который обязан был
// пройти (начисление баллов при одобрении возврата). В отличие от
// best-effort очисток, прерывает всю операцию.
type CriticalSideEffectError struct {
	Op  string
	Err error
}

func (e *CriticalSideEffectError) Error() string {
	return fmt.Sprintf("critical side effect %s failed: %v", e.Op, e.Err)
}

func (e *CriticalSideEffectError) Unwrap() error {
	return e.Err
}
