package domain

import (
	"context"

	"github.com/vladislavdragonenkov/shopadmin/contract"
)

// PeerGateway описывает HTTP-поверхность витрины, которой пользуется
// админ-сервис. Все вызовы ограничены таймаутом и выполняются не более
// одного раза; политика обработки ошибок решается на стороне вызывающего
// (best-effort очистки против обязательного начисления баллов).
type PeerGateway interface {
	// CheckProductInCarts — консультативная проверка: в скольких активных
	// корзинах лежит товар. Ошибка вызова не авторитетна для запрета.
	CheckProductInCarts(ctx context.Context, productID string) (int, error)
	// DeleteProductReviews удаляет зеркальные отзывы на витрине.
	DeleteProductReviews(ctx context.Context, productID string) error
	// CleanupProduct вычищает избранное и историю просмотров товара.
	CleanupProduct(ctx context.Context, productID string) error
	// CleanupUser вычищает корзину/избранное/историю удалённого покупателя.
	CleanupUser(ctx context.Context, userID string) error
	// AddPoints начисляет баллы лояльности. Единственный вызов шлюза,
	// провал которого обязан прервать объемлющую операцию.
	AddPoints(ctx context.Context, credit contract.PointsCredit) error
	// SendNotification отправляет обобщённое уведомление покупателю.
	SendNotification(ctx context.Context, n contract.UserNotification) error
	// PushNotification доставляет уведомление в realtime-канал витрины.
	PushNotification(ctx context.Context, envelope contract.PushEnvelope) error
}
