package domain

import "time"

// PointTransactionType — тип операции в журнале баллов.
type PointTransactionType string

const (
	PointEarned     PointTransactionType = "EARNED"
	PointRedeemed   PointTransactionType = "REDEEMED"
	PointExpired    PointTransactionType = "EXPIRED"
	PointAdjustment PointTransactionType = "ADJUSTMENT"
)

// PointTransaction — запись журнала начислений/списаний баллов.
// Журнал append-only; баланс покупателя — производная величина.
type PointTransaction struct {
	ID        string
	UserID    string
	Type      PointTransactionType
	Points    int64
	Reason    string
	CreatedAt time.Time
}
