package domain

import "time"

// ReturnStatus — статус заявки на возврат. Переход из pending
// в approved/rejected единственный и необратимый.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// ReturnReason — причина возврата, выбранная покупателем.
type ReturnReason string

const (
	ReturnReasonWrongItem      ReturnReason = "wrong_item"
	ReturnReasonDamaged        ReturnReason = "damaged"
	ReturnReasonNotAsDescribed ReturnReason = "not_as_described"
	ReturnReasonSizeNotFit     ReturnReason = "size_not_fit"
	ReturnReasonQualityIssue   ReturnReason = "quality_issue"
	ReturnReasonChangedMind    ReturnReason = "changed_mind"
	ReturnReasonOther          ReturnReason = "other"
)

// ReturnRequest — заявка покупателя на возврат заказа.
type ReturnRequest struct {
	ID         string
	OrderID    string
	CustomerID string
	Reason     ReturnReason
	ReasonText string
	Status     ReturnStatus
	// RefundAmount — стоимость товара до ваучеров и баллов; именно она
	// начисляется баллами при одобрении.
	RefundAmount  int64
	PointsAwarded int64
	AdminNote     string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReturnStats — сводка по заявкам на возврат.
type ReturnStats struct {
	Pending       int
	Approved      int
	Rejected      int
	TotalRefunded int64
}
