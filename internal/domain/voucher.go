package domain

import "time"

// DiscountType — тип скидки ваучера.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Voucher — промокод. Код уникален.
type Voucher struct {
	ID            string
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue int64
	StartDate     time.Time
	EndDate       time.Time
	MaxIssued     int32
	// ClaimsCount и UsesCount — денормализованные счётчики, периодически
	// сверяемые с журналом VoucherClaim.
	ClaimsCount int32
	UsesCount   int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VoucherClaim — запись журнала о выдаче ваучера пользователю.
type VoucherClaim struct {
	ID         string
	VoucherRef string
	UserID     string
	IsUsed     bool
	ClaimedAt  time.Time
}
