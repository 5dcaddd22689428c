package domain

import "time"

// LoyaltyTier — уровень лояльности покупателя.
type LoyaltyTier string

const (
	LoyaltyTierBronze LoyaltyTier = "BRONZE"
	LoyaltyTierSilver LoyaltyTier = "SILVER"
	LoyaltyTierGold   LoyaltyTier = "GOLD"
)

// LoyaltyPoints хранит баланс и вычисленный уровень лояльности.
type LoyaltyPoints struct {
	Balance int64
	Tier    LoyaltyTier
}

// Customer — покупатель (пользователь с ролью customer/user).
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	IsActive  bool
	Loyalty   LoyaltyPoints
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoyaltyConfig задаёт пороги уровней лояльности. Пороги — настройка
// развёртывания, а не константа пакета.
type LoyaltyConfig struct {
	SilverThreshold int64
	GoldThreshold   int64
}

// DefaultLoyaltyConfig возвращает пороги из базовой конфигурации магазина.
func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{
		SilverThreshold: 1000,
		GoldThreshold:   5000,
	}
}

// TierFor вычисляет уровень по балансу.
func (c LoyaltyConfig) TierFor(balance int64) LoyaltyTier {
	switch {
	case balance >= c.GoldThreshold:
		return LoyaltyTierGold
	case balance >= c.SilverThreshold:
		return LoyaltyTierSilver
	default:
		return LoyaltyTierBronze
	}
}
