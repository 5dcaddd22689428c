package domain

import "time"

// Review — отзыв о товаре. Администратор удаляет отзывы мягко;
// жёсткое удаление происходит только каскадом при удалении товара.
type Review struct {
	ID         string
	ProductRef string
	OrderID    string
	UserID     string
	Rating     int32
	Comment    string
	IsDeleted  bool
	DeletedBy  string
	DeletedAt  *time.Time
	CreatedAt  time.Time
}
