// Package reviews реализует модерацию отзывов. Администратор удаляет
// отзывы мягко, с отметкой кем и когда; жёсткое удаление выполняет
// только каскад удаления товара.
package reviews

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

// Service модерирует отзывы покупателей.
type Service struct {
	reviews domain.ReviewRepository
	logger  *log.Entry
}

// NewService создаёт сервис модерации отзывов.
func NewService(reviews domain.ReviewRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "reviews")
	}
	return &Service{reviews: reviews, logger: logger}
}

// SoftDelete помечает отзыв удалённым. Повторное удаление — no-op.
func (s *Service) SoftDelete(_ context.Context, reviewID, adminID string) (domain.Review, error) {
	r, err := s.reviews.Get(reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if r.IsDeleted {
		return r, nil
	}

	now := time.Now().UTC()
	r.IsDeleted = true
	r.DeletedBy = adminID
	r.DeletedAt = &now
	if err := s.reviews.Save(r); err != nil {
		return domain.Review{}, fmt.Errorf("save soft-deleted review: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"review_id": reviewID,
		"admin_id":  adminID,
	}).Info("review soft-deleted")
	return r, nil
}

// Restore снимает отметку удаления.
func (s *Service) Restore(_ context.Context, reviewID string) (domain.Review, error) {
	r, err := s.reviews.Get(reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if !r.IsDeleted {
		return r, nil
	}

	r.IsDeleted = false
	r.DeletedBy = ""
	r.DeletedAt = nil
	if err := s.reviews.Save(r); err != nil {
		return domain.Review{}, fmt.Errorf("save restored review: %w", err)
	}
	return r, nil
}
