package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository создаёт PostgreSQL-реализацию ReviewRepository.
func NewReviewRepository(store *Store) domain.ReviewRepository {
	return &reviewRepository{db: store.DB()}
}

func (r *reviewRepository) Create(rev domain.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (
			id, product_ref, order_id, user_id, rating, comment,
			is_deleted, deleted_by, deleted_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rev.ID, rev.ProductRef, rev.OrderID, rev.UserID, rev.Rating, rev.Comment,
		rev.IsDeleted, rev.DeletedBy, rev.DeletedAt, rev.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Get(id string) (domain.Review, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		rev       domain.Review
		deletedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_ref, order_id, user_id, rating, comment,
		       is_deleted, deleted_by, deleted_at, created_at
		FROM reviews
		WHERE id = $1
	`, id).Scan(
		&rev.ID, &rev.ProductRef, &rev.OrderID, &rev.UserID, &rev.Rating,
		&rev.Comment, &rev.IsDeleted, &rev.DeletedBy, &deletedAt, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, domain.ErrReviewNotFound
		}
		return domain.Review{}, fmt.Errorf("select review: %w", err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		rev.DeletedAt = &t
	}
	return rev, nil
}

func (r *reviewRepository) Save(rev domain.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE reviews
		SET rating = $1,
		    comment = $2,
		    is_deleted = $3,
		    deleted_by = $4,
		    deleted_at = $5
		WHERE id = $6
	`, rev.Rating, rev.Comment, rev.IsDeleted, rev.DeletedBy, rev.DeletedAt, rev.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// DeleteByProducts жёстко удаляет отзывы каскадом удаления товара.
func (r *reviewRepository) DeleteByProducts(productIDs []string) (int, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefFormsAll(productIDs)
	query := fmt.Sprintf(`DELETE FROM reviews WHERE product_ref IN (%s)`, placeholders(1, len(forms)))
	res, err := r.db.ExecContext(ctx, query, toArgs(forms)...)
	if err != nil {
		return 0, fmt.Errorf("delete reviews by products: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.ReviewRepository = (*reviewRepository)(nil)
