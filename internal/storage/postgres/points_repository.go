package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type pointTransactionRepository struct {
	db *sql.DB
}

// NewPointTransactionRepository создаёт PostgreSQL-журнал операций с баллами.
func NewPointTransactionRepository(store *Store) domain.PointTransactionRepository {
	return &pointTransactionRepository{db: store.DB()}
}

func (r *pointTransactionRepository) Append(tx domain.PointTransaction) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO point_transactions (id, user_id, type, points, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, tx.ID, tx.UserID, string(tx.Type), tx.Points, tx.Reason, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert point transaction: %w", err)
	}
	return nil
}

func (r *pointTransactionRepository) ListByUser(userID string, limit int) ([]domain.PointTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, points, reason, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list point transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.PointTransaction
	for rows.Next() {
		var (
			tx     domain.PointTransaction
			txType string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &txType, &tx.Points, &tx.Reason, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point transaction: %w", err)
		}
		tx.Type = domain.PointTransactionType(txType)
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate point transactions: %w", err)
	}
	return result, nil
}

var _ domain.PointTransactionRepository = (*pointTransactionRepository)(nil)
