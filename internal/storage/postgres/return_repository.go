package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type returnRepository struct {
	db *sql.DB
}

// NewReturnRepository создаёт PostgreSQL-реализацию ReturnRepository.
func NewReturnRepository(store *Store) domain.ReturnRepository {
	return &returnRepository{db: store.DB()}
}

func (r *returnRepository) Create(req domain.ReturnRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO return_requests (
			id, order_id, customer_id, reason, reason_text, status,
			refund_amount, points_awarded, admin_note, processed_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		req.ID, req.OrderID, req.CustomerID, string(req.Reason), req.ReasonText,
		string(req.Status), req.RefundAmount, req.PointsAwarded, req.AdminNote,
		req.ProcessedAt, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert return request: %w", err)
	}
	return nil
}

func (r *returnRepository) Get(id string) (domain.ReturnRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		req            domain.ReturnRequest
		reason, status string
		processedAt    sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, customer_id, reason, reason_text, status,
		       refund_amount, points_awarded, admin_note, processed_at, created_at, updated_at
		FROM return_requests
		WHERE id = $1
	`, id).Scan(
		&req.ID, &req.OrderID, &req.CustomerID, &reason, &req.ReasonText, &status,
		&req.RefundAmount, &req.PointsAwarded, &req.AdminNote, &processedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReturnRequest{}, domain.ErrReturnNotFound
		}
		return domain.ReturnRequest{}, fmt.Errorf("select return request: %w", err)
	}
	req.Reason = domain.ReturnReason(reason)
	req.Status = domain.ReturnStatus(status)
	if processedAt.Valid {
		t := processedAt.Time
		req.ProcessedAt = &t
	}
	return req, nil
}

func (r *returnRepository) Save(req domain.ReturnRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE return_requests
		SET status = $1,
		    points_awarded = $2,
		    admin_note = $3,
		    processed_at = $4,
		    updated_at = $5
		WHERE id = $6
	`,
		string(req.Status), req.PointsAwarded, req.AdminNote,
		req.ProcessedAt, req.UpdatedAt, req.ID,
	)
	if err != nil {
		return fmt.Errorf("update return request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) CountPendingByOrders(orderIDs []string) (int, error) {
	if len(orderIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM return_requests
		WHERE status = $1
		  AND order_id IN (%s)
	`, placeholders(2, len(orderIDs)))

	args := append([]any{string(domain.ReturnStatusPending)}, toArgs(orderIDs)...)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending returns by orders: %w", err)
	}
	return count, nil
}

func (r *returnRepository) CountPendingByCustomer(customerID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM return_requests
		WHERE status = $1
		  AND customer_id = $2
	`, string(domain.ReturnStatusPending), customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending returns by customer: %w", err)
	}
	return count, nil
}

func (r *returnRepository) Stats() (domain.ReturnStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(points_awarded), 0)
		FROM return_requests
		GROUP BY status
	`)
	if err != nil {
		return domain.ReturnStats{}, fmt.Errorf("aggregate returns by status: %w", err)
	}
	defer rows.Close()

	var stats domain.ReturnStats
	for rows.Next() {
		var (
			status string
			count  int
			points int64
		)
		if err := rows.Scan(&status, &count, &points); err != nil {
			return domain.ReturnStats{}, fmt.Errorf("scan return aggregate: %w", err)
		}
		switch domain.ReturnStatus(status) {
		case domain.ReturnStatusPending:
			stats.Pending = count
		case domain.ReturnStatusApproved:
			stats.Approved = count
			stats.TotalRefunded = points
		case domain.ReturnStatusRejected:
			stats.Rejected = count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.ReturnStats{}, fmt.Errorf("iterate return aggregates: %w", err)
	}

	return stats, nil
}

var _ domain.ReturnRepository = (*returnRepository)(nil)
