package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создаёт PostgreSQL-хранилище уведомлений.
func NewNotificationRepository(store *Store) domain.NotificationRepository {
	return &notificationRepository{db: store.DB()}
}

func (r *notificationRepository) Create(n contract.Notification) (contract.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	var confirm, cancelAction string
	if n.Actions != nil {
		confirm = n.Actions.Confirm
		cancelAction = n.Actions.Cancel
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, message, link, order_id, type,
			action_confirm, action_cancel, read, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		n.ID, n.UserID, n.Message, n.Link, n.OrderID, string(n.Type),
		confirm, cancelAction, n.Read, n.CreatedAt,
	)
	if err != nil {
		return contract.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *notificationRepository) ListByUser(userID string, limit int) ([]contract.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, message, link, order_id, type,
		       action_confirm, action_cancel, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var result []contract.Notification
	for rows.Next() {
		var (
			n                     contract.Notification
			nType                 string
			confirm, cancelAction string
		)
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Message, &n.Link, &n.OrderID, &nType,
			&confirm, &cancelAction, &n.Read, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = contract.NotificationType(nType)
		if confirm != "" || cancelAction != "" {
			n.Actions = &contract.NotificationActions{Confirm: confirm, Cancel: cancelAction}
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return result, nil
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)
