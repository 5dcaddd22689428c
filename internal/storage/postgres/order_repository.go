package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, total_price, status, payment_status, payment_method,
			voucher_ref, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		order.ID, order.CustomerID, order.TotalPrice, string(order.Status),
		string(order.PaymentStatus), string(order.PaymentMethod),
		order.VoucherRef, order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_ref, quantity, price, original_price)
			VALUES ($1,$2,$3,$4,$5)
		`,
			order.ID, item.ProductRef, item.Quantity, item.Price, item.OriginalPrice,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		order                        domain.Order
		status, payStatus, payMethod string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_price, status, payment_status, payment_method,
		       voucher_ref, version, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.TotalPrice, &status, &payStatus,
		&payMethod, &order.VoucherRef, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	order.PaymentStatus = domain.PaymentStatus(payStatus)
	order.PaymentMethod = domain.PaymentMethod(payMethod)

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) Save(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    payment_status = $2,
		    total_price = $3,
		    voucher_ref = $4,
		    version = version + 1,
		    updated_at = $5
		WHERE id = $6
		  AND version = $7
	`,
		string(order.Status),
		string(order.PaymentStatus),
		order.TotalPrice,
		order.VoucherRef,
		order.UpdatedAt,
		order.ID,
		order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.orderExists(ctx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

// CountActiveByProducts считает заказы в активных статусах, содержащие
// любой из товаров. Ссылки разворачиваются в обе формы хранения.
func (r *orderRepository) CountActiveByProducts(productIDs []string, active []domain.OrderStatus) (int, error) {
	if len(productIDs) == 0 || len(active) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefFormsAll(productIDs)
	statuses := statusStrings(active)

	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT o.id)
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.status IN (%s)
		  AND i.product_ref IN (%s)
	`, placeholders(1, len(statuses)), placeholders(1+len(statuses), len(forms)))

	args := append(toArgs(statuses), toArgs(forms)...)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active orders by products: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CountActiveByVoucher(voucherID string, active []domain.OrderStatus) (int, error) {
	if len(active) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefForms(voucherID)
	statuses := statusStrings(active)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM orders
		WHERE status IN (%s)
		  AND voucher_ref IN (%s)
	`, placeholders(1, len(statuses)), placeholders(1+len(statuses), len(forms)))

	args := append(toArgs(statuses), toArgs(forms)...)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active orders by voucher: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CountActiveByCustomer(customerID string, active []domain.OrderStatus) (int, error) {
	if len(active) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	statuses := statusStrings(active)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM orders
		WHERE customer_id = $1
		  AND status IN (%s)
	`, placeholders(2, len(statuses)))

	args := append([]any{customerID}, toArgs(statuses)...)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active orders by customer: %w", err)
	}
	return count, nil
}

func (r *orderRepository) ListIDsByProducts(productIDs []string) ([]string, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefFormsAll(productIDs)
	query := fmt.Sprintf(`
		SELECT DISTINCT order_id
		FROM order_items
		WHERE product_ref IN (%s)
	`, placeholders(1, len(forms)))

	rows, err := r.db.QueryContext(ctx, query, toArgs(forms)...)
	if err != nil {
		return nil, fmt.Errorf("list order ids by products: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order ids: %w", err)
	}

	return ids, nil
}

func (r *orderRepository) Stats() (domain.OrderStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	stats := domain.OrderStats{ByStatus: make(map[domain.OrderStatus]int)}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("aggregate orders by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
			total  int64
		)
		if err := rows.Scan(&status, &count, &total); err != nil {
			return domain.OrderStats{}, fmt.Errorf("scan status aggregate: %w", err)
		}
		st := domain.OrderStatus(status)
		stats.ByStatus[st] = count
		stats.TotalOrders += count
		stats.TotalRevenue += total
		if st == domain.OrderStatusPending {
			stats.PendingRevenue += total
		}
	}
	if err := rows.Err(); err != nil {
		return domain.OrderStats{}, fmt.Errorf("iterate status aggregates: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE payment_status = $1
	`, string(domain.PaymentStatusPaid)).Scan(&stats.ConfirmedRevenue); err != nil {
		return domain.OrderStats{}, fmt.Errorf("aggregate confirmed revenue: %w", err)
	}

	return stats, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_ref, quantity, price, original_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductRef, &item.Quantity, &item.Price, &item.OriginalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExists(ctx context.Context, orderID string) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

var _ domain.OrderRepository = (*orderRepository)(nil)
