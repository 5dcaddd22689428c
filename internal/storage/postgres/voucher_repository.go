package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type voucherRepository struct {
	db *sql.DB
}

// NewVoucherRepository создаёт PostgreSQL-реализацию VoucherRepository.
func NewVoucherRepository(store *Store) domain.VoucherRepository {
	return &voucherRepository{db: store.DB()}
}

func (r *voucherRepository) Create(v domain.Voucher) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vouchers (
			id, code, description, discount_type, discount_value,
			start_date, end_date, max_issued, claims_count, uses_count,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		v.ID, v.Code, v.Description, string(v.DiscountType), v.DiscountValue,
		v.StartDate, v.EndDate, v.MaxIssued, v.ClaimsCount, v.UsesCount,
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

func (r *voucherRepository) Get(id string) (domain.Voucher, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	v, err := scanVoucher(r.db.QueryRowContext(ctx, `
		SELECT id, code, description, discount_type, discount_value,
		       start_date, end_date, max_issued, claims_count, uses_count,
		       created_at, updated_at
		FROM vouchers
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Voucher{}, domain.ErrVoucherNotFound
		}
		return domain.Voucher{}, fmt.Errorf("select voucher: %w", err)
	}
	return v, nil
}

func (r *voucherRepository) Save(v domain.Voucher) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE vouchers
		SET description = $1,
		    discount_type = $2,
		    discount_value = $3,
		    start_date = $4,
		    end_date = $5,
		    max_issued = $6,
		    claims_count = $7,
		    uses_count = $8,
		    updated_at = $9
		WHERE id = $10
	`,
		v.Description, string(v.DiscountType), v.DiscountValue,
		v.StartDate, v.EndDate, v.MaxIssued, v.ClaimsCount, v.UsesCount,
		v.UpdatedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update voucher: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrVoucherNotFound
	}
	return nil
}

func (r *voucherRepository) List() ([]domain.Voucher, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, description, discount_type, discount_value,
		       start_date, end_date, max_issued, claims_count, uses_count,
		       created_at, updated_at
		FROM vouchers
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var result []domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vouchers: %w", err)
	}
	return result, nil
}

func (r *voucherRepository) Delete(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete voucher: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoucher(row rowScanner) (domain.Voucher, error) {
	var (
		v            domain.Voucher
		discountType string
	)
	err := row.Scan(
		&v.ID, &v.Code, &v.Description, &discountType, &v.DiscountValue,
		&v.StartDate, &v.EndDate, &v.MaxIssued, &v.ClaimsCount, &v.UsesCount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return domain.Voucher{}, err
	}
	v.DiscountType = domain.DiscountType(discountType)
	return v, nil
}

var _ domain.VoucherRepository = (*voucherRepository)(nil)

type voucherClaimRepository struct {
	db *sql.DB
}

// NewVoucherClaimRepository создаёт PostgreSQL-журнал выдач ваучеров.
func NewVoucherClaimRepository(store *Store) domain.VoucherClaimRepository {
	return &voucherClaimRepository{db: store.DB()}
}

func (r *voucherClaimRepository) Append(claim domain.VoucherClaim) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO voucher_claims (id, voucher_ref, user_id, is_used, claimed_at)
		VALUES ($1,$2,$3,$4,$5)
	`, claim.ID, claim.VoucherRef, claim.UserID, claim.IsUsed, claim.ClaimedAt)
	if err != nil {
		return fmt.Errorf("insert voucher claim: %w", err)
	}
	return nil
}

func (r *voucherClaimRepository) CountByVoucher(voucherID string) (int, error) {
	return r.countClaims(voucherID, false)
}

func (r *voucherClaimRepository) CountUsedByVoucher(voucherID string) (int, error) {
	return r.countClaims(voucherID, true)
}

func (r *voucherClaimRepository) countClaims(voucherID string, usedOnly bool) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefForms(voucherID)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM voucher_claims
		WHERE voucher_ref IN (%s)
	`, placeholders(1, len(forms)))
	if usedOnly {
		query += " AND is_used"
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, toArgs(forms)...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count voucher claims: %w", err)
	}
	return count, nil
}

func (r *voucherClaimRepository) DeleteByVoucher(voucherID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefForms(voucherID)
	query := fmt.Sprintf(`DELETE FROM voucher_claims WHERE voucher_ref IN (%s)`, placeholders(1, len(forms)))
	res, err := r.db.ExecContext(ctx, query, toArgs(forms)...)
	if err != nil {
		return 0, fmt.Errorf("delete voucher claims: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.VoucherClaimRepository = (*voucherClaimRepository)(nil)
