package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(p domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal product images: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price, stock, sold_count, discount_percentage,
			category_ref, brand_ref, images, is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.SoldCount,
		p.DiscountPercentage, p.CategoryRef, p.BrandRef, images, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		p      domain.Product
		images []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, stock, sold_count, discount_percentage,
		       category_ref, brand_ref, images, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.SoldCount,
		&p.DiscountPercentage, &p.CategoryRef, &p.BrandRef, &images, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return domain.Product{}, fmt.Errorf("unmarshal product images: %w", err)
		}
	}
	return p, nil
}

func (r *productRepository) Delete(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *productRepository) DeleteMany(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM products WHERE id IN (%s)`, placeholders(1, len(ids)))
	res, err := r.db.ExecContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// CountByCategories считает товары на категорию. Ссылки в строках таблицы
// могут быть в любой форме, поэтому нормализация выполняется на стороне Go,
// а выборка идёт по развёрнутому списку форм.
func (r *productRepository) CountByCategories(categoryIDs []string) (map[string]int, error) {
	return r.countByRef("category_ref", categoryIDs)
}

// CountByBrands — аналогично для брендов.
func (r *productRepository) CountByBrands(brandIDs []string) (map[string]int, error) {
	return r.countByRef("brand_ref", brandIDs)
}

func (r *productRepository) countByRef(column string, ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return map[string]int{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	forms := domain.RefFormsAll(ids)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM products
		WHERE %s IN (%s)
		GROUP BY %s
	`, column, column, placeholders(1, len(forms)), column)

	rows, err := r.db.QueryContext(ctx, query, toArgs(forms)...)
	if err != nil {
		return nil, fmt.Errorf("count products by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			ref   string
			count int
		)
		if err := rows.Scan(&ref, &count); err != nil {
			return nil, fmt.Errorf("scan product count: %w", err)
		}
		counts[domain.NormalizeRef(ref)] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product counts: %w", err)
	}
	return counts, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository создаёт PostgreSQL-реализацию CategoryRepository.
func NewCategoryRepository(store *Store) domain.CategoryRepository {
	return &categoryRepository{db: store.DB()}
}

func (r *categoryRepository) Create(c domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Get(id string) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) GetMany(ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE id IN (%s)
		ORDER BY name
	`, placeholders(1, len(ids)))

	rows, err := r.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return result, nil
}

func (r *categoryRepository) Delete(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *categoryRepository) DeleteMany(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM categories WHERE id IN (%s)`, placeholders(1, len(ids)))
	res, err := r.db.ExecContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)

type brandRepository struct {
	db *sql.DB
}

// NewBrandRepository создаёт PostgreSQL-реализацию BrandRepository.
func NewBrandRepository(store *Store) domain.BrandRepository {
	return &brandRepository{db: store.DB()}
}

func (r *brandRepository) Create(b domain.Brand) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO brands (id, name, description, logo, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, b.ID, b.Name, b.Description, b.Logo, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *brandRepository) Get(id string) (domain.Brand, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var b domain.Brand
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, logo, created_at, updated_at
		FROM brands
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.Description, &b.Logo, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Brand{}, domain.ErrBrandNotFound
		}
		return domain.Brand{}, fmt.Errorf("select brand: %w", err)
	}
	return b, nil
}

func (r *brandRepository) GetMany(ids []string) ([]domain.Brand, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, name, description, logo, created_at, updated_at
		FROM brands
		WHERE id IN (%s)
		ORDER BY name
	`, placeholders(1, len(ids)))

	rows, err := r.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("select brands: %w", err)
	}
	defer rows.Close()

	var result []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Logo, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}
	return result, nil
}

func (r *brandRepository) Delete(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete brand: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *brandRepository) DeleteMany(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM brands WHERE id IN (%s)`, placeholders(1, len(ids)))
	res, err := r.db.ExecContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete brands: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.BrandRepository = (*brandRepository)(nil)
