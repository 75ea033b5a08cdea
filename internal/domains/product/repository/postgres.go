package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"sunkissed-backend/internal/domains/product/model"
	"sunkissed-backend/internal/infrastructure/database"
	"sunkissed-backend/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// ============================================
// CATEGORIES
// ============================================

const categoryColumns = `
	c.id, c.name, c.slug, c.description, c.image, c.sort_order,
	(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id),
	c.created_at, c.updated_at`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.SortOrder,
		&c.ProductCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories c ORDER BY c.sort_order, c.name`, categoryColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return categories, nil
}

func (r *postgresRepository) getCategoryWhere(ctx context.Context, where string, arg interface{}) (*model.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories c WHERE %s`, categoryColumns, where)
	c, err := scanCategory(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return r.getCategoryWhere(ctx, "c.id = $1", id)
}

func (r *postgresRepository) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getCategoryWhere(ctx, "c.slug = $1", slug)
}

func (r *postgresRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, image, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, c.Name, c.Slug, c.Description, c.Image, c.SortOrder).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapWriteError("create category", err)
}

func (r *postgresRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, image = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.Image, c.SortOrder).
		Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrCategoryNotFound
	}
	return mapWriteError("update category", err)
}

func (r *postgresRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return model.ErrCategoryInUse
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

// ============================================
// PRODUCTS
// ============================================

const productColumns = `
	p.id, p.name, p.slug, p.description, p.price, p.compare_at, p.images,
	p.category_id, c.name, c.slug, p.featured, p.in_stock, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p      model.Product
		images pq.StringArray
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CompareAt, &images,
		&p.CategoryID, &p.CategoryName, &p.CategorySlug, &p.Featured, &p.InStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Images = []string(images)
	return &p, nil
}

func (r *postgresRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}

func (r *postgresRepository) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if filter.FeaturedOnly {
		conditions = append(conditions, "p.featured = TRUE")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	from := `FROM products p JOIN categories c ON c.id = p.category_id ` + where

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s %s ORDER BY p.featured DESC, p.created_at DESC LIMIT $%d OFFSET $%d`,
		productColumns, from, len(args)-1, len(args))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *postgresRepository) getProductWhere(ctx context.Context, where string, arg interface{}) (*model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE %s
	`, productColumns, where)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getProductWhere(ctx, "p.id = $1", id)
}

func (r *postgresRepository) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getProductWhere(ctx, "p.slug = $1", slug)
}

func (r *postgresRepository) SearchProducts(ctx context.Context, term string, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.name ILIKE $1 OR p.description ILIKE $1 OR c.name ILIKE $1
		ORDER BY (p.name ILIKE $1) DESC, p.featured DESC, p.name
		LIMIT $2
	`, productColumns)

	return r.queryProducts(ctx, query, utils.ContainsPattern(term), limit)
}

func (r *postgresRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (
			name, slug, description, price, compare_at, images, category_id, featured, in_stock
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.CompareAt, imagesArray(p.Images), p.CategoryID, p.Featured, p.InStock,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapWriteError("create product", err)
}

func (r *postgresRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, compare_at = $6, images = $7,
		    category_id = $8, featured = $9, in_stock = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.CompareAt, imagesArray(p.Images),
		p.CategoryID, p.Featured, p.InStock,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrProductNotFound
	}
	return mapWriteError("update product", err)
}

func (r *postgresRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// ============================================
// HELPERS
// ============================================

var slugTables = map[string]bool{"categories": true, "products": true}

func (r *postgresRepository) UniqueSlug(ctx context.Context, table, base string, exclude uuid.UUID) (string, error) {
	if !slugTables[table] {
		return "", fmt.Errorf("unknown slug table %q", table)
	}

	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)`, table)
	slug := base
	for i := 2; i < 100; i++ {
		var exists bool
		if err := r.pool.QueryRow(ctx, query, slug, exclude).Scan(&exists); err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", model.ErrSlugExists
}

// imagesArray never sends NULL for the NOT NULL images column.
func imagesArray(images []string) pq.StringArray {
	if images == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(images)
}

func mapWriteError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, ""):
		return model.ErrSlugExists
	case database.IsForeignKeyViolation(err):
		return model.ErrCategoryNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
