package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// ============================================
// JEWELRY ITEMS
// ============================================

const itemColumns = `
	i.id, i.name, i.slug, i.description, i.price, i.compare_at, i.image,
	i.material, i.length, i.type_id, t.name, i.supports_charms, i.slot_count,
	i.in_stock, i.featured, i.created_at, i.updated_at`

func scanItem(row pgx.Row) (*model.BaseItem, error) {
	var item model.BaseItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Slug, &item.Description, &item.Price, &item.CompareAt, &item.Image,
		&item.Material, &item.Length, &item.TypeID, &item.TypeName, &item.SupportsCharms, &item.SlotCount,
		&item.InStock, &item.Featured, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := item.WithSlots(); err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	return &item, nil
}

func (r *postgresRepository) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.BaseItem, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.CharmsOnly {
		conditions = append(conditions, "i.supports_charms = TRUE")
	}
	if filter.TypeID != nil {
		args = append(args, *filter.TypeID)
		conditions = append(conditions, fmt.Sprintf("i.type_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM jewelry_items i
		JOIN jewelry_types t ON t.id = i.type_id
		%s
		ORDER BY i.featured DESC, i.created_at DESC
	`, itemColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jewelry items: %w", err)
	}
	defer rows.Close()

	items := make([]model.BaseItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan jewelry item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func (r *postgresRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.BaseItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM jewelry_items i
		JOIN jewelry_types t ON t.id = i.type_id
		WHERE i.id = $1
	`, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get jewelry item: %w", err)
	}
	return item, nil
}

func (r *postgresRepository) CreateItem(ctx context.Context, item *model.BaseItem) error {
	query := `
		INSERT INTO jewelry_items (
			name, slug, description, price, compare_at, image, material, length,
			type_id, supports_charms, slot_count, in_stock, featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		item.Name, item.Slug, item.Description, item.Price, item.CompareAt, item.Image, item.Material, item.Length,
		item.TypeID, item.SupportsCharms, item.SlotCount, item.InStock, item.Featured,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return mapWriteError("create jewelry item", err)
}

func (r *postgresRepository) UpdateItem(ctx context.Context, item *model.BaseItem) error {
	query := `
		UPDATE jewelry_items
		SET name = $2, slug = $3, description = $4, price = $5, compare_at = $6, image = $7,
		    material = $8, length = $9, type_id = $10, supports_charms = $11, slot_count = $12,
		    in_stock = $13, featured = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		item.ID, item.Name, item.Slug, item.Description, item.Price, item.CompareAt, item.Image,
		item.Material, item.Length, item.TypeID, item.SupportsCharms, item.SlotCount,
		item.InStock, item.Featured,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrItemNotFound
	}
	return mapWriteError("update jewelry item", err)
}

func (r *postgresRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "jewelry_items", id, model.ErrItemNotFound)
}

// ============================================
// CHARMS
// ============================================

const charmColumns = `
	id, name, slug, description, price, image, category, material,
	in_stock, featured, created_at, updated_at`

func scanCharm(row pgx.Row) (*model.Charm, error) {
	var charm model.Charm
	err := row.Scan(
		&charm.ID, &charm.Name, &charm.Slug, &charm.Description, &charm.Price, &charm.Image, &charm.Category, &charm.Material,
		&charm.InStock, &charm.Featured, &charm.CreatedAt, &charm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &charm, nil
}

func (r *postgresRepository) queryCharms(ctx context.Context, query string, args ...interface{}) ([]model.Charm, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list charms: %w", err)
	}
	defer rows.Close()

	charms := make([]model.Charm, 0)
	for rows.Next() {
		charm, err := scanCharm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan charm: %w", err)
		}
		charms = append(charms, *charm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return charms, nil
}

func (r *postgresRepository) ListCharms(ctx context.Context) ([]model.Charm, error) {
	return r.queryCharms(ctx, `
		SELECT `+charmColumns+`
		FROM charms
		ORDER BY featured DESC, category NULLS LAST, name
	`)
}

func (r *postgresRepository) GetCharmsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Charm, error) {
	if len(ids) == 0 {
		return []model.Charm{}, nil
	}
	return r.queryCharms(ctx, `
		SELECT `+charmColumns+`
		FROM charms
		WHERE id = ANY($1)
	`, ids)
}

func (r *postgresRepository) GetCharm(ctx context.Context, id uuid.UUID) (*model.Charm, error) {
	charm, err := scanCharm(r.pool.QueryRow(ctx, `SELECT `+charmColumns+` FROM charms WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCharmNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get charm: %w", err)
	}
	return charm, nil
}

func (r *postgresRepository) CreateCharm(ctx context.Context, charm *model.Charm) error {
	query := `
		INSERT INTO charms (name, slug, description, price, image, category, material, in_stock, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		charm.Name, charm.Slug, charm.Description, charm.Price, charm.Image, charm.Category, charm.Material,
		charm.InStock, charm.Featured,
	).Scan(&charm.ID, &charm.CreatedAt, &charm.UpdatedAt)
	return mapWriteError("create charm", err)
}

func (r *postgresRepository) UpdateCharm(ctx context.Context, charm *model.Charm) error {
	query := `
		UPDATE charms
		SET name = $2, slug = $3, description = $4, price = $5, image = $6, category = $7,
		    material = $8, in_stock = $9, featured = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		charm.ID, charm.Name, charm.Slug, charm.Description, charm.Price, charm.Image, charm.Category,
		charm.Material, charm.InStock, charm.Featured,
	).Scan(&charm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrCharmNotFound
	}
	return mapWriteError("update charm", err)
}

func (r *postgresRepository) DeleteCharm(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "charms", id, model.ErrCharmNotFound)
}

// ============================================
// JEWELRY TYPES
// ============================================

const typeColumns = `
	t.id, t.name, t.slug, t.description, t.image, t.supports_charms, t.max_charm_slots,
	(SELECT COUNT(*) FROM jewelry_items i WHERE i.type_id = t.id), t.created_at, t.updated_at`

func scanType(row pgx.Row) (*model.JewelryType, error) {
	var t model.JewelryType
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Image, &t.SupportsCharms, &t.MaxCharmSlots,
		&t.ItemCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) ListTypes(ctx context.Context) ([]model.JewelryType, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+typeColumns+` FROM jewelry_types t ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list jewelry types: %w", err)
	}
	defer rows.Close()

	types := make([]model.JewelryType, 0)
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan jewelry type: %w", err)
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

func (r *postgresRepository) GetType(ctx context.Context, id uuid.UUID) (*model.JewelryType, error) {
	t, err := scanType(r.pool.QueryRow(ctx, `SELECT `+typeColumns+` FROM jewelry_types t WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get jewelry type: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) CreateType(ctx context.Context, t *model.JewelryType) error {
	query := `
		INSERT INTO jewelry_types (name, slug, description, image, supports_charms, max_charm_slots)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		t.Name, t.Slug, t.Description, t.Image, t.SupportsCharms, t.MaxCharmSlots,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return mapWriteError("create jewelry type", err)
}

func (r *postgresRepository) UpdateType(ctx context.Context, t *model.JewelryType) error {
	query := `
		UPDATE jewelry_types
		SET name = $2, slug = $3, description = $4, image = $5, supports_charms = $6,
		    max_charm_slots = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Slug, t.Description, t.Image, t.SupportsCharms, t.MaxCharmSlots,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrTypeNotFound
	}
	return mapWriteError("update jewelry type", err)
}

func (r *postgresRepository) DeleteType(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "jewelry_types", id, model.ErrTypeNotFound)
}

// ============================================
// HELPERS
// ============================================

var slugTables = map[string]bool{"jewelry_items": true, "charms": true, "jewelry_types": true}

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

func (r *postgresRepository) deleteByID(ctx context.Context, table string, id uuid.UUID, notFound error) error {
	if !slugTables[table] {
		return fmt.Errorf("unknown table %q", table)
	}

	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if database.IsForeignKeyViolation(err) {
		return model.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, ""):
		return model.ErrSlugExists
	case database.IsForeignKeyViolation(err):
		return model.ErrTypeNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
