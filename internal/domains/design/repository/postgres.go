package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/infrastructure/database"
	pkgdb "sunkissed-backend/pkg/database"
)

const shareCodeConstraint = "designs_share_code_key"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const designColumns = `
	d.id, d.share_code, d.user_id, d.jewelry_item_id, d.slot_count, d.placements,
	d.name, d.tags, d.total_price, d.is_public, d.views, d.likes, d.purchase_count,
	d.created_at, i.name, i.image, NULLIF(p.name, '')`

const designFrom = `
	FROM designs d
	JOIN jewelry_items i ON i.id = d.jewelry_item_id
	LEFT JOIN profiles p ON p.user_id = d.user_id`

func scanDesign(row pgx.Row) (*model.Design, error) {
	var (
		d          model.Design
		placements []byte
		tags       []string
	)
	err := row.Scan(
		&d.ID, &d.ShareCode, &d.UserID, &d.JewelryItemID, &d.SlotCount, &placements,
		&d.Name, &tags, &d.TotalPrice, &d.IsPublic, &d.Views, &d.Likes, &d.PurchaseCount,
		&d.CreatedAt, &d.JewelryItemName, &d.JewelryItemImage, &d.CreatorName,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(placements, &d.Placements); err != nil {
		return nil, fmt.Errorf("decode placements: %w", err)
	}
	if d.Placements == nil {
		d.Placements = []model.Placement{}
	}
	d.Tags = append([]string{}, tags...)
	return &d, nil
}

// =====================================================
// SHARE / LOAD
// =====================================================

func (r *postgresRepository) ExistsByShareCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM designs WHERE share_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check share code: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, design *model.Design) error {
	placements, err := json.Marshal(design.Placements)
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}
	// pq.Array renders the TEXT[] literal; nil becomes '{}' rather than NULL.
	tags := pq.StringArray(design.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}

	query := `
		INSERT INTO designs (
			share_code, user_id, jewelry_item_id, slot_count, placements,
			name, tags, total_price, is_public
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query,
		design.ShareCode, design.UserID, design.JewelryItemID, design.SlotCount, placements,
		design.Name, tags, design.TotalPrice, design.IsPublic,
	).Scan(&design.ID, &design.CreatedAt)

	if database.IsUniqueViolation(err, shareCodeConstraint) {
		return model.ErrShareCodeTaken
	}
	if database.IsForeignKeyViolation(err) {
		return model.ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByShareCode(ctx context.Context, code string) (*model.Design, error) {
	query := `SELECT ` + designColumns + designFrom + ` WHERE d.share_code = $1`

	design, err := scanDesign(r.pool.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDesignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find design: %w", err)
	}
	return design, nil
}

// =====================================================
// LISTINGS
// =====================================================

func (r *postgresRepository) list(ctx context.Context, where string, limit, offset int, args ...interface{}) ([]model.Design, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM designs d ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count designs: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`,
		designColumns, designFrom, where, n+1, n+2)
	args = append(args, limit, offset)

	designs, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return designs, total, nil
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Design, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := make([]model.Design, 0)
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return designs, nil
}

func (r *postgresRepository) ListPublic(ctx context.Context, limit, offset int) ([]model.Design, int, error) {
	return r.list(ctx, `WHERE d.is_public`, limit, offset)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Design, int, error) {
	return r.list(ctx, `WHERE d.user_id = $1`, limit, offset, userID)
}

func (r *postgresRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Design, int, error) {
	return r.list(ctx, ``, limit, offset)
}

func (r *postgresRepository) ListTrending(ctx context.Context, since time.Time, limit int) ([]model.Design, error) {
	query := `SELECT ` + designColumns + designFrom + `
		WHERE d.is_public AND d.created_at >= $1
		ORDER BY (d.likes * 3 + d.views + d.purchase_count * 5) DESC, d.created_at DESC
		LIMIT $2`
	return r.query(ctx, query, since, limit)
}

// =====================================================
// COUNTERS
// =====================================================

func (r *postgresRepository) IncrementViews(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE designs SET views = views + 1 WHERE share_code = $1`, code)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDesignNotFound
	}
	return nil
}

func (r *postgresRepository) IncrementPurchases(ctx context.Context, code string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`UPDATE designs SET purchase_count = purchase_count + 1 WHERE share_code = $1 RETURNING purchase_count`,
		code,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrDesignNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment purchases: %w", err)
	}
	return count, nil
}

// ToggleLike adds the like when absent and removes it otherwise, keeping the
// denormalized likes counter in step within one transaction.
func (r *postgresRepository) ToggleLike(ctx context.Context, designID uuid.UUID, userID string) (bool, int, error) {
	var (
		liked bool
		likes int
	)
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM design_likes WHERE design_id = $1 AND user_id = $2`, designID, userID)
		if err != nil {
			return fmt.Errorf("remove like: %w", err)
		}

		delta := -1
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO design_likes (design_id, user_id) VALUES ($1, $2)`, designID, userID); err != nil {
				return fmt.Errorf("add like: %w", err)
			}
			delta = 1
			liked = true
		}

		err = tx.QueryRow(ctx,
			`UPDATE designs SET likes = GREATEST(likes + $2, 0) WHERE id = $1 RETURNING likes`,
			designID, delta,
		).Scan(&likes)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrDesignNotFound
		}
		return err
	})
	if database.IsForeignKeyViolation(err) {
		return false, 0, model.ErrDesignNotFound
	}
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

func (r *postgresRepository) Delete(ctx context.Context, code string, ownerID *string) error {
	query := `DELETE FROM designs WHERE share_code = $1`
	args := []interface{}{code}
	if ownerID != nil {
		query += ` AND user_id = $2`
		args = append(args, *ownerID)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDesignNotFound
	}
	return nil
}
