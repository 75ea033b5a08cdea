package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunkissed-backend/internal/domains/media/model"
)

type Repository interface {
	Create(ctx context.Context, upload *model.Upload) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Upload, error)
	MarkReady(ctx context.Context, id uuid.UUID, variants map[string]string) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, u *model.Upload) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO uploads (id, object_key, url, content_type, size_bytes, width, height, status, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, u.ID, u.ObjectKey, u.URL, u.ContentType, u.SizeBytes, u.Width, u.Height, u.Status, u.UploadedBy,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Upload, error) {
	var (
		u        model.Upload
		variants []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, object_key, url, content_type, size_bytes, width, height, variants,
		       status, uploaded_by, created_at, updated_at
		FROM uploads WHERE id = $1
	`, id).Scan(&u.ID, &u.ObjectKey, &u.URL, &u.ContentType, &u.SizeBytes, &u.Width, &u.Height, &variants,
		&u.Status, &u.UploadedBy, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUploadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}
	if err := json.Unmarshal(variants, &u.Variants); err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) MarkReady(ctx context.Context, id uuid.UUID, variants map[string]string) error {
	data, err := json.Marshal(variants)
	if err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}
	return r.execOne(ctx, `UPDATE uploads SET status = 'ready', variants = $2, updated_at = NOW() WHERE id = $1`, id, data)
}

func (r *postgresRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, `UPDATE uploads SET status = 'failed', updated_at = NOW() WHERE id = $1`, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, `DELETE FROM uploads WHERE id = $1`, id)
}

func (r *postgresRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUploadNotFound
	}
	return nil
}
