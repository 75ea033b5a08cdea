package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunkissed-backend/internal/domains/admin/model"
	"sunkissed-backend/internal/infrastructure/database"
)

const emailConstraint = "admins_email_key"

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
	Count(ctx context.Context) (int, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const adminColumns = `id, email, password_hash, name, last_login_at, created_at`

func (r *postgresRepository) findOne(ctx context.Context, where string, arg interface{}) (*model.Admin, error) {
	var a model.Admin
	err := r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE `+where, arg).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.LastLoginAt, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.findOne(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *postgresRepository) Create(ctx context.Context, admin *model.Admin) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admins (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, admin.Email, admin.PasswordHash, admin.Name).Scan(&admin.ID, &admin.CreatedAt)
	if database.IsUniqueViolation(err, emailConstraint) {
		return model.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}
