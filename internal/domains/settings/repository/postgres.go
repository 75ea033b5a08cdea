package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunkissed-backend/internal/domains/settings/model"
)

type Repository interface {
	// Get returns nil, nil when the settings row has never been written.
	Get(ctx context.Context) (*model.Settings, error)
	Upsert(ctx context.Context, s *model.Settings) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Get(ctx context.Context) (*model.Settings, error) {
	query := `
		SELECT store_name, store_email, currency, shipping_fee, free_ship_min,
		       hero_title, hero_subtitle, footer_text, referral_percent, updated_at
		FROM settings
		WHERE id = $1
	`
	var s model.Settings
	err := r.pool.QueryRow(ctx, query, model.SingletonID).Scan(
		&s.StoreName, &s.StoreEmail, &s.Currency, &s.ShippingFee, &s.FreeShipMin,
		&s.HeroTitle, &s.HeroSubtitle, &s.FooterText, &s.ReferralPercent, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) Upsert(ctx context.Context, s *model.Settings) error {
	query := `
		INSERT INTO settings (
			id, store_name, store_email, currency, shipping_fee, free_ship_min,
			hero_title, hero_subtitle, footer_text, referral_percent, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			store_email = EXCLUDED.store_email,
			currency = EXCLUDED.currency,
			shipping_fee = EXCLUDED.shipping_fee,
			free_ship_min = EXCLUDED.free_ship_min,
			hero_title = EXCLUDED.hero_title,
			hero_subtitle = EXCLUDED.hero_subtitle,
			footer_text = EXCLUDED.footer_text,
			referral_percent = EXCLUDED.referral_percent,
			updated_at = NOW()
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		model.SingletonID, s.StoreName, s.StoreEmail, s.Currency, s.ShippingFee, s.FreeShipMin,
		s.HeroTitle, s.HeroSubtitle, s.FooterText, s.ReferralPercent,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
