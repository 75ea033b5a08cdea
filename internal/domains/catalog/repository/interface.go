package repository

import (
	"context"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/catalog/model"
)

// Repository is the data access contract for jewelry types, base items and charms.
type Repository interface {
	ListItems(ctx context.Context, filter model.ItemFilter) ([]model.BaseItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.BaseItem, error)
	CreateItem(ctx context.Context, item *model.BaseItem) error
	UpdateItem(ctx context.Context, item *model.BaseItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ListCharms(ctx context.Context) ([]model.Charm, error)
	GetCharm(ctx context.Context, id uuid.UUID) (*model.Charm, error)
	GetCharmsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Charm, error)
	CreateCharm(ctx context.Context, charm *model.Charm) error
	UpdateCharm(ctx context.Context, charm *model.Charm) error
	DeleteCharm(ctx context.Context, id uuid.UUID) error

	ListTypes(ctx context.Context) ([]model.JewelryType, error)
	GetType(ctx context.Context, id uuid.UUID) (*model.JewelryType, error)
	CreateType(ctx context.Context, t *model.JewelryType) error
	UpdateType(ctx context.Context, t *model.JewelryType) error
	DeleteType(ctx context.Context, id uuid.UUID) error

	// UniqueSlug returns base, or base with a numeric suffix, unused in table.
	UniqueSlug(ctx context.Context, table, base string, exclude uuid.UUID) (string, error)
}
