package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/catalog/model"
)

// ServiceInterface is the catalog API used by handlers and by the design domain.
type ServiceInterface interface {
	// LoadCatalog returns the charm-capable base items and every charm.
	LoadCatalog(ctx context.Context) (*model.BuilderCatalog, error)

	ListItems(ctx context.Context, filter model.ItemFilter) ([]model.BaseItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.BaseItem, error)
	ListCharms(ctx context.Context) ([]model.Charm, error)
	GetCharm(ctx context.Context, id uuid.UUID) (*model.Charm, error)
	// CharmPrices returns the price of every known charm in ids; unknown ids are absent.
	CharmPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	ListTypes(ctx context.Context) ([]model.JewelryType, error)

	CreateItem(ctx context.Context, req model.ItemRequest) (*model.BaseItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req model.ItemRequest) (*model.BaseItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	CreateCharm(ctx context.Context, req model.CharmRequest) (*model.Charm, error)
	UpdateCharm(ctx context.Context, id uuid.UUID, req model.CharmRequest) (*model.Charm, error)
	DeleteCharm(ctx context.Context, id uuid.UUID) error
	CreateType(ctx context.Context, req model.TypeRequest) (*model.JewelryType, error)
	UpdateType(ctx context.Context, id uuid.UUID, req model.TypeRequest) (*model.JewelryType, error)
	DeleteType(ctx context.Context, id uuid.UUID) error
}
