package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/domains/design/model"
)

// CatalogReader is the part of the catalog the design domain needs to
// resolve item and charm references. Implemented by the catalog service.
type CatalogReader interface {
	GetItem(ctx context.Context, id uuid.UUID) (*catalogmodel.BaseItem, error)
	CharmPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

type ServiceInterface interface {
	// ShareDesign validates and prices the input against the catalog and
	// persists it as a new design with a fresh share code.
	ShareDesign(ctx context.Context, in model.ShareDesignInput) (*model.Design, error)
	// LoadDesign looks up a design by share code. A missing design is
	// reported as found == false with a nil error.
	LoadDesign(ctx context.Context, code string) (design *model.Design, found bool, err error)

	RecordView(ctx context.Context, code string)
	IncrementViews(ctx context.Context, code string) error
	ToggleLike(ctx context.Context, code, userID string) (*model.LikeResponse, error)
	RecordPurchase(ctx context.Context, code string) (int, error)
	DeleteDesign(ctx context.Context, code string, ownerID *string) error

	ListPublic(ctx context.Context, q model.ListDesignsQuery) ([]model.Design, int, error)
	ListMine(ctx context.Context, userID string, q model.ListDesignsQuery) ([]model.Design, int, error)
	ListAll(ctx context.Context, q model.ListDesignsQuery) ([]model.Design, int, error)
	Trending(ctx context.Context) ([]model.Design, error)
	RefreshTrending(ctx context.Context) ([]model.Design, error)

	ExportDesigns(ctx context.Context) ([]byte, error)
}
