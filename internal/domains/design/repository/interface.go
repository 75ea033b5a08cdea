package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/design/model"
)

type Repository interface {
	ExistsByShareCode(ctx context.Context, code string) (bool, error)
	// Create inserts a new design. A share code collision surfaces as
	// model.ErrShareCodeTaken so the caller can regenerate.
	Create(ctx context.Context, design *model.Design) error
	FindByShareCode(ctx context.Context, code string) (*model.Design, error)

	ListPublic(ctx context.Context, limit, offset int) ([]model.Design, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Design, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Design, int, error)
	ListTrending(ctx context.Context, since time.Time, limit int) ([]model.Design, error)

	IncrementViews(ctx context.Context, code string) error
	IncrementPurchases(ctx context.Context, code string) (int, error)
	ToggleLike(ctx context.Context, designID uuid.UUID, userID string) (liked bool, likes int, err error)

	// Delete removes a design. ownerID nil skips the ownership check (admin).
	Delete(ctx context.Context, code string, ownerID *string) error
}
