package builder

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/design/model"
)

// Total is the base price plus the price of every placed charm. A charm
// placed in several slots is charged once per slot. The result is rounded
// to cents.
func Total(base decimal.Decimal, placements []model.Placement, charmPrices map[uuid.UUID]decimal.Decimal) (decimal.Decimal, error) {
	total := base
	for _, pl := range placements {
		price, ok := charmPrices[pl.CharmID]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", model.ErrUnknownCharm, pl.CharmID)
		}
		total = total.Add(price)
	}
	return total.Round(2), nil
}
