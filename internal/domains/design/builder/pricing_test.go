package builder

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/design/model"
)

func TestTotalSumsBaseAndCharms(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	prices := map[uuid.UUID]decimal.Decimal{
		a: decimal.RequireFromString("12.00"),
		b: decimal.RequireFromString("10.00"),
	}

	total, err := Total(decimal.RequireFromString("45.00"), []model.Placement{
		{SlotID: 1, CharmID: a},
		{SlotID: 2, CharmID: b},
	}, prices)

	require.NoError(t, err)
	assert.Equal(t, "67.00", total.StringFixed(2))
}

func TestTotalChargesRepeatedCharmPerSlot(t *testing.T) {
	a := uuid.New()
	prices := map[uuid.UUID]decimal.Decimal{a: decimal.RequireFromString("7.25")}

	total, err := Total(decimal.RequireFromString("20"), []model.Placement{
		{SlotID: 1, CharmID: a},
		{SlotID: 2, CharmID: a},
		{SlotID: 3, CharmID: a},
	}, prices)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("41.75")))
}

func TestTotalNoPlacements(t *testing.T) {
	total, err := Total(decimal.RequireFromString("45.5"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "45.50", total.StringFixed(2))
}

func TestTotalUnknownCharm(t *testing.T) {
	_, err := Total(decimal.Zero, []model.Placement{{SlotID: 1, CharmID: uuid.New()}}, map[uuid.UUID]decimal.Decimal{})
	assert.True(t, errors.Is(err, model.ErrUnknownCharm))
}
