package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sunkissed-backend/internal/domains/design/layout"
	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/shared"
	"sunkissed-backend/pkg/cache"
)

type designFixture struct {
	svc     *DesignService
	repo    *fakeDesignRepo
	catalog *fakeCatalog
	cache   *cache.MemoryCache
	queue   *mockEnqueuer
}

func newDesignFixture(t *testing.T) *designFixture {
	t.Helper()
	f := &designFixture{
		repo:    newFakeDesignRepo(),
		catalog: newFakeCatalog(),
		cache:   cache.NewMemoryCache(),
		queue:   &mockEnqueuer{},
	}
	f.svc = NewService(f.repo, f.catalog, f.cache, f.queue, Options{})
	return f
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *designFixture) necklaceInput() model.ShareDesignInput {
	item := f.catalog.addItem("Gold Chain", "45", 10, true)
	star := f.catalog.addCharm("12")
	moon := f.catalog.addCharm("10")
	return model.ShareDesignInput{
		JewelryItemID: item.ID,
		Placements: []model.Placement{
			{SlotID: 12, CharmID: moon},
			{SlotID: 1, CharmID: star},
		},
		Name:       "  Summer  ",
		Tags:       []string{"Beach", "#summer", "beach"},
		TotalPrice: dec("67.00"),
		IsPublic:   true,
	}
}

func TestShareDesignPersistsPricedDesign(t *testing.T) {
	f := newDesignFixture(t)
	in := f.necklaceInput()

	design, err := f.svc.ShareDesign(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, model.IsWellFormedShareCode(design.ShareCode))
	assert.Equal(t, "67", design.TotalPrice.String())
	assert.Equal(t, "Summer", design.Name)
	assert.Equal(t, []string{"beach", "summer"}, design.Tags)
	assert.Equal(t, 10, design.SlotCount)
	require.Len(t, design.Placements, 2)
	assert.Equal(t, 1, design.Placements[0].SlotID)
	assert.Equal(t, 12, design.Placements[1].SlotID)

	loaded, found, err := f.svc.LoadDesign(context.Background(), "  "+strings.ToLower(design.ShareCode))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, design.ID, loaded.ID)
}


func TestShareDesignTwiceCreatesTwoDesigns(t *testing.T) {
	f := newDesignFixture(t)
	in := f.necklaceInput()

	first, err := f.svc.ShareDesign(context.Background(), in)
	require.NoError(t, err)
	second, err := f.svc.ShareDesign(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.ShareCode, second.ShareCode)
	assert.Len(t, f.repo.designs, 2)
}

func TestShareDesignWithoutClientTotal(t *testing.T) {
	f := newDesignFixture(t)
	in := f.necklaceInput()
	in.TotalPrice = nil

	design, err := f.svc.ShareDesign(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, design.TotalPrice.Equal(decimal.NewFromInt(67)))
}

func TestShareDesignRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("price mismatch", func(t *testing.T) {
		f := newDesignFixture(t)
		in := f.necklaceInput()
		in.TotalPrice = dec("60")
		_, err := f.svc.ShareDesign(ctx, in)
		assert.ErrorIs(t, err, model.ErrPriceMismatch)
		assert.Empty(t, f.repo.designs)
	})

	t.Run("slot outside layout", func(t *testing.T) {
		f := newDesignFixture(t)
		in := f.necklaceInput()
		in.Placements = append(in.Placements, model.Placement{SlotID: 21, CharmID: in.Placements[0].CharmID})
		_, err := f.svc.ShareDesign(ctx, in)
		assert.ErrorIs(t, err, model.ErrInvalidSlot)
	})

	t.Run("unknown charm", func(t *testing.T) {
		f := newDesignFixture(t)
		in := f.necklaceInput()
		in.Placements[0].CharmID = [16]byte{1}
		in.TotalPrice = nil
		_, err := f.svc.ShareDesign(ctx, in)
		assert.ErrorIs(t, err, model.ErrUnknownCharm)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newDesignFixture(t)
		in := f.necklaceInput()
		in.JewelryItemID = [16]byte{2}
		_, err := f.svc.ShareDesign(ctx, in)
		assert.ErrorIs(t, err, model.ErrItemNotFound)
	})

	t.Run("item without charms", func(t *testing.T) {
		f := newDesignFixture(t)
		in := f.necklaceInput()
		in.JewelryItemID = f.catalog.addItem("Plain Ring", "30", 10, false).ID
		_, err := f.svc.ShareDesign(ctx, in)
		assert.ErrorIs(t, err, model.ErrItemNoCharms)
	})

	t.Run("too many tags", func(t *testing.T) {
		f := newDesignFixture(t)
		in := f.necklaceInput()
		in.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
		_, err := f.svc.ShareDesign(ctx, in)
		assert.ErrorIs(t, err, model.ErrTooManyTags)
	})
}

func TestShareDesignRegeneratesTakenCodes(t *testing.T) {
	f := newDesignFixture(t)
	f.repo.existing["AAAAAAAA"] = true
	f.svc.newCode = sequentialCodes("AAAAAAAA", "BBBBBBBB")

	design, err := f.svc.ShareDesign(context.Background(), f.necklaceInput())
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", design.ShareCode)
}

func TestShareDesignRetriesOnUniqueViolation(t *testing.T) {
	f := newDesignFixture(t)
	f.repo.createErr = []error{model.ErrShareCodeTaken}
	f.svc.newCode = sequentialCodes("CCCCCCCC", "DDDDDDDD")

	design, err := f.svc.ShareDesign(context.Background(), f.necklaceInput())
	require.NoError(t, err)
	assert.Equal(t, "DDDDDDDD", design.ShareCode)
}

func TestShareDesignUsesRequestedSlotCount(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()

	// slot 25 only exists once the 10-slot item is configured with 15 per side
	in := f.necklaceInput()
	in.TotalPrice = nil
	in.Placements = append(in.Placements, model.Placement{SlotID: 25, CharmID: in.Placements[0].CharmID})
	_, err := f.svc.ShareDesign(ctx, in)
	assert.ErrorIs(t, err, model.ErrInvalidSlot)

	in.SlotCount = 15
	design, err := f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 15, design.SlotCount)
	assert.Equal(t, 15, f.repo.designs[design.ShareCode].SlotCount)

	in.SlotCount = 3
	_, err = f.svc.ShareDesign(ctx, in)
	assert.ErrorIs(t, err, layout.ErrInvalidSlotCount)
}

func TestShareDesignGivesUpAfterAttempts(t *testing.T) {
	f := newDesignFixture(t)
	f.repo.existing["EEEEEEEE"] = true
	f.svc.newCode = sequentialCodes("EEEEEEEE")

	_, err := f.svc.ShareDesign(context.Background(), f.necklaceInput())
	assert.ErrorIs(t, err, model.ErrShareCodeExhausted)
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Empty(t, f.repo.designs)
}

func TestShareDesignStorageFailure(t *testing.T) {
	f := newDesignFixture(t)
	f.repo.createErr = []error{errors.New("connection reset")}

	_, err := f.svc.ShareDesign(context.Background(), f.necklaceInput())
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestLoadDesignNotFoundIsNotAnError(t *testing.T) {
	f := newDesignFixture(t)

	for _, code := range []string{"ZZZZZZZZ", "short", ""} {
		design, found, err := f.svc.LoadDesign(context.Background(), code)
		assert.NoError(t, err, code)
		assert.False(t, found, code)
		assert.Nil(t, design, code)
	}
}

func TestRecordViewEnqueuesTask(t *testing.T) {
	f := newDesignFixture(t)
	f.queue.On("Enqueue", shared.TypeRecordDesignView, `{"share_code":"ABCD1234"}`).Return(nil, nil).Once()

	f.svc.RecordView(context.Background(), "abcd1234")
	f.queue.AssertExpectations(t)
}

func TestRecordViewFallsBackInline(t *testing.T) {
	f := newDesignFixture(t)
	design, err := f.svc.ShareDesign(context.Background(), f.necklaceInput())
	require.NoError(t, err)

	f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	f.svc.RecordView(context.Background(), design.ShareCode)

	assert.Equal(t, 1, f.repo.designs[design.ShareCode].Views)
}

func TestToggleLike(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	design, err := f.svc.ShareDesign(ctx, f.necklaceInput())
	require.NoError(t, err)

	res, err := f.svc.ToggleLike(ctx, design.ShareCode, "user-1")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	res, err = f.svc.ToggleLike(ctx, design.ShareCode, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Likes)

	_, err = f.svc.ToggleLike(ctx, "NOPE0000", "user-1")
	assert.ErrorIs(t, err, model.ErrDesignNotFound)
}

func TestToggleLikePrivateDesign(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	in := f.necklaceInput()
	in.IsPublic = false
	in.UserID = strPtr("owner")
	design, err := f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.ToggleLike(ctx, design.ShareCode, "someone-else")
	assert.ErrorIs(t, err, model.ErrDesignNotPublic)

	res, err := f.svc.ToggleLike(ctx, design.ShareCode, "owner")
	require.NoError(t, err)
	assert.True(t, res.Liked)
}

func TestListPublicIsCachedAndInvalidatedByShare(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	in := f.necklaceInput()
	_, err := f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)

	designs, total, err := f.svc.ListPublic(ctx, model.ListDesignsQuery{})
	require.NoError(t, err)
	assert.Len(t, designs, 1)
	assert.Equal(t, 1, total)

	found, err := f.cache.Exists(ctx, "designs:public:1:20")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)

	designs, total, err = f.svc.ListPublic(ctx, model.ListDesignsQuery{})
	require.NoError(t, err)
	assert.Len(t, designs, 2)
	assert.Equal(t, 2, total)
}

func TestListMineOnlyReturnsOwnDesigns(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	in := f.necklaceInput()
	in.UserID = strPtr("user-1")
	_, err := f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)
	in.UserID = strPtr("user-2")
	_, err = f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)

	designs, total, err := f.svc.ListMine(ctx, "user-1", model.ListDesignsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "user-1", *designs[0].UserID)
}

func TestTrendingUsesCacheUntilRefresh(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	_, err := f.svc.ShareDesign(ctx, f.necklaceInput())
	require.NoError(t, err)

	designs, err := f.svc.Trending(ctx)
	require.NoError(t, err)
	assert.Len(t, designs, 1)

	f.repo.designs = map[string]*model.Design{}
	designs, err = f.svc.Trending(ctx)
	require.NoError(t, err)
	assert.Len(t, designs, 1, "served from cache")

	designs, err = f.svc.RefreshTrending(ctx)
	require.NoError(t, err)
	assert.Empty(t, designs)
}

func TestTrendingWindow(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	_, err := f.svc.ShareDesign(ctx, f.necklaceInput())
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }
	designs, err := f.svc.RefreshTrending(ctx)
	require.NoError(t, err)
	assert.Empty(t, designs)
}

func TestDeleteDesignChecksOwner(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	in := f.necklaceInput()
	in.UserID = strPtr("owner")
	design, err := f.svc.ShareDesign(ctx, in)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteDesign(ctx, design.ShareCode, strPtr("intruder")), model.ErrDesignNotFound)
	require.NoError(t, f.svc.DeleteDesign(ctx, design.ShareCode, strPtr("owner")))

	_, found, err := f.svc.LoadDesign(ctx, design.ShareCode)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExportDesigns(t *testing.T) {
	f := newDesignFixture(t)
	ctx := context.Background()
	design, err := f.svc.ShareDesign(ctx, f.necklaceInput())
	require.NoError(t, err)

	data, err := f.svc.ExportDesigns(ctx)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	header, err := book.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Share Code", header)

	code, err := book.GetCellValue(exportSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, design.ShareCode, code)

	tags, err := book.GetCellValue(exportSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "beach, summer", tags)
}
