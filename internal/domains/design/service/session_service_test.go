package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/pkg/cache"
)

const owner = "anon:cookie-1"

type sessionFixture struct {
	svc     *SessionService
	designs *DesignService
	repo    *fakeDesignRepo
	catalog *fakeCatalog
	cache   *cache.MemoryCache
	itemID  uuid.UUID
	star    uuid.UUID
	moon    uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		repo:    newFakeDesignRepo(),
		catalog: newFakeCatalog(),
		cache:   cache.NewMemoryCache(),
	}
	f.itemID = f.catalog.addItem("Gold Chain", "45", 10, true).ID
	f.star = f.catalog.addCharm("12")
	f.moon = f.catalog.addCharm("10")
	f.designs = NewService(f.repo, f.catalog, f.cache, nil, Options{})
	f.svc = NewSessionService(f.cache, f.catalog, f.designs, SessionOptions{})
	return f
}

func rev(n int64) *int64 { return &n }

func (f *sessionFixture) configured(t *testing.T) *model.SessionView {
	t.Helper()
	ctx := context.Background()
	view, err := f.svc.Create(ctx, owner, model.CreateSessionRequest{JewelryItemID: &f.itemID})
	require.NoError(t, err)
	view, err = f.svc.Place(ctx, view.ID, owner, 1, model.PlaceCharmRequest{CharmID: f.star})
	require.NoError(t, err)
	view, err = f.svc.Place(ctx, view.ID, owner, 12, model.PlaceCharmRequest{CharmID: f.moon})
	require.NoError(t, err)
	return view
}

func TestSessionFlowToShare(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	view := f.configured(t)
	assert.Equal(t, "configuring", view.State)
	assert.Len(t, view.Slots, 20)
	assert.Equal(t, "67", view.TotalPrice.String())

	view, err := f.svc.Finalize(ctx, view.ID, owner, model.FinalizeRequest{
		Revisioned: model.Revisioned{ExpectedRevision: rev(view.Revision)},
		Name:       "Beach Day",
		Tags:       []string{"Summer"},
		IsPublic:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "finalizing", view.State)

	result, err := f.svc.Share(ctx, view.ID, owner, nil, model.ShareSessionRequest{TotalPrice: dec("67")})
	require.NoError(t, err)
	assert.False(t, result.Superseded)
	assert.Equal(t, "shared", result.Session.State)
	assert.Equal(t, result.Design.ShareCode, result.Session.LastShareCode)
	assert.Equal(t, "Beach Day", result.Design.Name)
	assert.Equal(t, []string{"summer"}, result.Design.Tags)

	again, err := f.svc.Share(ctx, view.ID, owner, nil, model.ShareSessionRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, result.Design.ShareCode, again.Design.ShareCode)
	assert.Len(t, f.repo.designs, 2)

	locked, err := f.cache.Exists(ctx, model.ShareLockKey(view.ID))
	require.NoError(t, err)
	assert.False(t, locked, "lock released")
}

func TestSessionRejectsInvalidSlotBeforeCatalogLookup(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)

	f.catalog.err = errors.New("catalog should not be called")
	_, err := f.svc.Place(ctx, view.ID, owner, 21, model.PlaceCharmRequest{CharmID: f.star})
	assert.ErrorIs(t, err, model.ErrInvalidSlot)

	f.catalog.err = nil
	current, err := f.svc.Get(ctx, view.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, view.Revision, current.Revision)
}

func TestSessionPlaceUnknownCharm(t *testing.T) {
	f := newSessionFixture(t)
	view := f.configured(t)

	_, err := f.svc.Place(context.Background(), view.ID, owner, 2, model.PlaceCharmRequest{CharmID: uuid.New()})
	assert.ErrorIs(t, err, model.ErrUnknownCharm)
}

func TestSessionStaleRevision(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)

	_, err := f.svc.Remove(ctx, view.ID, owner, 1, rev(view.Revision-1))
	assert.ErrorIs(t, err, model.ErrStaleRevision)

	updated, err := f.svc.Remove(ctx, view.ID, owner, 1, rev(view.Revision))
	require.NoError(t, err)
	assert.Equal(t, view.Revision+1, updated.Revision)
	assert.Equal(t, "55", updated.TotalPrice.String())
}

func TestSessionOwnership(t *testing.T) {
	f := newSessionFixture(t)
	view := f.configured(t)

	_, err := f.svc.Get(context.Background(), view.ID, "anon:someone-else")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	_, err = f.svc.Get(context.Background(), "missing", owner)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestSessionShareRequiresFinalize(t *testing.T) {
	f := newSessionFixture(t)
	view := f.configured(t)

	_, err := f.svc.Share(context.Background(), view.ID, owner, nil, model.ShareSessionRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Empty(t, f.repo.designs)
}

func TestSessionShareInFlight(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)
	_, err := f.svc.Finalize(ctx, view.ID, owner, model.FinalizeRequest{})
	require.NoError(t, err)

	_, err = f.cache.Increment(ctx, model.ShareLockKey(view.ID))
	require.NoError(t, err)

	_, err = f.svc.Share(ctx, view.ID, owner, nil, model.ShareSessionRequest{})
	assert.ErrorIs(t, err, model.ErrShareInProgress)

	ttl, err := f.cache.TTL(ctx, model.ShareLockKey(view.ID))
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "orphaned lock gets a deadline")
}

func TestSessionShareFailureKeepsState(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)
	view, err := f.svc.Finalize(ctx, view.ID, owner, model.FinalizeRequest{})
	require.NoError(t, err)

	f.repo.createErr = []error{errors.New("disk full")}
	_, err = f.svc.Share(ctx, view.ID, owner, nil, model.ShareSessionRequest{})
	assert.ErrorIs(t, err, model.ErrPersistence)

	current, err := f.svc.Get(ctx, view.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "finalizing", current.State)
	assert.Equal(t, view.Revision, current.Revision)
	assert.Len(t, current.Placements, 2)

	locked, err := f.cache.Exists(ctx, model.ShareLockKey(view.ID))
	require.NoError(t, err)
	assert.False(t, locked)
}

// editingSharer simulates an edit landing while the share is persisted.
type editingSharer struct {
	inner Sharer
	edit  func()
}

func (e *editingSharer) ShareDesign(ctx context.Context, in model.ShareDesignInput) (*model.Design, error) {
	design, err := e.inner.ShareDesign(ctx, in)
	e.edit()
	return design, err
}

func TestSessionShareSupersededByEdit(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)
	view, err := f.svc.Finalize(ctx, view.ID, owner, model.FinalizeRequest{Name: "First"})
	require.NoError(t, err)

	f.svc.sharer = &editingSharer{inner: f.designs, edit: func() {
		_, err := f.svc.Back(ctx, view.ID, owner, nil)
		require.NoError(t, err)
	}}

	result, err := f.svc.Share(ctx, view.ID, owner, nil, model.ShareSessionRequest{})
	require.NoError(t, err)
	assert.True(t, result.Superseded)
	assert.Equal(t, "configuring", result.Session.State)
	assert.Empty(t, result.Session.LastShareCode)
	assert.Equal(t, "First", result.Design.Name)
}

func TestSessionSlotCountChangeRemapsPlacements(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)

	view, err := f.svc.SetSlotCount(ctx, view.ID, owner, model.SetSlotCountRequest{SlotCount: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, view.SlotCount)
	assert.Len(t, view.Slots, 8)
	// slot 12 (back position 2) maps to 4+2 = 6
	require.Len(t, view.Placements, 2)
	assert.Equal(t, 1, view.Placements[0].SlotID)
	assert.Equal(t, 6, view.Placements[1].SlotID)

	_, err = f.svc.SetSlotCount(ctx, view.ID, owner, model.SetSlotCountRequest{SlotCount: 21})
	assert.Error(t, err)
}

func TestSessionShareAfterSlotCountChange(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	view := f.configured(t)

	// 10 -> 15 slots per side: back slot 12 (position 2) becomes 17
	view, err := f.svc.SetSlotCount(ctx, view.ID, owner, model.SetSlotCountRequest{SlotCount: 15})
	require.NoError(t, err)
	view, err = f.svc.Place(ctx, view.ID, owner, 14, model.PlaceCharmRequest{CharmID: f.star})
	require.NoError(t, err)
	view, err = f.svc.Place(ctx, view.ID, owner, 16, model.PlaceCharmRequest{CharmID: f.moon})
	require.NoError(t, err)
	view, err = f.svc.Finalize(ctx, view.ID, owner, model.FinalizeRequest{Name: "Long"})
	require.NoError(t, err)

	result, err := f.svc.Share(ctx, view.ID, owner, nil, model.ShareSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 15, result.Design.SlotCount)

	stored, found, err := f.designs.LoadDesign(ctx, result.Design.ShareCode)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 15, stored.SlotCount)

	slots := make([]int, 0, len(stored.Placements))
	for _, p := range stored.Placements {
		slots = append(slots, p.SlotID)
	}
	assert.Equal(t, []int{1, 14, 16, 17}, slots)
	assert.Equal(t, view.TotalPrice.String(), stored.TotalPrice.String())
}

func TestSessionCreateWithoutBase(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, owner, model.CreateSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "idle", view.State)
	assert.Empty(t, view.Slots)
	assert.Nil(t, view.JewelryItemID)

	_, err = f.svc.Place(ctx, view.ID, owner, 1, model.PlaceCharmRequest{CharmID: f.star})
	assert.ErrorIs(t, err, model.ErrNoBaseSelected)

	view, err = f.svc.SelectBase(ctx, view.ID, owner, model.SelectBaseRequest{JewelryItemID: f.itemID})
	require.NoError(t, err)
	assert.Equal(t, "base_selected", view.State)
	assert.Equal(t, "45", view.TotalPrice.String())
}
