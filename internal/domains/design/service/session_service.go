package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	catalogmodel "sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/domains/design/builder"
	"sunkissed-backend/internal/domains/design/layout"
	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/pkg/cache"
)

// Sharer persists a finished configuration.
type Sharer interface {
	ShareDesign(ctx context.Context, in model.ShareDesignInput) (*model.Design, error)
}

type SessionServiceInterface interface {
	Create(ctx context.Context, owner string, req model.CreateSessionRequest) (*model.SessionView, error)
	Get(ctx context.Context, id, owner string) (*model.SessionView, error)
	SelectBase(ctx context.Context, id, owner string, req model.SelectBaseRequest) (*model.SessionView, error)
	SetSlotCount(ctx context.Context, id, owner string, req model.SetSlotCountRequest) (*model.SessionView, error)
	Place(ctx context.Context, id, owner string, slotID int, req model.PlaceCharmRequest) (*model.SessionView, error)
	Remove(ctx context.Context, id, owner string, slotID int, expected *int64) (*model.SessionView, error)
	Finalize(ctx context.Context, id, owner string, req model.FinalizeRequest) (*model.SessionView, error)
	Back(ctx context.Context, id, owner string, expected *int64) (*model.SessionView, error)
	Share(ctx context.Context, id, owner string, userID *string, req model.ShareSessionRequest) (*model.ShareResult, error)
}

type SessionOptions struct {
	TTL     time.Duration
	LockTTL time.Duration
}

// SessionService keeps configurator sessions in the cache and drives the
// builder state machine for each request.
type SessionService struct {
	cache   cache.Cache
	catalog CatalogReader
	sharer  Sharer
	ttl     time.Duration
	lockTTL time.Duration

	now   func() time.Time
	newID func() string
}

func NewSessionService(c cache.Cache, catalog CatalogReader, sharer Sharer, opts SessionOptions) *SessionService {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	return &SessionService{
		cache:   c,
		catalog: catalog,
		sharer:  sharer,
		ttl:     opts.TTL,
		lockTTL: opts.LockTTL,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// =====================================================
// PERSISTENCE
// =====================================================

func (s *SessionService) load(ctx context.Context, id, owner string) (*builder.Session, error) {
	sess := &builder.Session{}
	found, err := s.cache.Get(ctx, model.SessionCacheKey(id), sess)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	// another owner's session is reported as missing
	if !found || !sess.OwnedBy(owner) {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) save(ctx context.Context, sess *builder.Session) error {
	if err := s.cache.Set(ctx, model.SessionCacheKey(sess.ID()), sess, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// mutate loads the session, checks the caller's revision, applies fn and
// stores the result when fn changed anything.
func (s *SessionService) mutate(
	ctx context.Context,
	id, owner string,
	expected *int64,
	fn func(sess *builder.Session, now time.Time) error,
) (*model.SessionView, error) {
	sess, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := sess.CheckRevision(expected); err != nil {
		return nil, err
	}

	before := sess.Revision()
	if err := fn(sess, s.now()); err != nil {
		return nil, err
	}
	if sess.Revision() != before {
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, sess), nil
}

// =====================================================
// OPERATIONS
// =====================================================

func (s *SessionService) Create(ctx context.Context, owner string, req model.CreateSessionRequest) (*model.SessionView, error) {
	sess := builder.NewSession(s.newID(), owner, s.now())

	if req.JewelryItemID != nil {
		base, err := s.baseItem(ctx, *req.JewelryItemID)
		if err != nil {
			return nil, err
		}
		if err := sess.SelectBase(base, s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	log.Debug().Str("session_id", sess.ID()).Str("owner", owner).Msg("builder session created")
	return s.view(ctx, sess), nil
}

func (s *SessionService) Get(ctx context.Context, id, owner string) (*model.SessionView, error) {
	sess, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

func (s *SessionService) SelectBase(ctx context.Context, id, owner string, req model.SelectBaseRequest) (*model.SessionView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, owner, req.ExpectedRevision, func(sess *builder.Session, now time.Time) error {
		base, err := s.baseItem(ctx, req.JewelryItemID)
		if err != nil {
			return err
		}
		return sess.SelectBase(base, now)
	})
}

func (s *SessionService) SetSlotCount(ctx context.Context, id, owner string, req model.SetSlotCountRequest) (*model.SessionView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, owner, req.ExpectedRevision, func(sess *builder.Session, now time.Time) error {
		return sess.SetSlotCount(req.SlotCount, now)
	})
}

func (s *SessionService) Place(ctx context.Context, id, owner string, slotID int, req model.PlaceCharmRequest) (*model.SessionView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, owner, req.ExpectedRevision, func(sess *builder.Session, now time.Time) error {
		// slot first so a bad slot never reaches the database
		if err := sess.ValidateSlot(slotID); err != nil {
			return err
		}

		prices, err := s.catalog.CharmPrices(ctx, []uuid.UUID{req.CharmID})
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrRetrieval, err)
		}
		if _, ok := prices[req.CharmID]; !ok {
			return fmt.Errorf("%w: %s", model.ErrUnknownCharm, req.CharmID)
		}
		return sess.Place(slotID, req.CharmID, now)
	})
}

func (s *SessionService) Remove(ctx context.Context, id, owner string, slotID int, expected *int64) (*model.SessionView, error) {
	return s.mutate(ctx, id, owner, expected, func(sess *builder.Session, now time.Time) error {
		return sess.Remove(slotID, now)
	})
}

func (s *SessionService) Finalize(ctx context.Context, id, owner string, req model.FinalizeRequest) (*model.SessionView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, owner, req.ExpectedRevision, func(sess *builder.Session, now time.Time) error {
		return sess.Finalize(req.Name, req.Tags, req.IsPublic, now)
	})
}

func (s *SessionService) Back(ctx context.Context, id, owner string, expected *int64) (*model.SessionView, error) {
	return s.mutate(ctx, id, owner, expected, func(sess *builder.Session, now time.Time) error {
		return sess.Back(now)
	})
}

// Share persists the session's design. Only one share per session runs at a
// time. When the session changes while the share is running the design is
// still returned but the session is not marked shared.
func (s *SessionService) Share(ctx context.Context, id, owner string, userID *string, req model.ShareSessionRequest) (*model.ShareResult, error) {
	sess, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := sess.CheckRevision(req.ExpectedRevision); err != nil {
		return nil, err
	}
	input, err := sess.ShareInput(userID)
	if err != nil {
		return nil, err
	}
	input.TotalPrice = req.TotalPrice

	release, err := s.acquireShareLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	design, err := s.sharer.ShareDesign(ctx, input)
	if err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if current.Revision() != sess.Revision() {
		log.Info().
			Str("session_id", id).
			Str("share_code", design.ShareCode).
			Int64("shared_revision", sess.Revision()).
			Int64("current_revision", current.Revision()).
			Msg("share superseded by a newer edit")
		return &model.ShareResult{Design: design, Session: s.view(ctx, current), Superseded: true}, nil
	}

	if err := current.CompleteShare(design.ShareCode, s.now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, current); err != nil {
		return nil, err
	}
	return &model.ShareResult{Design: design, Session: s.view(ctx, current)}, nil
}

// acquireShareLock takes the per-session share lock. The returned func
// releases it.
func (s *SessionService) acquireShareLock(ctx context.Context, id string) (func(), error) {
	key := model.ShareLockKey(id)

	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("acquire share lock: %w", err)
	}
	if n != 1 {
		// a holder that died between Increment and Expire would leave the
		// lock without a deadline
		if ttl, err := s.cache.TTL(ctx, key); err == nil && ttl < 0 {
			_ = s.cache.Expire(ctx, key, s.lockTTL)
		}
		return nil, model.ErrShareInProgress
	}
	if err := s.cache.Expire(ctx, key, s.lockTTL); err != nil {
		_ = s.cache.Delete(ctx, key)
		return nil, fmt.Errorf("acquire share lock: %w", err)
	}

	return func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("failed to release share lock")
		}
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *SessionService) baseItem(ctx context.Context, id uuid.UUID) (builder.BaseItem, error) {
	item, err := s.catalog.GetItem(ctx, id)
	if errors.Is(err, catalogmodel.ErrItemNotFound) {
		return builder.BaseItem{}, model.ErrItemNotFound
	}
	if err != nil {
		return builder.BaseItem{}, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	if !item.SupportsCharms {
		return builder.BaseItem{}, model.ErrItemNoCharms
	}
	return builder.BaseItem{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Image:     item.Image,
		SlotCount: item.SlotCount,
	}, nil
}

func (s *SessionService) view(ctx context.Context, sess *builder.Session) *model.SessionView {
	v := &model.SessionView{
		ID:            sess.ID(),
		State:         string(sess.State()),
		Revision:      sess.Revision(),
		SlotCount:     sess.SlotCount(),
		Slots:         []layout.SlotDefinition{},
		Placements:    sess.Placements(),
		Name:          sess.Name(),
		Tags:          sess.Tags(),
		IsPublic:      sess.IsPublic(),
		LastShareCode: sess.LastShareCode(),
		UpdatedAt:     sess.UpdatedAt(),
	}
	if v.Placements == nil {
		v.Placements = []model.Placement{}
	}

	base := sess.Base()
	if base == nil {
		return v
	}
	v.JewelryItemID = &base.ID
	v.BaseName = base.Name
	v.BasePrice = base.Price
	if slots, err := layout.Generate(v.SlotCount); err == nil {
		v.Slots = slots
	}

	v.TotalPrice = base.Price
	prices, err := s.catalog.CharmPrices(ctx, sess.CharmIDs())
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID()).Msg("could not price session")
		return v
	}
	// charms deleted from the catalog since placement do not count
	priced := make([]model.Placement, 0, len(v.Placements))
	for _, p := range v.Placements {
		if _, ok := prices[p.CharmID]; ok {
			priced = append(priced, p)
		}
	}
	if total, err := builder.Total(base.Price, priced, prices); err == nil {
		v.TotalPrice = total
	} else {
		v.TotalPrice = decimal.Zero
	}
	return v
}
