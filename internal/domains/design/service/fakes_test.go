package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	catalogmodel "sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/domains/design/model"
)

// ----- catalog -----

type fakeCatalog struct {
	items  map[uuid.UUID]*catalogmodel.BaseItem
	charms map[uuid.UUID]decimal.Decimal
	err    error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		items:  map[uuid.UUID]*catalogmodel.BaseItem{},
		charms: map[uuid.UUID]decimal.Decimal{},
	}
}

func (f *fakeCatalog) addItem(name string, price string, slots int, charms bool) *catalogmodel.BaseItem {
	item := &catalogmodel.BaseItem{
		ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price),
		SlotCount: slots, SupportsCharms: charms,
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeCatalog) addCharm(price string) uuid.UUID {
	id := uuid.New()
	f.charms[id] = decimal.RequireFromString(price)
	return id
}

func (f *fakeCatalog) GetItem(ctx context.Context, id uuid.UUID) (*catalogmodel.BaseItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, catalogmodel.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeCatalog) CharmPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[uuid.UUID]decimal.Decimal{}
	for _, id := range ids {
		if p, ok := f.charms[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// ----- designs -----

type fakeDesignRepo struct {
	mu        sync.Mutex
	designs   map[string]*model.Design
	likes     map[string]bool
	createErr []error // returned by successive Create calls before succeeding
	existing  map[string]bool
	views     map[string]int
}

func newFakeDesignRepo() *fakeDesignRepo {
	return &fakeDesignRepo{
		designs:  map[string]*model.Design{},
		likes:    map[string]bool{},
		existing: map[string]bool{},
		views:    map[string]int{},
	}
}

func (f *fakeDesignRepo) ExistsByShareCode(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, stored := f.designs[code]
	return stored || f.existing[code], nil
}

func (f *fakeDesignRepo) Create(ctx context.Context, design *model.Design) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		return err
	}
	design.ID = uuid.New()
	design.CreatedAt = time.Now()
	copied := *design
	f.designs[design.ShareCode] = &copied
	return nil
}

func (f *fakeDesignRepo) FindByShareCode(ctx context.Context, code string) (*model.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.designs[code]
	if !ok {
		return nil, model.ErrDesignNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDesignRepo) sorted(keep func(*model.Design) bool) []model.Design {
	out := []model.Design{}
	for _, d := range f.designs {
		if keep(d) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShareCode < out[j].ShareCode })
	return out
}

func page(all []model.Design, limit, offset int) []model.Design {
	if offset >= len(all) {
		return []model.Design{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (f *fakeDesignRepo) ListPublic(ctx context.Context, limit, offset int) ([]model.Design, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(d *model.Design) bool { return d.IsPublic })
	return page(all, limit, offset), len(all), nil
}

func (f *fakeDesignRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Design, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(d *model.Design) bool { return d.UserID != nil && *d.UserID == userID })
	return page(all, limit, offset), len(all), nil
}

func (f *fakeDesignRepo) ListAll(ctx context.Context, limit, offset int) ([]model.Design, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(d *model.Design) bool { return true })
	return page(all, limit, offset), len(all), nil
}

func (f *fakeDesignRepo) ListTrending(ctx context.Context, since time.Time, limit int) ([]model.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(d *model.Design) bool { return d.IsPublic && !d.CreatedAt.Before(since) })
	sort.SliceStable(all, func(i, j int) bool { return all[i].Likes > all[j].Likes })
	return page(all, limit, 0), nil
}

func (f *fakeDesignRepo) IncrementViews(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.designs[code]
	if !ok {
		return model.ErrDesignNotFound
	}
	d.Views++
	return nil
}

func (f *fakeDesignRepo) IncrementPurchases(ctx context.Context, code string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.designs[code]
	if !ok {
		return 0, model.ErrDesignNotFound
	}
	d.PurchaseCount++
	return d.PurchaseCount, nil
}

func (f *fakeDesignRepo) ToggleLike(ctx context.Context, designID uuid.UUID, userID string) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.designs {
		if d.ID != designID {
			continue
		}
		key := designID.String() + "/" + userID
		if f.likes[key] {
			delete(f.likes, key)
			d.Likes--
			return false, d.Likes, nil
		}
		f.likes[key] = true
		d.Likes++
		return true, d.Likes, nil
	}
	return false, 0, model.ErrDesignNotFound
}

func (f *fakeDesignRepo) Delete(ctx context.Context, code string, ownerID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.designs[code]
	if !ok || (ownerID != nil && (d.UserID == nil || *d.UserID != *ownerID)) {
		return model.ErrDesignNotFound
	}
	delete(f.designs, code)
	return nil
}

// ----- queue -----

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task.Type(), string(task.Payload()))
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

// sequentialCodes hands out the given codes in order.
func sequentialCodes(codes ...string) CodeGenerator {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func strPtr(s string) *string { return &s }
