package recommendation

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketReco/domain"
	"marketReco/pkg/vecmath"
)

func u64(v uint64) *uint64 { return &v }

func f64(v float64) *float64 { return &v }

// catalogItem builds a snapshot item with a resolved category and optional company.
func catalogItem(id, category uint64, company uint64, rating *float64, reviews ...float64) domain.CatalogItem {
	it := domain.CatalogItem{
		Product: domain.Product{
			ID:          id,
			ProductName: "product",
			CategoryID:  u64(category),
			Rating:      rating,
		},
		Category:      domain.ResolvedRef(category),
		Company:       domain.UnresolvedRef(0),
		ReviewRatings: reviews,
	}
	if company != 0 {
		it.Product.CompanyID = u64(company)
		it.Company = domain.ResolvedRef(company)
	}
	return it
}

func interaction(productID uint64, t domain.InteractionType, at time.Time) domain.Interaction {
	return domain.Interaction{ProductID: productID, Type: t, CreatedAt: at}
}

type zeroJitter struct{}

func (zeroJitter) Float64() float64 { return 0 }

type fixedJitter float64

func (f fixedJitter) Float64() float64 { return float64(f) }

// ---- fakes ----

type fakeCatalogRepo struct {
	items []domain.CatalogItem
	err   error
}

func (f *fakeCatalogRepo) FetchCatalogSnapshot(ctx context.Context) ([]domain.CatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.CatalogItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

type fakeHistoryRepo struct {
	users map[uint]*domain.UserHistory
	err   error
}

func (f *fakeHistoryRepo) FetchUser(ctx context.Context, userID uint) (*domain.UserHistory, error) {
	if f.err != nil {
		return nil, f.err
	}
	h, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

type fakeProductRepo struct {
	products []domain.Product
	sales    []domain.ProductSales
	salesErr error
	calls    int
}

func (f *fakeProductRepo) AggregateSalesByProduct(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	f.calls++
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	if len(f.sales) > limit {
		return f.sales[:limit], nil
	}
	return f.sales, nil
}

func (f *fakeProductRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Product
	for _, p := range f.products {
		if want[p.ID] && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindRecent expects products to be stored newest first.
func (f *fakeProductRepo) FindRecent(ctx context.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if !p.IsDeleted && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindTopRated expects products to be stored best rated first.
func (f *fakeProductRepo) FindTopRated(ctx context.Context, minRating float64, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.IsDeleted || p.Rating == nil || *p.Rating < minRating {
			continue
		}
		if len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTrendingCache struct {
	mu    sync.Mutex
	sales []domain.ProductSales
	sets  int
}

func (f *fakeTrendingCache) GetTrending(ctx context.Context) ([]domain.ProductSales, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sales == nil {
		return nil, false, nil
	}
	return f.sales, true, nil
}

func (f *fakeTrendingCache) SetTrending(ctx context.Context, sales []domain.ProductSales, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sales = sales
	f.sets++
	return nil
}

type fakeCapability struct {
	backend vecmath.Backend
	ok      bool
}

func (f fakeCapability) Backend() (vecmath.Backend, bool) {
	return f.backend, f.ok
}

var vectorCapability = fakeCapability{backend: vecmath.NewGonumBackend(), ok: true}

var unavailableCapability = fakeCapability{}

type failingBackend struct{}

func (failingBackend) CosineScores(query []float64, rows [][]float64) ([]float64, error) {
	return nil, errors.New("backend exploded")
}

type panickingBackend struct{}

func (panickingBackend) CosineScores(query []float64, rows [][]float64) ([]float64, error) {
	panic("corrupt matrix")
}
