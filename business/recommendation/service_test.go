package recommendation

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"marketReco/domain"
	"marketReco/pkg/vecmath"
)

const (
	catBooks       uint64 = 1
	catElectronics uint64 = 2
	catToys        uint64 = 3
)

func newTestService(catalog CatalogRepository, history UserHistoryRepository, products ProductRepository, cache TrendingCache, capability Capability) *Service {
	s := NewService(catalog, history, products, cache, capability, DefaultConfig())
	s.jitter = zeroJitter{}
	s.now = func() time.Time { return testNow }
	return s
}

func booksAndElectronics() []domain.CatalogItem {
	return []domain.CatalogItem{
		catalogItem(100, catBooks, 0, f64(4)),
		catalogItem(101, catBooks, 0, f64(4)),
		catalogItem(102, catElectronics, 0, f64(4)),
		catalogItem(103, catBooks, 0, f64(4)),
		catalogItem(104, catElectronics, 0, f64(4)),
		catalogItem(105, catElectronics, 0, f64(4)),
		catalogItem(106, catBooks, 0, f64(4)),
	}
}

func TestRecommend_RecentPurchaseFavorsSameCategory(t *testing.T) {
	catalog := &fakeCatalogRepo{items: booksAndElectronics()}
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		7: {UserID: 7, Interactions: []domain.Interaction{
			interaction(100, domain.InteractionBuy, testNow.Add(-5*24*time.Hour)),
		}},
	}}
	s := newTestService(catalog, history, &fakeProductRepo{}, nil, vectorCapability)

	recs := s.Recommend(context.Background(), 7)

	if len(recs) != 6 {
		t.Fatalf("len = %d, want 6", len(recs))
	}
	for i, r := range recs {
		if r.Product.ID == 100 {
			t.Fatalf("purchased product returned")
		}
		isBook := *r.Product.CategoryID == catBooks
		if i < 3 && !isBook {
			t.Fatalf("position %d is not a book: %d", i, r.Product.ID)
		}
		if i >= 3 && isBook {
			t.Fatalf("book ranked below electronics at %d", i)
		}
	}
}

func TestRecommend_PreferenceOnlyUser(t *testing.T) {
	items := []domain.CatalogItem{
		catalogItem(1, catBooks, 0, f64(5)),
		catalogItem(2, catToys, 0, f64(3)),
		catalogItem(3, catElectronics, 0, f64(5)),
		catalogItem(4, catToys, 0, f64(4)),
	}
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		8: {UserID: 8, Preferences: domain.Preferences{Categories: []uint64{catToys}}},
	}}
	s := newTestService(&fakeCatalogRepo{items: items}, history, &fakeProductRepo{}, nil, vectorCapability)

	recs := s.Recommend(context.Background(), 8)

	if len(recs) == 0 {
		t.Fatalf("expected recommendations for preference-only user")
	}
	for i := 0; i < 2; i++ {
		if *recs[i].Product.CategoryID != catToys {
			t.Fatalf("position %d = product %d, want a toy", i, recs[i].Product.ID)
		}
	}
}

func TestRecommend_EmptyProfileReturnsEmpty(t *testing.T) {
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{9: {UserID: 9}}}
	s := newTestService(&fakeCatalogRepo{items: booksAndElectronics()}, history, &fakeProductRepo{}, nil, vectorCapability)

	if recs := s.Recommend(context.Background(), 9); len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}

func TestRecommend_UnknownUserReturnsEmpty(t *testing.T) {
	s := newTestService(&fakeCatalogRepo{items: booksAndElectronics()}, &fakeHistoryRepo{}, &fakeProductRepo{}, nil, vectorCapability)

	recs := s.Recommend(context.Background(), 42)
	if recs == nil || len(recs) != 0 {
		t.Fatalf("expected non-nil empty list, got %v", recs)
	}
}

func TestRecommend_FetchErrorReturnsEmpty(t *testing.T) {
	catalog := &fakeCatalogRepo{err: errors.New("connection refused")}
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{1: {UserID: 1}}}
	s := newTestService(catalog, history, &fakeProductRepo{}, nil, vectorCapability)

	if recs := s.Recommend(context.Background(), 1); len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}

func TestRecommend_PanicIsRecovered(t *testing.T) {
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		1: {UserID: 1, Interactions: []domain.Interaction{interaction(100, domain.InteractionView, testNow)}},
	}}
	s := newTestService(&fakeCatalogRepo{items: booksAndElectronics()}, history, &fakeProductRepo{}, nil,
		fakeCapability{backend: panickingBackend{}, ok: true})

	if recs := s.Recommend(context.Background(), 1); len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}

func TestRecommend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestService(&fakeCatalogRepo{items: booksAndElectronics()}, &fakeHistoryRepo{}, &fakeProductRepo{}, nil, vectorCapability)

	if recs := s.Recommend(ctx, 1); len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}

func TestRecommend_HeuristicWhenCapabilityUnavailable(t *testing.T) {
	var items []domain.CatalogItem
	for i := uint64(1); i <= 25; i++ {
		cat := catBooks
		if i%3 == 0 {
			cat = catElectronics
		}
		items = append(items, catalogItem(i, cat, 0, f64(float64(i%5))))
	}
	interactions := []domain.Interaction{
		interaction(3, domain.InteractionBuy, testNow),
		interaction(6, domain.InteractionView, testNow),
	}
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		5: {UserID: 5, Interactions: interactions},
	}}

	for _, capability := range []Capability{
		unavailableCapability,
		fakeCapability{backend: failingBackend{}, ok: true},
		vecmath.NewCapability(vecmath.DisabledInitializer),
	} {
		s := newTestService(&fakeCatalogRepo{items: items}, history, &fakeProductRepo{}, nil, capability)
		recs := s.Recommend(context.Background(), 5)

		if len(recs) == 0 || len(recs) > 10 {
			t.Fatalf("len = %d, want 1..10", len(recs))
		}
		for i, r := range recs {
			if r.Product.ID == 3 || r.Product.ID == 6 {
				t.Fatalf("interacted product %d returned", r.Product.ID)
			}
			if i > 0 && recs[i-1].Score < r.Score {
				t.Fatalf("scores not non-increasing at %d", i)
			}
		}
		// electronics carry 7 interaction points, books carry none
		if *recs[0].Product.CategoryID != catElectronics {
			t.Fatalf("top product %d is not electronics", recs[0].Product.ID)
		}
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		7: {UserID: 7, Interactions: []domain.Interaction{
			interaction(102, domain.InteractionCart, testNow),
			interaction(101, domain.InteractionView, testNow),
		}, Preferences: domain.Preferences{Categories: []uint64{catBooks}}},
	}}
	s := newTestService(&fakeCatalogRepo{items: booksAndElectronics()}, history, &fakeProductRepo{}, nil, vectorCapability)

	first := s.Recommend(context.Background(), 7)
	second := s.Recommend(context.Background(), 7)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between identical calls:\n%v\n%v", first, second)
	}
}

func TestRecommend_SkipsInvalidCategoryItems(t *testing.T) {
	items := booksAndElectronics()
	broken := catalogItem(200, 0, 0, f64(5))
	broken.Product.CategoryID = nil
	broken.Category = domain.InvalidRef()
	items = append(items, broken)

	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		7: {UserID: 7, Interactions: []domain.Interaction{interaction(100, domain.InteractionView, testNow)}},
	}}
	s := newTestService(&fakeCatalogRepo{items: items}, history, &fakeProductRepo{}, nil, vectorCapability)

	for _, r := range s.Recommend(context.Background(), 7) {
		if r.Product.ID == 200 {
			t.Fatalf("product with invalid category returned")
		}
	}
}

func TestRecommend_AnonymousTrending(t *testing.T) {
	products := &fakeProductRepo{
		products: []domain.Product{{ID: 1}, {ID: 2}, {ID: 3, IsDeleted: true}},
		sales: []domain.ProductSales{
			{ProductID: 1, TotalSold: 50},
			{ProductID: 3, TotalSold: 20},
			{ProductID: 2, TotalSold: 10},
		},
	}
	s := newTestService(&fakeCatalogRepo{}, &fakeHistoryRepo{}, products, nil, vectorCapability)

	recs := s.Recommend(context.Background(), 0)

	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Product.ID != 1 || recs[1].Product.ID != 2 {
		t.Fatalf("order = %d,%d want 1,2", recs[0].Product.ID, recs[1].Product.ID)
	}
	if recs[0].Score != 50 {
		t.Fatalf("score = %v, want units sold", recs[0].Score)
	}
}

func TestRecommend_AnonymousCappedAtTwelve(t *testing.T) {
	products := &fakeProductRepo{}
	for i := uint64(1); i <= 20; i++ {
		products.products = append(products.products, domain.Product{ID: i})
		products.sales = append(products.sales, domain.ProductSales{ProductID: i, TotalSold: int64(100 - i)})
	}
	s := newTestService(&fakeCatalogRepo{}, &fakeHistoryRepo{}, products, nil, vectorCapability)

	if recs := s.Recommend(context.Background(), 0); len(recs) != 12 {
		t.Fatalf("len = %d, want 12", len(recs))
	}
}

func TestRecommend_AnonymousRecentFallback(t *testing.T) {
	for name, products := range map[string]*fakeProductRepo{
		"no sales":          {products: []domain.Product{{ID: 9}, {ID: 8}}},
		"aggregation error": {products: []domain.Product{{ID: 9}, {ID: 8}}, salesErr: errors.New("timeout")},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestService(&fakeCatalogRepo{}, &fakeHistoryRepo{}, products, nil, vectorCapability)
			recs := s.Recommend(context.Background(), 0)
			if len(recs) != 2 || recs[0].Product.ID != 9 {
				t.Fatalf("unexpected recent fallback: %v", recs)
			}
		})
	}
}

func TestRecommend_AnonymousUsesCache(t *testing.T) {
	products := &fakeProductRepo{
		products: []domain.Product{{ID: 1}, {ID: 2}},
		sales:    []domain.ProductSales{{ProductID: 2, TotalSold: 5}, {ProductID: 1, TotalSold: 1}},
	}
	cache := &fakeTrendingCache{}
	s := newTestService(&fakeCatalogRepo{}, &fakeHistoryRepo{}, products, cache, vectorCapability)

	first := s.Recommend(context.Background(), 0)
	second := s.Recommend(context.Background(), 0)

	if products.calls != 1 {
		t.Fatalf("aggregation ran %d times, want 1", products.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache written %d times, want 1", cache.sets)
	}
	if len(first) != 2 || len(second) != 2 || second[0].Product.ID != 2 {
		t.Fatalf("unexpected cached result: %v", second)
	}
	if second[0].Score != 5 || second[1].Score != 1 {
		t.Fatalf("cached scores = %v, %v; want units sold 5, 1", second[0].Score, second[1].Score)
	}
}

func TestRecommend_AnonymousCacheSkipsDeletedProducts(t *testing.T) {
	products := &fakeProductRepo{
		products: []domain.Product{{ID: 1}, {ID: 2}},
		sales:    []domain.ProductSales{{ProductID: 1, TotalSold: 50}, {ProductID: 2, TotalSold: 10}},
	}
	cache := &fakeTrendingCache{}
	s := newTestService(&fakeCatalogRepo{}, &fakeHistoryRepo{}, products, cache, vectorCapability)

	if recs := s.Recommend(context.Background(), 0); len(recs) != 2 {
		t.Fatalf("warm-up len = %d, want 2", len(recs))
	}

	products.products[0].IsDeleted = true
	recs := s.Recommend(context.Background(), 0)

	if products.calls != 1 {
		t.Fatalf("aggregation ran %d times, want the cached ranking to be reused", products.calls)
	}
	if len(recs) != 1 || recs[0].Product.ID != 2 {
		t.Fatalf("recs = %v, want only product 2", recs)
	}
	if recs[0].Score != 10 {
		t.Fatalf("score = %v, want 10", recs[0].Score)
	}
}

func TestTopRated_ExcludesInteracted(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		{ID: 1, Rating: f64(5)},
		{ID: 2, Rating: f64(4.8)},
		{ID: 3, Rating: f64(4.5)},
		{ID: 4, Rating: f64(3.9)},
	}}
	history := &fakeHistoryRepo{users: map[uint]*domain.UserHistory{
		7: {UserID: 7, Interactions: []domain.Interaction{interaction(1, domain.InteractionView, testNow)}},
	}}
	s := newTestService(&fakeCatalogRepo{}, history, products, nil, vectorCapability)

	recs := s.TopRated(context.Background(), 7, 10)

	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Product.ID != 2 || recs[1].Product.ID != 3 {
		t.Fatalf("order = %d,%d want 2,3", recs[0].Product.ID, recs[1].Product.ID)
	}
}

func TestTopRated_HistoryErrorReturnsEmpty(t *testing.T) {
	s := newTestService(&fakeCatalogRepo{}, &fakeHistoryRepo{err: errors.New("down")}, &fakeProductRepo{}, nil, vectorCapability)
	if recs := s.TopRated(context.Background(), 7, 10); len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}
