package recommendation

import (
	"context"
	"fmt"
	"time"

	"marketReco/domain"
	"marketReco/pkg/logger"
	"marketReco/pkg/vecmath"

	"golang.org/x/sync/errgroup"
)

// ---- Repository interfaces ----

type CatalogRepository interface {
	// FetchCatalogSnapshot returns every non-deleted product with classified references.
	FetchCatalogSnapshot(ctx context.Context) ([]domain.CatalogItem, error)
}

type UserHistoryRepository interface {
	// FetchUser returns nil, nil when the user does not exist.
	FetchUser(ctx context.Context, userID uint) (*domain.UserHistory, error)
}

type ProductRepository interface {
	AggregateSalesByProduct(ctx context.Context, limit int) ([]domain.ProductSales, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Product, error)
	FindTopRated(ctx context.Context, minRating float64, limit int) ([]domain.Product, error)
}

// TrendingCache holds the sales ranking, not the products, so every hit is
// re-checked against the live catalog.
type TrendingCache interface {
	GetTrending(ctx context.Context) ([]domain.ProductSales, bool, error)
	SetTrending(ctx context.Context, sales []domain.ProductSales, ttl time.Duration) error
}

// Capability hands out the vector-math backend when it is available.
type Capability interface {
	Backend() (vecmath.Backend, bool)
}

// ---- Service ----

type Service struct {
	catalogRepo CatalogRepository
	historyRepo UserHistoryRepository
	productRepo ProductRepository
	trendCache  TrendingCache
	capability  Capability
	cfg         Config
	jitter      JitterSource
	now         func() time.Time
}

// NewService wires the engine. trendCache may be nil; capability defaults to the
// process-wide vector-math capability when nil.
func NewService(
	catalogRepo CatalogRepository,
	historyRepo UserHistoryRepository,
	productRepo ProductRepository,
	trendCache TrendingCache,
	capability Capability,
	cfg Config,
) *Service {
	if capability == nil {
		capability = vecmath.Default()
	}
	return &Service{
		catalogRepo: catalogRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		trendCache:  trendCache,
		capability:  capability,
		cfg:         cfg,
		jitter:      globalJitter{},
		now:         time.Now,
	}
}

func (s *Service) Config() Config {
	return s.cfg
}

// Recommend returns up to IdentifiedLimit unseen items for userID, or up to
// AnonymousLimit trending items when userID is 0. It never fails: internal errors
// are logged and produce an empty list.
// Users with preferences but no usable interactions are scored against the
// company and category block of each item vector only.
func (s *Service) Recommend(ctx context.Context, userID uint) (recs []domain.Recommendation) {
	tid := TraceIDFromContext(ctx)
	path := PathEmpty

	defer func() {
		if r := recover(); r != nil {
			logger.Error("recommendation panicked",
				"trace_id", tid,
				"user_id", userID,
				"panic", fmt.Sprint(r),
			)
			recs = []domain.Recommendation{}
			path = PathError
		}
		observeServed(path, len(recs))
	}()

	if err := ctx.Err(); err != nil {
		logger.Warn("recommendation skipped", "trace_id", tid, "error", err)
		return []domain.Recommendation{}
	}

	if userID == 0 {
		recs, path = s.recommendAnonymous(ctx)
		return recs
	}

	var err error
	recs, path, err = s.recommendPersonalized(ctx, userID)
	if err != nil {
		logger.Error("personalized recommendation failed",
			"trace_id", tid,
			"user_id", userID,
			"error", err,
		)
		path = PathError
		return []domain.Recommendation{}
	}

	logger.Debug("recommendation_served",
		"trace_id", tid,
		"user_id", userID,
		"path", path,
		"count", len(recs),
	)
	return recs
}

func (s *Service) recommendPersonalized(ctx context.Context, userID uint) ([]domain.Recommendation, string, error) {
	items, history, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, PathError, err
	}
	if history == nil {
		logger.Info("recommendation requested for unknown user", "user_id", userID)
		return []domain.Recommendation{}, PathEmpty, nil
	}

	items = filterCatalog(items)
	if len(items) == 0 {
		return []domain.Recommendation{}, PathEmpty, nil
	}

	index := indexByProduct(items)
	excluded := interactedSet(history.Interactions)

	vocab := buildVocabulary(items, history.Preferences)
	vectors := embedCatalog(items, vocab)
	profile := buildUserProfile(*history, index, vectors, vocab, s.cfg, s.now())
	if profile.Empty() {
		return []domain.Recommendation{}, PathEmpty, nil
	}

	if backend, ok := s.capability.Backend(); ok {
		scored, err := rankBySimilarity(backend, items, vectors, profile, vocab, excluded, s.cfg.IdentifiedLimit)
		if err == nil {
			return toRecommendations(scored), PathVector, nil
		}
		logger.Warn("vector ranking failed, using heuristic scoring",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
			"error", err,
		)
	}

	scored := rankByHeuristic(items, index, history.Interactions, excluded, s.jitter, s.cfg.JitterScale, s.cfg.IdentifiedLimit)
	return toRecommendations(scored), PathHeuristic, nil
}

// fetch reads the catalog snapshot and the user history concurrently.
func (s *Service) fetch(ctx context.Context, userID uint) ([]domain.CatalogItem, *domain.UserHistory, error) {
	var (
		items   []domain.CatalogItem
		history *domain.UserHistory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.catalogRepo.FetchCatalogSnapshot(gctx)
		if err != nil {
			return fmt.Errorf("fetch catalog snapshot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.historyRepo.FetchUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch user history: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return items, history, nil
}

// indexByProduct maps product id to its first position in items.
func indexByProduct(items []domain.CatalogItem) map[uint64]int {
	index := make(map[uint64]int, len(items))
	for i, it := range items {
		if _, ok := index[it.Product.ID]; !ok {
			index[it.Product.ID] = i
		}
	}
	return index
}
