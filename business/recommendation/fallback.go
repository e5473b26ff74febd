package recommendation

import (
	"context"
	"fmt"

	"marketReco/domain"
	"marketReco/pkg/logger"
)

// recommendAnonymous serves callers without identity: trending products by units
// sold, or the most recently added products when nothing has been sold yet.
func (s *Service) recommendAnonymous(ctx context.Context) ([]domain.Recommendation, string) {
	limit := s.cfg.AnonymousLimit
	tid := TraceIDFromContext(ctx)

	trending, sold, err := s.trending(ctx, limit)
	if err != nil {
		logger.Warn("trending aggregation failed, using recent products", "trace_id", tid, "error", err)
	} else if len(trending) > 0 {
		return productsToRecommendations(trending, sold), PathTrending
	}

	recent, err := s.productRepo.FindRecent(ctx, limit)
	if err != nil {
		logger.Error("recent products fallback failed", "trace_id", tid, "error", err)
		return []domain.Recommendation{}, PathError
	}
	if len(recent) == 0 {
		return []domain.Recommendation{}, PathEmpty
	}
	return productsToRecommendations(capProducts(recent, limit), nil), PathRecent
}

// salesRanking returns per-product sales, best sellers first, from the cache when
// it holds an entry and from the sales history otherwise.
func (s *Service) salesRanking(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	tid := TraceIDFromContext(ctx)

	if s.trendCache != nil {
		cached, ok, err := s.trendCache.GetTrending(ctx)
		if err != nil {
			logger.Warn("trending cache read failed", "trace_id", tid, "error", err)
		} else if ok && len(cached) > 0 {
			return cached, nil
		}
	}

	sales, err := s.productRepo.AggregateSalesByProduct(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}

	if s.trendCache != nil && len(sales) > 0 {
		if err := s.trendCache.SetTrending(ctx, sales, s.cfg.TrendingCacheTTL); err != nil {
			logger.Warn("trending cache write failed", "trace_id", tid, "error", err)
		}
	}
	return sales, nil
}

// trending returns live products ordered by total quantity sold, with the sold
// quantity per product id. Products are always reloaded, so items deleted after
// the ranking was cached are left out.
func (s *Service) trending(ctx context.Context, limit int) ([]domain.Product, map[uint64]float64, error) {
	sales, err := s.salesRanking(ctx, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(sales) == 0 {
		return nil, nil, nil
	}

	ids := make([]uint64, 0, len(sales))
	sold := make(map[uint64]float64, len(sales))
	for _, row := range sales {
		ids = append(ids, row.ProductID)
		sold[row.ProductID] = float64(row.TotalSold)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load trending products: %w", err)
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		if !p.IsDeleted {
			byID[p.ID] = p
		}
	}

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return capProducts(out, limit), sold, nil
}

// TopRated is the sparse-result substitute a caller may request when the primary
// list has at most SparseThreshold items: products rated at least TopRatedMinRating,
// best first, excluding anything the user has interacted with. It never fails.
func (s *Service) TopRated(ctx context.Context, userID uint, limit int) (recs []domain.Recommendation) {
	tid := TraceIDFromContext(ctx)
	path := PathTopRated
	defer func() {
		if r := recover(); r != nil {
			logger.Error("top rated fallback panicked", "trace_id", tid, "panic", fmt.Sprint(r))
			recs = []domain.Recommendation{}
			path = PathError
		}
		observeServed(path, len(recs))
	}()

	if limit <= 0 {
		limit = s.cfg.IdentifiedLimit
	}

	excluded := map[uint64]struct{}{}
	if userID != 0 {
		history, err := s.historyRepo.FetchUser(ctx, userID)
		if err != nil {
			logger.Error("top rated fallback failed to load user", "trace_id", tid, "user_id", userID, "error", err)
			path = PathError
			return []domain.Recommendation{}
		}
		if history != nil {
			excluded = interactedSet(history.Interactions)
		}
	}

	products, err := s.productRepo.FindTopRated(ctx, s.cfg.TopRatedMinRating, limit+len(excluded))
	if err != nil {
		logger.Error("top rated fallback failed", "trace_id", tid, "error", err)
		path = PathError
		return []domain.Recommendation{}
	}

	out := make([]domain.Recommendation, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if _, ok := excluded[p.ID]; ok || p.IsDeleted {
			continue
		}
		score := 0.0
		if p.Rating != nil {
			score = *p.Rating
		}
		out = append(out, domain.Recommendation{Product: p, Score: score})
	}
	return out
}

func capProducts(products []domain.Product, limit int) []domain.Product {
	if limit >= 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}

func productsToRecommendations(products []domain.Product, scores map[uint64]float64) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(products))
	for _, p := range products {
		out = append(out, domain.Recommendation{Product: p, Score: scores[p.ID]})
	}
	return out
}
