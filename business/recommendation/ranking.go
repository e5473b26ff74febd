package recommendation

import (
	"fmt"
	"sort"

	"marketReco/domain"
	"marketReco/pkg/vecmath"
)

type scoredItem struct {
	item  domain.CatalogItem
	score float64
}

// interactedSet is every product id referenced by the interaction log,
// whether or not the product is still in the catalog.
func interactedSet(interactions []domain.Interaction) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(interactions))
	for _, in := range interactions {
		set[in.ProductID] = struct{}{}
	}
	return set
}

// similarityQuery lays the profile and item vectors out in one coordinate space.
// A combined profile is compared against item vectors padded with zeros over the
// preference block. A preference-only profile lives in the identity block of the
// item space, so it is padded over the two quality slots instead.
func similarityQuery(profile UserProfile, vectors [][]float64, vocab Vocabulary) ([]float64, [][]float64) {
	if profile.hasInteraction() {
		query := profile.Vector()
		padded := make([][]float64, len(vectors))
		for i, v := range vectors {
			padded[i] = padRight(v, len(query))
		}
		return query, padded
	}

	return padRight(profile.Preference, vocab.itemVectorLen()), vectors
}

func padRight(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}

// rankBySimilarity scores every catalog item against the profile with the vector
// backend and returns the top limit items the user has not interacted with.
func rankBySimilarity(
	backend vecmath.Backend,
	items []domain.CatalogItem,
	vectors [][]float64,
	profile UserProfile,
	vocab Vocabulary,
	excluded map[uint64]struct{},
	limit int,
) ([]scoredItem, error) {
	query, rows := similarityQuery(profile, vectors, vocab)

	scores, err := backend.CosineScores(query, rows)
	if err != nil {
		return nil, fmt.Errorf("cosine scores: %w", err)
	}
	if len(scores) != len(items) {
		return nil, fmt.Errorf("backend returned %d scores for %d items", len(scores), len(items))
	}

	return selectTop(items, scores, excluded, limit), nil
}

// selectTop drops excluded and duplicate products, then orders by descending
// score. Ties keep catalog order.
func selectTop(items []domain.CatalogItem, scores []float64, excluded map[uint64]struct{}, limit int) []scoredItem {
	seen := make(map[uint64]struct{}, len(items))
	out := make([]scoredItem, 0, len(items))
	for i, it := range items {
		id := it.Product.ID
		if _, ok := excluded[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, scoredItem{item: it, score: scores[i]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func toRecommendations(scored []scoredItem) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(scored))
	for _, s := range scored {
		out = append(out, domain.Recommendation{
			Product: s.item.Product,
			Score:   s.score,
		})
	}
	return out
}
