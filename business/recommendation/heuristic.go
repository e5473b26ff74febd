package recommendation

import (
	"math/rand/v2"

	"marketReco/domain"
)

// JitterSource supplies uniform samples in [0, 1).
type JitterSource interface {
	Float64() float64
}

// globalJitter uses the math/rand/v2 top-level generator, which is safe for concurrent use.
type globalJitter struct{}

func (globalJitter) Float64() float64 { return rand.Float64() }

// heuristicScores scores items without vector math:
// (rating/5)*10 + sum of interaction weights on the item's category + jitter.
// An interaction counts toward the category of its product in the snapshot, or the
// category recorded with the interaction when the product is gone.
func heuristicScores(
	items []domain.CatalogItem,
	index map[uint64]int,
	interactions []domain.Interaction,
	jitter JitterSource,
	jitterScale float64,
) []float64 {
	categoryWeight := make(map[uint64]float64)
	for _, in := range interactions {
		cat, ok := interactionCategory(in, items, index)
		if !ok {
			continue
		}
		categoryWeight[cat] += interactionWeight(in.Type)
	}

	scores := make([]float64, len(items))
	for i, it := range items {
		score := 0.0
		if it.Product.Rating != nil {
			score += (*it.Product.Rating / maxQuality) * 10
		}
		if cat, ok := it.Category.Resolved(); ok {
			score += categoryWeight[cat]
		}
		score += jitter.Float64() * jitterScale
		scores[i] = score
	}
	return scores
}

func interactionCategory(in domain.Interaction, items []domain.CatalogItem, index map[uint64]int) (uint64, bool) {
	if idx, ok := index[in.ProductID]; ok {
		return items[idx].Category.Resolved()
	}
	if in.CategoryID != nil && *in.CategoryID != 0 {
		return *in.CategoryID, true
	}
	return 0, false
}

func rankByHeuristic(
	items []domain.CatalogItem,
	index map[uint64]int,
	interactions []domain.Interaction,
	excluded map[uint64]struct{},
	jitter JitterSource,
	jitterScale float64,
	limit int,
) []scoredItem {
	scores := heuristicScores(items, index, interactions, jitter, jitterScale)
	return selectTop(items, scores, excluded, limit)
}
