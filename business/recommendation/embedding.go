package recommendation

import (
	"marketReco/domain"
	"marketReco/pkg/logger"
)

// filterCatalog drops items whose category reference is structurally invalid.
// Dangling references are kept; they embed as an all-zero category block.
func filterCatalog(items []domain.CatalogItem) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	dropped := 0
	for _, it := range items {
		if it.Category.State() == domain.RefInvalid {
			dropped++
			logger.Warn("skipping product with invalid category reference", "product_id", it.Product.ID)
			continue
		}
		out = append(out, it)
	}
	if dropped > 0 {
		logger.Info("catalog integrity filter applied", "dropped", dropped, "kept", len(out))
	}
	return out
}

// embedItem maps an item to
// [company one-hot | category one-hot | rating/5 | mean(review ratings)/5].
func embedItem(it domain.CatalogItem, vocab Vocabulary) []float64 {
	nComp := vocab.NumCompanies()
	vec := make([]float64, vocab.itemVectorLen())

	if id, ok := it.Company.Resolved(); ok {
		if idx, ok := vocab.CompanyIndex(id); ok {
			vec[idx] = 1
		}
	}
	if id, ok := it.Category.Resolved(); ok {
		if idx, ok := vocab.CategoryIndex(id); ok {
			vec[nComp+idx] = 1
		}
	}

	base := vocab.identityLen()
	if it.Product.Rating != nil {
		vec[base] = *it.Product.Rating / maxQuality
	}
	vec[base+1] = meanRating(it.ReviewRatings) / maxQuality

	return vec
}

func meanRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

// embedCatalog embeds every item; vectors[i] belongs to items[i].
func embedCatalog(items []domain.CatalogItem, vocab Vocabulary) [][]float64 {
	vectors := make([][]float64, len(items))
	for i, it := range items {
		vectors[i] = embedItem(it, vocab)
	}
	return vectors
}
