package postgres

import (
	"context"
	"fmt"
	"marketReco/domain"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// FetchCatalogSnapshot loads every live product in id order together with its
// review ratings, and classifies its category and company references against
// the rows that actually exist.
func (r *CatalogRepository) FetchCatalogSnapshot(ctx context.Context) ([]domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	db := r.DB.WithContext(ctx)

	var products []domain.Product
	if err := db.Where("is_deleted = ?", false).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) == 0 {
		return []domain.CatalogItem{}, nil
	}

	var categoryIDs []uint64
	if err := db.Model(&domain.Category{}).Pluck("category_id", &categoryIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	var companyIDs []uint64
	if err := db.Model(&domain.Company{}).Pluck("company_id", &companyIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load companies: %w", err)
	}

	var reviews []domain.ProductReview
	err := db.Select("product_reviews.product_id, product_reviews.rating").
		Joins("JOIN products p ON p.id = product_reviews.product_id AND p.is_deleted = ?", false).
		Order("product_reviews.id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	categories := toSet(categoryIDs)
	companies := toSet(companyIDs)

	ratings := make(map[uint64][]float64)
	for _, rv := range reviews {
		ratings[rv.ProductID] = append(ratings[rv.ProductID], rv.Rating)
	}

	items := make([]domain.CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, domain.CatalogItem{
			Product:       p,
			Category:      categoryRef(p.CategoryID, categories),
			Company:       companyRef(p.CompanyID, companies),
			ReviewRatings: ratings[p.ID],
		})
	}

	return items, nil
}

// categoryRef treats a missing or zero category as a broken row.
func categoryRef(id *uint64, known map[uint64]struct{}) domain.Ref {
	if id == nil || *id == 0 {
		return domain.InvalidRef()
	}
	if _, ok := known[*id]; !ok {
		return domain.UnresolvedRef(*id)
	}
	return domain.ResolvedRef(*id)
}

// companyRef treats a missing company as optional rather than broken.
func companyRef(id *uint64, known map[uint64]struct{}) domain.Ref {
	if id == nil || *id == 0 {
		return domain.UnresolvedRef(0)
	}
	if _, ok := known[*id]; !ok {
		return domain.UnresolvedRef(*id)
	}
	return domain.ResolvedRef(*id)
}

func toSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
