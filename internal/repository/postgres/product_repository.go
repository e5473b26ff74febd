package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketReco/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

// FindByID returns a live product; soft-deleted products are reported as not found.
func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).Where("is_deleted = ?", false).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, errors.New("product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindByIDs returns the live products among ids, in no particular order.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

// AggregateSalesByProduct sums sold quantity per live product, best sellers first.
func (r *ProductRepository) AggregateSalesByProduct(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ProductSales
	err := r.DB.WithContext(ctx).
		Table("sales_history AS s").
		Select("s.product_id AS product_id, SUM(s.quantity) AS total_sold").
		Joins("JOIN products p ON p.id = s.product_id").
		Where("p.is_deleted = ?", false).
		Group("s.product_id").
		Order("total_sold DESC, s.product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	return rows, nil
}

func (r *ProductRepository) FindRecent(ctx context.Context, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindTopRated(ctx context.Context, minRating float64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("is_deleted = ? AND rating IS NOT NULL AND rating >= ?", false, minRating).
		Order("rating DESC, id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find top rated products: %w", err)
	}

	return products, nil
}
