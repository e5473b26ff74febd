package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketReco/domain"

	"gorm.io/gorm"
)

type UserHistoryRepository struct {
	DB       *gorm.DB
	products *ProductRepository
}

func NewUserHistoryRepository(db *gorm.DB) *UserHistoryRepository {
	return &UserHistoryRepository{
		DB:       db,
		products: NewProductRepository(db),
	}
}

// FetchUser returns the user's interaction log, oldest first, and declared
// preferences. It returns nil, nil when the user does not exist.
func (r *UserHistoryRepository) FetchUser(ctx context.Context, userID uint) (*domain.UserHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	exists, err := r.userExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var interactions []domain.Interaction
	err = r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	prefs, err := r.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UserHistory{
		UserID:       userID,
		Interactions: interactions,
		Preferences:  prefs,
	}, nil
}

// AppendInteraction records one interaction. The product's current category is
// stored alongside when the caller did not supply one.
func (r *UserHistoryRepository) AppendInteraction(ctx context.Context, in *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	exists, err := r.userExists(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("user not found")
	}

	product, err := r.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return err
	}

	if in.CategoryID == nil {
		in.CategoryID = product.CategoryID
	}

	if err := r.DB.WithContext(ctx).Create(in).Error; err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	return nil
}

func (r *UserHistoryRepository) GetPreferences(ctx context.Context, userID uint) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, fmt.Errorf("context error: %w", err)
	}

	prefs := domain.Preferences{Categories: []uint64{}, Companies: []uint64{}}

	err := r.DB.WithContext(ctx).
		Model(&domain.UserPreferredCategory{}).
		Where("user_id = ?", userID).
		Order("category_id ASC").
		Pluck("category_id", &prefs.Categories).Error
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferred categories: %w", err)
	}

	err = r.DB.WithContext(ctx).
		Model(&domain.UserPreferredCompany{}).
		Where("user_id = ?", userID).
		Order("company_id ASC").
		Pluck("company_id", &prefs.Companies).Error
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to load preferred companies: %w", err)
	}

	return prefs, nil
}

// ReplacePreferences swaps the user's declared preferences in one transaction.
// Every referenced category and company must exist.
func (r *UserHistoryRepository) ReplacePreferences(ctx context.Context, userID uint, prefs domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	exists, err := r.userExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("user not found")
	}

	categories := dedupe(prefs.Categories)
	companies := dedupe(prefs.Companies)

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll(tx, &domain.Category{}, "category_id", categories); err != nil {
			return fmt.Errorf("category %w", err)
		}
		if err := requireAll(tx, &domain.Company{}, "company_id", companies); err != nil {
			return fmt.Errorf("company %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserPreferredCategory{}).Error; err != nil {
			return fmt.Errorf("failed to clear preferred categories: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserPreferredCompany{}).Error; err != nil {
			return fmt.Errorf("failed to clear preferred companies: %w", err)
		}

		if len(categories) > 0 {
			rows := make([]domain.UserPreferredCategory, 0, len(categories))
			for _, id := range categories {
				rows = append(rows, domain.UserPreferredCategory{UserID: userID, CategoryID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to store preferred categories: %w", err)
			}
		}
		if len(companies) > 0 {
			rows := make([]domain.UserPreferredCompany, 0, len(companies))
			for _, id := range companies {
				rows = append(rows, domain.UserPreferredCompany{UserID: userID, CompanyID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to store preferred companies: %w", err)
			}
		}

		return nil
	})
}

func (r *UserHistoryRepository) userExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	return count > 0, nil
}

// requireAll fails with "not found" unless every id has a row in model's table.
func requireAll(tx *gorm.DB, model interface{}, column string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where(column+" IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if count != int64(len(ids)) {
		return errors.New("not found")
	}
	return nil
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
