package activity

import (
	"context"
	"errors"
	"fmt"
	"marketReco/domain"
	"marketReco/pkg/logger"
	"time"
)

// ActivityRepository contract interface
type ActivityRepository interface {
	AppendInteraction(ctx context.Context, in *domain.Interaction) error
	GetPreferences(ctx context.Context, userID uint) (domain.Preferences, error)
	ReplacePreferences(ctx context.Context, userID uint, prefs domain.Preferences) error
}

type activityService struct {
	repo ActivityRepository
	now  func() time.Time
}

func NewActivityService(repo ActivityRepository) *activityService {
	return &activityService{
		repo: repo,
		now:  time.Now,
	}
}

func validInteractionType(t domain.InteractionType) bool {
	switch t {
	case domain.InteractionView, domain.InteractionCart, domain.InteractionRating, domain.InteractionBuy:
		return true
	}
	return false
}

func (s *activityService) RecordInteraction(ctx context.Context, in *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when record interaction")
		return fmt.Errorf("context error: %w", err)
	}

	if in.UserID == 0 {
		return errors.New("invalid user id")
	}
	if in.ProductID == 0 {
		return errors.New("invalid product id")
	}
	if !validInteractionType(in.Type) {
		return errors.New("invalid interaction type")
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = s.now()
	}

	if err := s.repo.AppendInteraction(ctx, in); err != nil {
		logger.Error("Failed to record interaction", "user_id", in.UserID, "product_id", in.ProductID, "error", err)
		return err
	}

	return nil
}

func (s *activityService) GetPreferences(ctx context.Context, userID uint) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 {
		return domain.Preferences{}, errors.New("invalid user id")
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		logger.Error("Failed to get preferences", "user_id", userID, "error", err)
		return domain.Preferences{}, err
	}

	return prefs, nil
}

// UpdatePreferences replaces the user's declared preferences and returns the stored result.
func (s *activityService) UpdatePreferences(ctx context.Context, userID uint, prefs domain.Preferences) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 {
		return domain.Preferences{}, errors.New("invalid user id")
	}

	if err := s.repo.ReplacePreferences(ctx, userID, prefs); err != nil {
		logger.Error("Failed to replace preferences", "user_id", userID, "error", err)
		return domain.Preferences{}, err
	}

	return s.repo.GetPreferences(ctx, userID)
}
