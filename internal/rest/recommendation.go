package rest

import (
	"context"
	"marketReco/domain"
	"marketReco/pkg/metrics"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		service RecommendationService
		policy  SparsePolicy
		timeout time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, userID uint) []domain.Recommendation
		TopRated(ctx context.Context, userID uint, limit int) []domain.Recommendation
	}

	// SparsePolicy swaps a personalized list of at most Threshold items for the
	// top-rated list when that one is longer.
	SparsePolicy struct {
		Enabled   bool
		Threshold int
		Limit     int
	}

	RecommendationResponse struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
)

func NewRecommendationHandler(service RecommendationService, policy SparsePolicy) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		policy:  policy,
		timeout: 10 * time.Second,
	}
}

// GET /api/v1/recommendations
// Identity is optional; anonymous callers get the trending list.
func (h *RecommendationHandler) GetRecommendations(c echo.Context) error {
	userID, _ := c.Get("user_id").(uint)

	caller := "anonymous"
	if userID != 0 {
		caller = "identified"
	}
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.WithLabelValues(caller).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs := h.service.Recommend(ctx, userID)
	if userID != 0 {
		recs = h.backfill(ctx, userID, recs)
	}

	products := make([]domain.Product, 0, len(recs))
	for _, r := range recs {
		products = append(products, r.Product)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RecommendationResponse{
		Products: products,
		Count:    len(products),
	}))
}

func (h *RecommendationHandler) backfill(ctx context.Context, userID uint, recs []domain.Recommendation) []domain.Recommendation {
	if !h.policy.Enabled || len(recs) > h.policy.Threshold {
		return recs
	}

	alt := h.service.TopRated(ctx, userID, h.policy.Limit)
	if len(alt) > len(recs) {
		metrics.SparseBackfillTotal.WithLabelValues("replaced").Inc()
		return alt
	}

	metrics.SparseBackfillTotal.WithLabelValues("kept").Inc()
	return recs
}
