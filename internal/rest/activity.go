package rest

import (
	"context"
	"marketReco/domain"
	"marketReco/pkg/logger"
	"marketReco/pkg/metrics"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type ActivityService interface {
	RecordInteraction(ctx context.Context, in *domain.Interaction) error
	GetPreferences(ctx context.Context, userID uint) (domain.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uint, prefs domain.Preferences) (domain.Preferences, error)
}

type ActivityHandler struct {
	activityService ActivityService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewActivityHandler(activityService ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type InteractionRequest struct {
	ProductID uint64            `json:"product_id" validate:"required,gt=0"`
	Type      string            `json:"type" validate:"required,oneof=view cart rating buy"`
	Metadata  datatypes.JSONMap `json:"metadata"`
}

type PreferencesRequest struct {
	Categories []uint64 `json:"categories" validate:"max=50,dive,gt=0"`
	Companies  []uint64 `json:"companies" validate:"max=50,dive,gt=0"`
}

// POST /api/v1/interactions
func (h *ActivityHandler) RecordInteraction(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok || userID == 0 {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	in := &domain.Interaction{
		UserID:    userID,
		ProductID: req.ProductID,
		Type:      domain.InteractionType(req.Type),
		Metadata:  req.Metadata,
	}
	if err := h.activityService.RecordInteraction(ctx, in); err != nil {
		logger.Error("Failed to record interaction", "error", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	metrics.InteractionsRecorded.WithLabelValues(req.Type).Inc()
	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(in))
}

// GET /api/v1/preferences
func (h *ActivityHandler) GetPreferences(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok || userID == 0 {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prefs, err := h.activityService.GetPreferences(ctx, userID)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(prefs))
}

// PUT /api/v1/preferences
func (h *ActivityHandler) UpdatePreferences(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok || userID == 0 {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prefs, err := h.activityService.UpdatePreferences(ctx, userID, domain.Preferences{
		Categories: req.Categories,
		Companies:  req.Companies,
	})
	if err != nil {
		logger.Error("Failed to update preferences", "error", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(prefs))
}

// statusFor maps the repository's sentinel messages onto HTTP status codes.
func statusFor(err error) int {
	switch err.Error() {
	case "user not found", "product not found", "category not found", "company not found":
		return http.StatusNotFound
	case "invalid user id", "invalid product id", "invalid interaction type":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
