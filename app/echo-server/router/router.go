package router

import (
	"marketReco/internal/rest"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, optionalAuth echo.MiddlewareFunc) {
	api.GET("/recommendations", handler.GetRecommendations, optionalAuth)
}

func SetupActivityRoutes(api *echo.Group, handler *rest.ActivityHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/interactions", handler.RecordInteraction, authRequired)

	prefs := api.Group("/preferences", authRequired)
	prefs.GET("", handler.GetPreferences)
	prefs.PUT("", handler.UpdatePreferences)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, adminOnly)
	admin.GET("/vecmath", handler.GetVectorMath)
	admin.POST("/vecmath/recheck", handler.RecheckVectorMath)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
