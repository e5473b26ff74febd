package middleware

import (
	"marketReco/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or mints one, echoes it back, and
// carries it on the request context as the trace id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(HeaderRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Response().Header().Set(HeaderRequestID, id)
			c.SetRequest(req.WithContext(recommendation.ContextWithTraceID(req.Context(), id)))
			c.Set("request_id", id)

			return next(c)
		}
	}
}
