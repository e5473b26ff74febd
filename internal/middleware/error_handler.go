package middleware

import (
	"errors"
	"marketReco/pkg/logger"
	"net/http"
	"strings"

	jsonres "marketReco/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers in the same envelope the
// auth middleware uses.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled error",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(HeaderRequestID),
			"error", err,
		)
	}

	body := jsonres.Error(statusCode(code), message, nil)

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, body)
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}

// statusCode turns 404 into NOT_FOUND and so on.
func statusCode(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
