package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"board-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

var kindStatus = []struct {
	kind   error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
}

// statusFor maps an error to the response status and the message shown to
// the client.
func statusFor(err error) (int, string) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		for _, ks := range kindStatus {
			if errors.Is(domainErr, ks.kind) {
				return ks.status, domainErr.Message
			}
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, http.StatusText(httpErr.Code)
		}
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	return http.StatusInternalServerError, "internal server error"
}

func retryAfter(err error) time.Duration {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr.RetryAfter
	}
	return 0
}

// NewErrorHandler replaces echo's default so every failure, including
// unknown routes and bad methods, uses the {"error": ...} envelope.
func NewErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			message = "internal server error"
		}
		if wait := retryAfter(err); wait > 0 {
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Error: message})
		}
		if err != nil {
			log.Error("write error response", "error", err)
		}
	}
}
