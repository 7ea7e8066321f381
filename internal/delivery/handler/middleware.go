package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"board-service/internal/auth"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
	"board-service/internal/infrastructure/metrics"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// RequireToken resolves the "Authorization: Token <tok>" header and stores
// the user and raw token on the context.
func RequireToken(registry *auth.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.TokenFromHeader(c.Request().Header.Get(auth.HeaderName))
			if err != nil {
				return err
			}

			user, err := registry.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userKey, user)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *entities.User {
	user, _ := c.Get(userKey).(*entities.User)
	return user
}

func CurrentToken(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}

// RateLimit applies one token bucket to all traffic.
func RateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := limiter.Reserve()
			if !r.OK() {
				return domain.RateLimited("Too many requests")
			}
			if delay := r.Delay(); delay > 0 {
				r.Cancel()
				return domain.RateLimitedFor("Too many requests", delay)
			}
			return next(c)
		}
	}
}

// Observe records every request against its route template. Errors are
// rendered here so the recorded status is the one the client sees; the error
// is still returned so outer middleware can log it, and echo skips the
// already committed response.
func Observe(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.Observe(c.Request().Method, path, c.Response().Status, time.Since(start))
			return err
		}
	}
}

func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
