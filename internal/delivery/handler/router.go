package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"board-service/internal/auth"
	"board-service/internal/infrastructure/metrics"
)

type RouterConfig struct {
	Handler     *Handler
	Registry    *auth.Registry
	Metrics     *metrics.Metrics
	Limiter     *rate.Limiter
	CORSOrigins []string
	// Stream serves /ws when set.
	Stream echo.HandlerFunc
	Log    *slog.Logger
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(cfg.Log)

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(cfg.Log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, auth.HeaderName},
	}))
	e.Use(Observe(cfg.Metrics))
	e.Use(middleware.Recover())
	if cfg.Limiter != nil {
		e.Use(RateLimit(cfg.Limiter))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	if cfg.Stream != nil {
		e.GET("/ws", cfg.Stream)
	}

	cfg.Handler.Register(e, RequireToken(cfg.Registry))
	return e
}
