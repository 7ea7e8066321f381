package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"board-service/internal/application/services"
	"board-service/internal/auth"
	"board-service/internal/config"
	"board-service/internal/delivery/handler"
	"board-service/internal/delivery/ws"
	"board-service/internal/domain/entities"
	"board-service/internal/infrastructure"
	"board-service/internal/infrastructure/db/postgres"
	"board-service/internal/infrastructure/email"
	"board-service/internal/infrastructure/messaging"
	"board-service/internal/infrastructure/metrics"
	"board-service/internal/seed"
	natsclient "board-service/libs/go/messaging/nats"
)

const serviceName = "board-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := cfg.NewLogger(os.Stdout)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Info("database ready", "driver", cfg.DBDriver)

	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	if cfg.SeedDemoData {
		result, err := seed.Run(ctx, seed.Repositories{Users: userRepo, Projects: projectRepo, Tickets: ticketRepo}, cfg.PasswordScheme, log)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info("demo data loaded", "users", result.Users, "projects", result.Projects, "tickets", result.Tickets)
	}

	store, closeStore, err := newTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	registry := auth.NewRegistry(store, userRepo)
	log.Info("token store ready", "store", cfg.TokenStore)

	if cfg.PasswordScheme == entities.PasswordPlain {
		log.Warn("passwords are stored and compared as plain text; set PASSWORD_SCHEME=bcrypt for new deployments")
	}

	hub := messaging.NewHub(log)
	var publisher messaging.Publisher = hub
	if cfg.NATSURL != "" {
		client, err := natsclient.Connect(cfg.NATSURL, natsclient.DefaultOptions(serviceName), log)
		if err != nil {
			return err
		}
		defer client.Close()
		if _, err := client.RespondHealth("board.health", serviceName); err != nil {
			return fmt.Errorf("subscribe health: %w", err)
		}
		publisher = messaging.Multi{hub, messaging.NewNATSPublisher(client)}
	}
	background := services.NewBackground(publisher, cfg.NotifyTimeout, log)

	notifier, err := email.New(cfg.EmailProvider, cfg.EmailAPIKey, cfg.EmailSender, log)
	if err != nil {
		return err
	}

	loginLimiter := infrastructure.NewRateLimiter(cfg.LoginRateLimitWindow, cfg.LoginRateLimitMax)
	if cfg.LoginRateLimitWindow > 0 {
		go loginLimiter.Run(ctx, cfg.LoginRateLimitWindow)
	}

	h := handler.NewHandler(
		services.NewAuthService(userRepo, registry, loginLimiter, hub, services.AuthConfig{
			SignupToken:    cfg.SignupToken,
			PasswordScheme: cfg.PasswordScheme,
		}, log),
		services.NewProjectService(projectRepo, background),
		services.NewTicketService(ticketRepo, projectRepo, userRepo, background),
		services.NewCommentService(commentRepo, ticketRepo, notifier, background),
	)
	stream := ws.NewHandler(registry, hub, cfg.CORSOrigins, log)

	e := handler.NewRouter(handler.RouterConfig{
		Handler:     h,
		Registry:    registry,
		Metrics:     metrics.New(registry, log),
		Limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		CORSOrigins: cfg.CORSOrigins,
		Stream:      stream.Serve,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	stream.Close()
	background.Wait()
	return nil
}

func newTokenStore(ctx context.Context, cfg *config.Config) (auth.TokenStore, func(), error) {
	if cfg.TokenStore != config.TokenStoreRedis {
		return auth.NewMemoryStore(), func() {}, nil
	}

	client, err := infrastructure.NewRedisClient(ctx, infrastructure.RedisConfig{
		URL:      cfg.RedisURL,
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	return infrastructure.NewRedisTokenStore(client), func() { client.Close() }, nil
}
