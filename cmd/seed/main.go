package main

import (
	"context"
	"fmt"
	"os"

	"board-service/internal/config"
	"board-service/internal/infrastructure/db/postgres"
	"board-service/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := cfg.NewLogger(os.Stdout)

	db, err := postgres.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}

	result, err := seed.Run(context.Background(), seed.Repositories{
		Users:    postgres.NewUserRepository(db),
		Projects: postgres.NewProjectRepository(db),
		Tickets:  postgres.NewTicketRepository(db),
	}, cfg.PasswordScheme, log)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete", "users", result.Users, "projects", result.Projects, "tickets", result.Tickets)
}
