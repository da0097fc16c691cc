// Command seed creates the demo accounts used for local development. It is
// a no-op when the database already has users.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"conversationscheduler/config"
	"conversationscheduler/internal/adapters/auth"
	"conversationscheduler/internal/repository/postgres"
	"conversationscheduler/internal/services"
)

const seedTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	configSvc := services.NewConfigurationService(userRepo, cfg.SchedulingDefaults)
	userSvc := services.NewUserService(userRepo, hasher, issuer, cfg.TokenExpiry, configSvc, seedTimeout)

	users, err := userSvc.SeedDemoUsers(ctx)
	if err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	for _, u := range users {
		fmt.Printf("%s  %s (%s)\n", u.ID, u.Email, u.FullName())
	}
	logger.Info("seed complete", "users", len(users))
}
