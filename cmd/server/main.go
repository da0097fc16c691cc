// @title Conversation Scheduler API
// @version 1.0
// @description Finds and books optimal conversation moments around a user's calendar.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"conversationscheduler/config"
	_ "conversationscheduler/docs"
	"conversationscheduler/internal/adapters/auth"
	"conversationscheduler/internal/adapters/calendar"
	"conversationscheduler/internal/adapters/email"
	delivery "conversationscheduler/internal/delivery/http"
	"conversationscheduler/internal/delivery/http/controllers"
	"conversationscheduler/internal/delivery/http/middleware"
	"conversationscheduler/internal/repository/postgres"
	"conversationscheduler/internal/scheduling"
	"conversationscheduler/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	convRepo := postgres.NewConversationRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SES.Region,
			AccessKeyID:        cfg.Email.SES.AccessKeyID,
			SecretAccessKey:    cfg.Email.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.Email.SES.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()
	calendarProvider := calendar.NewFakeProvider()

	location := cfg.Location()
	registry := scheduling.NewRegistry()
	configSvc := services.NewConfigurationService(userRepo, cfg.SchedulingDefaults)
	userSvc := services.NewUserService(userRepo, hasher, issuer, cfg.TokenExpiry, configSvc, serviceTimeout)
	schedulingSvc := services.NewSchedulingService(convRepo, userRepo, calendarProvider, configSvc, registry, location, serviceTimeout)
	digest := services.NewDigestService(userSvc, schedulingSvc, renderer, mailer, logger, cfg.DigestCron, location)

	authController := controllers.NewAuthController(logger, userSvc)
	userController := controllers.NewUserController(logger, userSvc, configSvc)
	schedulingController := controllers.NewSchedulingController(logger, schedulingSvc, registry)

	mux := delivery.NewRouter(authController, userController, schedulingController, verifier)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSOrigins, mux))

	if err := digest.Start(); err != nil {
		logger.Error("failed to start digest job", "err", err)
		os.Exit(1)
	}
	defer digest.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
