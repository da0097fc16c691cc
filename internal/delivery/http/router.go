// Package http wires the delivery layer: routes, controllers, middleware.
package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conversationscheduler/internal/delivery/http/controllers"
	"conversationscheduler/internal/delivery/http/middleware"
	"conversationscheduler/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	authController *controllers.AuthController,
	userController *controllers.UserController,
	schedulingController *controllers.SchedulingController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Scheduling
	mux.HandleFunc("POST /scheduling/find-moments", auth(schedulingController.FindMoments))
	mux.HandleFunc("POST /scheduling/schedule", auth(schedulingController.Schedule))
	mux.HandleFunc("GET /scheduling/conversations", auth(schedulingController.ListConversations))
	mux.HandleFunc("GET /scheduling/compare-strategies", auth(schedulingController.CompareStrategies))
	mux.HandleFunc("GET /scheduling/strategies", schedulingController.ListStrategies)

	// Users
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me/scheduling-config", auth(userController.UpdateSchedulingConfig))

	// Health
	mux.HandleFunc("GET /health", schedulingController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
