package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "conversationscheduler/internal/delivery/http/helpers"
	"conversationscheduler/internal/delivery/http/middleware"
	"conversationscheduler/internal/domain"
)

// UserController handles user profile and scheduling configuration endpoints.
type UserController struct {
	Logger        *slog.Logger
	Service       domain.UserService
	ConfigService domain.ConfigurationService
}

// NewUserController creates a UserController with the given logger and services.
func NewUserController(logger *slog.Logger, svc domain.UserService, configSvc domain.ConfigurationService) *UserController {
	return &UserController{
		Logger:        logger,
		Service:       svc,
		ConfigService: configSvc,
	}
}

// MeResponse is the response body for GET /users/me. EffectiveConfig is the
// user's overrides merged over the system defaults.
type MeResponse struct {
	User            *domain.User `json:"user"`
	EffectiveConfig any          `json:"effective_scheduling_config"`
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile and effective scheduling configuration. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user and effective config"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	cfg, err := c.ConfigService.ConfigForUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MeResponse{User: user, EffectiveConfig: cfg})
}

// UpdateSchedulingConfig godoc
// @Summary Update scheduling configuration
// @Description Layer partial scheduling overrides over the authenticated user's stored ones. Omitted fields keep their current value. Requires Bearer token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.SchedulingOverrides true "Override fields (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/scheduling-config [patch]
func (c *UserController) UpdateSchedulingConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var overrides domain.SchedulingOverrides
	if !h.DecodeAndValidate(w, r, &overrides) {
		return
	}
	user, err := c.Service.UpdateSchedulingOverrides(r.Context(), userID, &overrides)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		if strings.Contains(err.Error(), "invalid scheduling overrides") {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
