package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "conversationscheduler/internal/delivery/http/helpers"
	"conversationscheduler/internal/delivery/http/middleware"
	"conversationscheduler/internal/domain"
	"conversationscheduler/internal/scheduling"
)

// FindMomentsRequest is the request body for POST /scheduling/find-moments.
// Strategy defaults to conservative; week_start defaults to the current week.
type FindMomentsRequest struct {
	Strategy  string `json:"strategy"`
	WeekStart string `json:"week_start"`
}

// Validate implements Validator.
func (f FindMomentsRequest) Validate() []string {
	var errs []string
	if f.WeekStart != "" {
		if _, err := parseWeekStart(f.WeekStart); err != nil {
			errs = append(errs, "week_start must be an RFC3339 timestamp or YYYY-MM-DD date")
		}
	}
	return errs
}

// ScheduleRequest is the request body for POST /scheduling/schedule.
type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Confidence  float64   `json:"confidence"`
	Reason      string    `json:"reason"`
	Strategy    string    `json:"strategy"`
}

// Validate implements Validator.
func (s ScheduleRequest) Validate() []string {
	var errs []string
	if s.ScheduledAt.IsZero() {
		errs = append(errs, "scheduled_at is required")
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		errs = append(errs, "confidence must be between 0 and 1")
	}
	return errs
}

// StrategyInfo describes one available strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategiesResponse is the response body for GET /scheduling/strategies.
type StrategiesResponse struct {
	Strategies []StrategyInfo `json:"strategies"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

var strategyDescriptions = map[string]string{
	scheduling.StrategyAggressive:   "Prioritizes immediate scheduling, finds any available slot with minimal requirements",
	scheduling.StrategyConservative: "Optimizes for quality interactions, seeks optimal time periods with generous buffers",
}

// SchedulingController handles moment discovery and conversation booking.
type SchedulingController struct {
	Logger   *slog.Logger
	Service  domain.SchedulingService
	Registry *scheduling.Registry
}

// NewSchedulingController creates a SchedulingController with the given logger, service, and registry.
func NewSchedulingController(logger *slog.Logger, svc domain.SchedulingService, registry *scheduling.Registry) *SchedulingController {
	return &SchedulingController{
		Logger:   logger,
		Service:  svc,
		Registry: registry,
	}
}

// FindMoments godoc
// @Summary Find optimal conversation moments
// @Description Analyze the caller's calendar and return recommended moments for the given week using the selected strategy. Requires Bearer token.
// @Tags scheduling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FindMomentsRequest true "Strategy and week (both optional)"
// @Success 200 {object} helpers.APIResponse "data contains the moments result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /scheduling/find-moments [post]
func (c *SchedulingController) FindMoments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req FindMomentsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	weekStart, _ := parseWeekStart(req.WeekStart)

	result, err := c.Service.FindOptimalMoments(r.Context(), userID, req.Strategy, weekStart)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// Schedule godoc
// @Summary Schedule a conversation
// @Description Persist a recommended moment as a committed conversation for the caller. Requires Bearer token.
// @Tags scheduling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScheduleRequest true "Moment to schedule"
// @Success 201 {object} helpers.APIResponse "data contains the scheduled conversation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /scheduling/schedule [post]
func (c *SchedulingController) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ScheduleRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	moment := scheduling.Moment{
		ScheduledAt: req.ScheduledAt,
		Confidence:  req.Confidence,
		Reason:      req.Reason,
		Strategy:    req.Strategy,
	}
	conv, err := c.Service.ScheduleConversation(r.Context(), userID, moment)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, conv)
}

// ListConversations godoc
// @Summary List scheduled conversations
// @Description Returns the caller's scheduled conversations, earliest first. Cancelled conversations are excluded. Requires Bearer token.
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the conversations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /scheduling/conversations [get]
func (c *SchedulingController) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	convs, err := c.Service.ListConversations(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, convs)
}

// CompareStrategies godoc
// @Summary Compare scheduling strategies
// @Description Runs every strategy against the same week and returns their recommendations side by side. Requires Bearer token.
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Param week_start query string false "Week start (RFC3339 or YYYY-MM-DD); defaults to the current week"
// @Success 200 {object} helpers.APIResponse "data contains per-strategy results"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /scheduling/compare-strategies [get]
func (c *SchedulingController) CompareStrategies(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var weekStart time.Time
	if s := r.URL.Query().Get("week_start"); s != "" {
		parsed, err := parseWeekStart(s)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "week_start must be an RFC3339 timestamp or YYYY-MM-DD date")
			return
		}
		weekStart = parsed
	}
	results, err := c.Service.CompareStrategies(r.Context(), userID, weekStart)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, results)
}

// ListStrategies godoc
// @Summary List available strategies
// @Description Returns the names and descriptions of the registered scheduling strategies.
// @Tags scheduling
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the strategies"
// @Router /scheduling/strategies [get]
func (c *SchedulingController) ListStrategies(w http.ResponseWriter, r *http.Request) {
	var infos []StrategyInfo
	for _, name := range c.Registry.Names() {
		infos = append(infos, StrategyInfo{
			Name:        name,
			Description: strategyDescriptions[name],
		})
	}
	h.WriteJSONSuccess(w, http.StatusOK, StrategiesResponse{Strategies: infos})
}

// Health godoc
// @Summary Health check
// @Description Returns service status and the current timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status, timestamp, and service"
// @Router /health [get]
func (c *SchedulingController) Health(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONSuccess(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "scheduling",
	})
}

func (c *SchedulingController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
	case errors.Is(err, scheduling.ErrUnknownStrategy):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}

// parseWeekStart accepts an RFC3339 timestamp or a bare date. An empty
// string means "current week" and maps to the zero time.
func parseWeekStart(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
