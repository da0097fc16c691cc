package domain

import (
	"context"
	"time"

	"conversationscheduler/internal/scheduling"
)

// ScheduledConversation is a committed conversation booking
// swagger:model ScheduledConversation
type ScheduledConversation struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Confidence  float64   `json:"confidence"`
	Reason      string    `json:"reason"`
	Strategy    string    `json:"strategy"`
	IsCompleted bool      `json:"is_completed"`
	IsCancelled bool      `json:"is_cancelled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewScheduledConversation builds a booking from a recommended moment.
// ID is typically set by the repository on create.
func NewScheduledConversation(userID string, moment scheduling.Moment, createdAt, updatedAt time.Time) *ScheduledConversation {
	return &ScheduledConversation{
		UserID:      userID,
		ScheduledAt: moment.ScheduledAt,
		Confidence:  moment.Confidence,
		Reason:      moment.Reason,
		Strategy:    moment.Strategy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ConversationRepository is the booking ledger: it stores committed
// conversations and answers week-window queries used for quota counting.
// Cancelled conversations are excluded from all listings.
type ConversationRepository interface {
	Create(ctx context.Context, conv *ScheduledConversation) error
	ListByUser(ctx context.Context, userID string) ([]*ScheduledConversation, error)
	ListByUserWithinWindow(ctx context.Context, userID string, from, to time.Time) ([]*ScheduledConversation, error)
}

// WeekRange is the analysis window reported back to callers.
type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MomentsMetadata summarizes the context a recommendation was computed in.
type MomentsMetadata struct {
	EventsAnalyzed        int               `json:"events_analyzed"`
	ExistingConversations int               `json:"existing_conversations_this_week"`
	RemainingCapacity     int               `json:"remaining_capacity"`
	Config                scheduling.Config `json:"config"`
}

// MomentsResult is the outcome of a find-moments request.
// swagger:model MomentsResult
type MomentsResult struct {
	UserID    string              `json:"user_id"`
	Strategy  string              `json:"strategy"`
	Moments   []scheduling.Moment `json:"moments"`
	WeekRange WeekRange           `json:"week_range"`
	Metadata  MomentsMetadata     `json:"metadata"`
}

// StrategyComparison pairs a strategy name with its recommendations for
// one shared context.
type StrategyComparison struct {
	Strategy string              `json:"strategy"`
	Moments  []scheduling.Moment `json:"moments"`
}

// SchedulingService orchestrates the engine: it assembles a scheduling
// context from the user's config, calendar, and existing bookings, then
// dispatches to the selected strategy. If weekStart is the zero time, the
// Monday of the current week is used.
type SchedulingService interface {
	FindOptimalMoments(ctx context.Context, userID, strategy string, weekStart time.Time) (*MomentsResult, error)
	ScheduleConversation(ctx context.Context, userID string, moment scheduling.Moment) (*ScheduledConversation, error)
	ListConversations(ctx context.Context, userID string) ([]*ScheduledConversation, error)
	CompareStrategies(ctx context.Context, userID string, weekStart time.Time) ([]StrategyComparison, error)
}
