package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"conversationscheduler/internal/domain"
	"conversationscheduler/internal/scheduling"
)

type schedulingService struct {
	convRepo       domain.ConversationRepository
	userRepo       domain.UserRepository
	calendar       domain.CalendarProvider
	configService  domain.ConfigurationService
	registry       *scheduling.Registry
	location       *time.Location
	contextTimeout time.Duration
}

// NewSchedulingService wires the engine to its collaborators: the booking
// ledger, the user store, the calendar provider, and the configuration
// resolver. location anchors the default "current week" computation.
func NewSchedulingService(
	convRepo domain.ConversationRepository,
	userRepo domain.UserRepository,
	calendar domain.CalendarProvider,
	configService domain.ConfigurationService,
	registry *scheduling.Registry,
	location *time.Location,
	timeout time.Duration,
) domain.SchedulingService {
	if location == nil {
		location = time.UTC
	}
	return &schedulingService{
		convRepo:       convRepo,
		userRepo:       userRepo,
		calendar:       calendar,
		configService:  configService,
		registry:       registry,
		location:       location,
		contextTimeout: timeout,
	}
}

func (s *schedulingService) FindOptimalMoments(ctx context.Context, userID, strategyName string, weekStart time.Time) (*domain.MomentsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strategyName == "" {
		strategyName = scheduling.StrategyConservative
	}
	// Resolve before any I/O so an unknown identifier fails fast.
	strategy, err := s.registry.Resolve(strategyName)
	if err != nil {
		return nil, err
	}

	if weekStart.IsZero() {
		weekStart = StartOfWeek(time.Now().In(s.location))
	}

	sc, events, err := s.buildContext(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	moments := strategy.FindOptimalMoments(sc)
	if moments == nil {
		moments = []scheduling.Moment{}
	}

	remaining := sc.Config.MaxConversationsPerWeek - len(sc.Existing)
	if remaining < 0 {
		remaining = 0
	}
	return &domain.MomentsResult{
		UserID:   userID,
		Strategy: strategy.Name(),
		Moments:  moments,
		WeekRange: domain.WeekRange{
			Start: weekStart,
			End:   endOfWeek(weekStart),
		},
		Metadata: domain.MomentsMetadata{
			EventsAnalyzed:        len(events),
			ExistingConversations: len(sc.Existing),
			RemainingCapacity:     remaining,
			Config:                sc.Config,
		},
	}, nil
}

func (s *schedulingService) ScheduleConversation(ctx context.Context, userID string, moment scheduling.Moment) (*domain.ScheduledConversation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	conv := domain.NewScheduledConversation(userID, moment, now, now)
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to store conversation: %w", err)
	}
	return conv, nil
}

func (s *schedulingService) ListConversations(ctx context.Context, userID string) ([]*domain.ScheduledConversation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	if convs == nil {
		convs = []*domain.ScheduledConversation{}
	}
	return convs, nil
}

func (s *schedulingService) CompareStrategies(ctx context.Context, userID string, weekStart time.Time) ([]domain.StrategyComparison, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if weekStart.IsZero() {
		weekStart = StartOfWeek(time.Now().In(s.location))
	}
	sc, _, err := s.buildContext(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	var results []domain.StrategyComparison
	for _, strategy := range s.registry.ListAll() {
		moments := strategy.FindOptimalMoments(sc)
		if moments == nil {
			moments = []scheduling.Moment{}
		}
		results = append(results, domain.StrategyComparison{
			Strategy: strategy.Name(),
			Moments:  moments,
		})
	}
	return results, nil
}

// buildContext assembles everything a strategy evaluation needs for one
// user and week. The returned events are the raw calendar entries, kept
// for response metadata.
func (s *schedulingService) buildContext(ctx context.Context, userID string, weekStart time.Time) (scheduling.Context, []domain.CalendarEvent, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return scheduling.Context{}, nil, err
	}

	cfg, err := s.configService.ConfigForUser(ctx, userID)
	if err != nil {
		return scheduling.Context{}, nil, fmt.Errorf("failed to resolve config: %w", err)
	}

	weekEnd := endOfWeek(weekStart)
	events, err := s.calendar.EventsForUser(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return scheduling.Context{}, nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	existing, err := s.convRepo.ListByUserWithinWindow(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return scheduling.Context{}, nil, fmt.Errorf("failed to load existing conversations: %w", err)
	}

	busy := make([]scheduling.BusyInterval, len(events))
	for i, ev := range events {
		busy[i] = scheduling.BusyInterval{Start: ev.StartTime, End: ev.EndTime}
	}
	bookings := make([]scheduling.Booking, len(existing))
	for i, conv := range existing {
		bookings[i] = scheduling.Booking{ScheduledAt: conv.ScheduledAt}
	}

	return scheduling.Context{
		UserID:    userID,
		Config:    cfg,
		Busy:      busy,
		Existing:  bookings,
		WeekStart: weekStart,
	}, events, nil
}

func (s *schedulingService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// StartOfWeek returns midnight on the Monday of t's week, in t's location.
func StartOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfWeek is the last represented instant of the 7-day window:
// 23:59:59.999 on the sixth day after weekStart.
func endOfWeek(weekStart time.Time) time.Time {
	y, m, d := weekStart.AddDate(0, 0, 6).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), weekStart.Location())
}
