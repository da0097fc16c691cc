package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"conversationscheduler/internal/domain"
	"conversationscheduler/internal/scheduling"
)

var clockRegexp = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

type configurationService struct {
	userRepo domain.UserRepository
	defaults scheduling.Config
}

// NewConfigurationService creates a ConfigurationService over the given
// system defaults.
func NewConfigurationService(userRepo domain.UserRepository, defaults scheduling.Config) domain.ConfigurationService {
	return &configurationService{userRepo: userRepo, defaults: defaults}
}

func (s *configurationService) SystemDefaults() scheduling.Config {
	return cloneConfig(s.defaults)
}

func (s *configurationService) ConfigForUser(ctx context.Context, userID string) (scheduling.Config, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scheduling.Config{}, domain.ErrUserNotFound
		}
		return scheduling.Config{}, fmt.Errorf("failed to get user: %w", err)
	}
	return mergeOverrides(s.defaults, user.Overrides), nil
}

// mergeOverrides applies a user's overrides field-by-field over the system
// defaults. Nil override fields inherit the default.
func mergeOverrides(defaults scheduling.Config, o *domain.SchedulingOverrides) scheduling.Config {
	merged := cloneConfig(defaults)
	if o == nil {
		return merged
	}
	if o.WorkingHours != nil {
		if o.WorkingHours.Start != nil {
			merged.WorkingHours.Start = *o.WorkingHours.Start
		}
		if o.WorkingHours.End != nil {
			merged.WorkingHours.End = *o.WorkingHours.End
		}
	}
	if o.ExcludedDays != nil {
		merged.ExcludedDays = append([]time.Weekday(nil), (*o.ExcludedDays)...)
	}
	if o.MaxConversationsPerWeek != nil {
		merged.MaxConversationsPerWeek = *o.MaxConversationsPerWeek
	}
	if o.MinGapBetweenMeetings != nil {
		merged.MinGapBetweenMeetings = *o.MinGapBetweenMeetings
	}
	if o.ConversationDuration != nil {
		merged.ConversationDuration = *o.ConversationDuration
	}
	if o.BufferTimeBeforeMeeting != nil {
		merged.BufferTimeBeforeMeeting = *o.BufferTimeBeforeMeeting
	}
	return merged
}

func (s *configurationService) ValidateOverrides(o *domain.SchedulingOverrides) []string {
	if o == nil {
		return nil
	}
	var errs []string

	if o.WorkingHours != nil {
		start, end := o.WorkingHours.Start, o.WorkingHours.End
		if start != nil && !clockRegexp.MatchString(*start) {
			errs = append(errs, "working_hours.start must be in HH:MM format")
		}
		if end != nil && !clockRegexp.MatchString(*end) {
			errs = append(errs, "working_hours.end must be in HH:MM format")
		}
		if start != nil && end != nil &&
			clockRegexp.MatchString(*start) && clockRegexp.MatchString(*end) &&
			*start >= *end {
			errs = append(errs, "working_hours.start must be before working_hours.end")
		}
	}

	if o.ExcludedDays != nil {
		for _, day := range *o.ExcludedDays {
			if day < time.Sunday || day > time.Saturday {
				errs = append(errs, "excluded_days must contain values between 0 (Sunday) and 6 (Saturday)")
				break
			}
		}
	}

	if o.MaxConversationsPerWeek != nil && *o.MaxConversationsPerWeek < 0 {
		errs = append(errs, "max_conversations_per_week must be non-negative")
	}
	if o.MinGapBetweenMeetings != nil && *o.MinGapBetweenMeetings < 0 {
		errs = append(errs, "min_gap_between_meetings must be non-negative")
	}
	if o.ConversationDuration != nil && *o.ConversationDuration <= 0 {
		errs = append(errs, "conversation_duration must be positive")
	}
	if o.BufferTimeBeforeMeeting != nil && *o.BufferTimeBeforeMeeting < 0 {
		errs = append(errs, "buffer_time_before_meeting must be non-negative")
	}
	return errs
}

func cloneConfig(cfg scheduling.Config) scheduling.Config {
	cfg.ExcludedDays = append([]time.Weekday(nil), cfg.ExcludedDays...)
	return cfg
}
