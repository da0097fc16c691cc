package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conversationscheduler/internal/domain"
	"conversationscheduler/internal/scheduling"
)

func TestConfigurationService_ConfigForUser(t *testing.T) {
	tests := []struct {
		name      string
		overrides *domain.SchedulingOverrides
		check     func(t *testing.T, cfg scheduling.Config)
	}{
		{
			name:      "no overrides inherits defaults",
			overrides: nil,
			check: func(t *testing.T, cfg scheduling.Config) {
				assert.Equal(t, "09:00", cfg.WorkingHours.Start)
				assert.Equal(t, 3, cfg.MaxConversationsPerWeek)
				assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, cfg.ExcludedDays)
			},
		},
		{
			name: "partial working hours override",
			overrides: &domain.SchedulingOverrides{
				WorkingHours: &domain.WorkingHoursOverride{Start: strPtr("08:00")},
			},
			check: func(t *testing.T, cfg scheduling.Config) {
				assert.Equal(t, "08:00", cfg.WorkingHours.Start)
				assert.Equal(t, "17:00", cfg.WorkingHours.End, "end inherits default")
			},
		},
		{
			name: "empty excluded days override clears defaults",
			overrides: &domain.SchedulingOverrides{
				ExcludedDays: weekdaysPtr(),
			},
			check: func(t *testing.T, cfg scheduling.Config) {
				assert.Empty(t, cfg.ExcludedDays)
			},
		},
		{
			name: "numeric overrides",
			overrides: &domain.SchedulingOverrides{
				MaxConversationsPerWeek: intPtr(5),
				MinGapBetweenMeetings:   intPtr(30),
				ConversationDuration:    intPtr(45),
				BufferTimeBeforeMeeting: intPtr(10),
			},
			check: func(t *testing.T, cfg scheduling.Config) {
				assert.Equal(t, 5, cfg.MaxConversationsPerWeek)
				assert.Equal(t, 30, cfg.MinGapBetweenMeetings)
				assert.Equal(t, 45, cfg.ConversationDuration)
				assert.Equal(t, 10, cfg.BufferTimeBeforeMeeting)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser()
			user.Overrides = tt.overrides
			svc := NewConfigurationService(newFakeUserRepo(user), defaultEngineConfig())

			cfg, err := svc.ConfigForUser(context.Background(), "user-1")
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfigurationService_UserNotFound(t *testing.T) {
	svc := NewConfigurationService(newFakeUserRepo(), defaultEngineConfig())

	_, err := svc.ConfigForUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConfigurationService_DefaultsAreIsolated(t *testing.T) {
	svc := NewConfigurationService(newFakeUserRepo(), defaultEngineConfig())

	first := svc.SystemDefaults()
	first.ExcludedDays[0] = time.Friday
	second := svc.SystemDefaults()
	assert.Equal(t, time.Sunday, second.ExcludedDays[0], "callers must not share backing arrays")
}

func TestConfigurationService_ValidateOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides *domain.SchedulingOverrides
		wantErrs  int
	}{
		{"nil overrides", nil, 0},
		{"valid overrides", &domain.SchedulingOverrides{
			WorkingHours:            &domain.WorkingHoursOverride{Start: strPtr("08:30"), End: strPtr("16:30")},
			ExcludedDays:            weekdaysPtr(time.Sunday),
			MaxConversationsPerWeek: intPtr(0),
		}, 0},
		{"malformed start", &domain.SchedulingOverrides{
			WorkingHours: &domain.WorkingHoursOverride{Start: strPtr("8am")},
		}, 1},
		{"inverted window", &domain.SchedulingOverrides{
			WorkingHours: &domain.WorkingHoursOverride{Start: strPtr("17:00"), End: strPtr("09:00")},
		}, 1},
		{"day out of range", &domain.SchedulingOverrides{
			ExcludedDays: weekdaysPtr(time.Weekday(7)),
		}, 1},
		{"negative quota", &domain.SchedulingOverrides{
			MaxConversationsPerWeek: intPtr(-1),
		}, 1},
		{"zero duration", &domain.SchedulingOverrides{
			ConversationDuration: intPtr(0),
		}, 1},
		{"several at once", &domain.SchedulingOverrides{
			WorkingHours:          &domain.WorkingHoursOverride{End: strPtr("25:00")},
			MinGapBetweenMeetings: intPtr(-5),
		}, 2},
	}

	svc := NewConfigurationService(newFakeUserRepo(), defaultEngineConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := svc.ValidateOverrides(tt.overrides)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}
