package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"conversationscheduler/internal/domain"
)

const minPasswordLength = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	configService  domain.ConfigurationService
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repository and auth ports.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, configService domain.ConfigurationService, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		configService:  configService,
		contextTimeout: timeout,
	}
}

func (s *userService) SignUp(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(email, strings.TrimSpace(firstName), strings.TrimSpace(lastName), now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateSchedulingOverrides(ctx context.Context, userID string, overrides *domain.SchedulingOverrides) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if errs := s.configService.ValidateOverrides(overrides); len(errs) > 0 {
		return nil, fmt.Errorf("invalid scheduling overrides: %s", strings.Join(errs, "; "))
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := mergeUserOverrides(user.Overrides, overrides)
	if err := s.userRepo.UpdateOverrides(ctx, userID, merged); err != nil {
		return nil, fmt.Errorf("failed to update overrides: %w", err)
	}
	user.Overrides = merged
	return user, nil
}

// mergeUserOverrides layers new override fields over the stored ones, so a
// partial update does not wipe previously customized fields.
func mergeUserOverrides(current, update *domain.SchedulingOverrides) *domain.SchedulingOverrides {
	if current == nil {
		return update
	}
	if update == nil {
		return current
	}
	merged := *current
	if update.WorkingHours != nil {
		merged.WorkingHours = update.WorkingHours
	}
	if update.ExcludedDays != nil {
		merged.ExcludedDays = update.ExcludedDays
	}
	if update.MaxConversationsPerWeek != nil {
		merged.MaxConversationsPerWeek = update.MaxConversationsPerWeek
	}
	if update.MinGapBetweenMeetings != nil {
		merged.MinGapBetweenMeetings = update.MinGapBetweenMeetings
	}
	if update.ConversationDuration != nil {
		merged.ConversationDuration = update.ConversationDuration
	}
	if update.BufferTimeBeforeMeeting != nil {
		merged.BufferTimeBeforeMeeting = update.BufferTimeBeforeMeeting
	}
	return &merged
}

func (s *userService) ListActive(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// SeedDemoUsers creates a small set of demo accounts with representative
// scheduling overrides. It is a no-op when users already exist.
func (s *userService) SeedDemoUsers(ctx context.Context) ([]*domain.User, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return s.ListActive(ctx)
	}

	seeds := []struct {
		email, firstName, lastName string
		overrides                  *domain.SchedulingOverrides
	}{
		{
			email: "motune@koyejo.com", firstName: "Motunrayo", lastName: "Koyejo",
			overrides: &domain.SchedulingOverrides{
				WorkingHours:            &domain.WorkingHoursOverride{Start: strPtr("08:00"), End: strPtr("16:00")},
				MaxConversationsPerWeek: intPtr(2),
			},
		},
		{
			email: "alayo@motune.com", firstName: "Alayo", lastName: "Koyejo",
			overrides: &domain.SchedulingOverrides{
				ExcludedDays:          weekdaysPtr(time.Sunday, time.Monday, time.Saturday),
				MinGapBetweenMeetings: intPtr(30),
			},
		},
		{
			email: "bimpe@motune.com", firstName: "Bimpe", lastName: "Koyejo",
		},
	}

	var users []*domain.User
	for _, seed := range seeds {
		user, err := s.SignUp(ctx, seed.email, "demo-password-1", seed.firstName, seed.lastName)
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", seed.email, err)
		}
		if seed.overrides != nil {
			user, err = s.UpdateSchedulingOverrides(ctx, user.ID, seed.overrides)
			if err != nil {
				return nil, fmt.Errorf("failed to seed overrides for %s: %w", seed.email, err)
			}
		}
		users = append(users, user)
	}
	return users, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func weekdaysPtr(days ...time.Weekday) *[]time.Weekday { return &days }
