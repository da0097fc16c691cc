package domain

import (
	"context"
	"errors"
	"time"

	"conversationscheduler/internal/scheduling"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string               `json:"id"`
	Email        string               `json:"email"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	PasswordHash string               `json:"-"`
	Salt         string               `json:"-"`
	Overrides    *SchedulingOverrides `json:"scheduling_overrides,omitempty"`
	IsActive     bool                 `json:"is_active"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewUser returns a new active User with the given fields. ID is typically set by the repository on create.
func NewUser(email, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// FullName joins first and last name, falling back to the email.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// WorkingHoursOverride overrides the working window. Each edge is
// independently overridable; nil means "inherit the system default".
type WorkingHoursOverride struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

// SchedulingOverrides is a user's partial scheduling policy, merged
// field-by-field over the system defaults. Nil fields inherit.
// swagger:model SchedulingOverrides
type SchedulingOverrides struct {
	WorkingHours            *WorkingHoursOverride `json:"working_hours,omitempty"`
	ExcludedDays            *[]time.Weekday       `json:"excluded_days,omitempty"`
	MaxConversationsPerWeek *int                  `json:"max_conversations_per_week,omitempty"`
	MinGapBetweenMeetings   *int                  `json:"min_gap_between_meetings,omitempty"`
	ConversationDuration    *int                  `json:"conversation_duration,omitempty"`
	BufferTimeBeforeMeeting *int                  `json:"buffer_time_before_meeting,omitempty"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateOverrides(ctx context.Context, userID string, overrides *SchedulingOverrides) error
	ListActive(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int, error)
}

// UserService defines the business logic for user accounts and authentication.
type UserService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateSchedulingOverrides(ctx context.Context, userID string, overrides *SchedulingOverrides) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
	SeedDemoUsers(ctx context.Context) ([]*User, error)
}

// ConfigurationService resolves the effective scheduling policy for a user
// by merging their overrides over the system defaults. The engine trusts
// the result, so ValidateOverrides must run before overrides are stored.
type ConfigurationService interface {
	SystemDefaults() scheduling.Config
	ConfigForUser(ctx context.Context, userID string) (scheduling.Config, error)
	ValidateOverrides(overrides *SchedulingOverrides) []string
}
