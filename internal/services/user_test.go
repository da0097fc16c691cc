package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conversationscheduler/internal/domain"
)

type fakeHasher struct {
	saltErr error
	hashErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakeHasher) Hash(salt, password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return fmt.Sprintf("hash(%s|%s)", salt, password), nil
}

func (f *fakeHasher) Compare(hash, salt, password string) error {
	if hash != fmt.Sprintf("hash(%s|%s)", salt, password) {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func newTestUserService(repo *fakeUserRepo) domain.UserService {
	configSvc := NewConfigurationService(repo, defaultEngineConfig())
	return NewUserService(repo, &fakeHasher{}, &fakeIssuer{}, time.Hour, configSvc, 2*time.Second)
}

func TestUserService_SignUp(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.SignUp(context.Background(), "  Ada@Example.COM ", "correct-horse", "Ada", "Lovelace")
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "ada@example.com", user.Email, "email is normalized")
	assert.Equal(t, "hash(salt|correct-horse)", user.PasswordHash)
	assert.Equal(t, "salt", user.Salt)
	assert.True(t, user.IsActive)
}

func TestUserService_SignUpValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing at sign", "ada.example.com", "correct-horse"},
		{"empty email", "", "correct-horse"},
		{"short password", "ada@example.com", "short"},
	}

	svc := newTestUserService(newFakeUserRepo())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tt.email, tt.password, "Ada", "Lovelace")
			assert.Error(t, err)
		})
	}
}

func TestUserService_SignUpDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.SignUp(context.Background(), "ada@example.com", "correct-horse", "Ada", "Lovelace")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "ADA@example.com", "correct-horse", "Ada", "Lovelace")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	_, err := svc.SignUp(context.Background(), "ada@example.com", "correct-horse", "Ada", "Lovelace")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "token-for-user-1", token)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestUserService_LoginInvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	_, err := svc.SignUp(context.Background(), "ada@example.com", "correct-horse", "Ada", "Lovelace")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ada@example.com", "wrong-horse")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_GetByID(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(testUser()))

	user, err := svc.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = svc.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_UpdateSchedulingOverrides(t *testing.T) {
	repo := newFakeUserRepo(testUser())
	svc := newTestUserService(repo)

	user, err := svc.UpdateSchedulingOverrides(context.Background(), "user-1", &domain.SchedulingOverrides{
		MaxConversationsPerWeek: intPtr(5),
	})
	require.NoError(t, err)
	require.NotNil(t, user.Overrides)
	assert.Equal(t, 5, *user.Overrides.MaxConversationsPerWeek)

	// A later partial update keeps earlier customizations.
	user, err = svc.UpdateSchedulingOverrides(context.Background(), "user-1", &domain.SchedulingOverrides{
		WorkingHours: &domain.WorkingHoursOverride{Start: strPtr("10:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, *user.Overrides.MaxConversationsPerWeek)
	assert.Equal(t, "10:00", *user.Overrides.WorkingHours.Start)
}

func TestUserService_UpdateSchedulingOverridesRejectsInvalid(t *testing.T) {
	repo := newFakeUserRepo(testUser())
	svc := newTestUserService(repo)

	_, err := svc.UpdateSchedulingOverrides(context.Background(), "user-1", &domain.SchedulingOverrides{
		WorkingHours: &domain.WorkingHoursOverride{Start: strPtr("25:00")},
	})
	require.Error(t, err)
	assert.Nil(t, repo.byID["user-1"].Overrides, "invalid overrides must not be stored")
}

func TestUserService_SeedDemoUsers(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	users, err := svc.SeedDemoUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "motune@koyejo.com", users[0].Email)
	require.NotNil(t, users[0].Overrides)
	assert.Equal(t, 2, *users[0].Overrides.MaxConversationsPerWeek)
	assert.Nil(t, users[2].Overrides)

	// Seeding is idempotent: a second call creates nothing new.
	again, err := svc.SeedDemoUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 3)
	count, _ := repo.Count(context.Background())
	assert.Equal(t, 3, count)
}
