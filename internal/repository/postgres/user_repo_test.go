package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conversationscheduler/internal/domain"
)

var userCols = []string{
	"id", "email", "password_hash", "salt", "first_name", "last_name",
	"scheduling_overrides", "is_active", "created_at", "updated_at",
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		user    *domain.User
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			user: &domain.User{
				Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
				PasswordHash: "hash", Salt: "salt", IsActive: true,
				CreatedAt: now, UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("ada@example.com", "hash", "salt", "Ada", "Lovelace", nil, true, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			user: &domain.User{Email: "taken@example.com", CreatedAt: now, UpdatedAt: now},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			user: &domain.User{Email: "a@b.com", CreatedAt: now, UpdatedAt: now},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			err = repo.Create(ctx, tt.user)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "user-uuid-1", tt.user.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("decodes overrides from jsonb", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("user-uuid-1").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(
				"user-uuid-1", "ada@example.com", "hash", "salt", "Ada", "Lovelace",
				[]byte(`{"max_conversations_per_week":2}`), true, now, now,
			))

		repo := NewUserRepository(db)
		u, err := repo.GetByID(ctx, "user-uuid-1")
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", u.Email)
		require.NotNil(t, u.Overrides)
		require.Equal(t, 2, *u.Overrides.MaxConversationsPerWeek)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null overrides stays nil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("user-uuid-1").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(
				"user-uuid-1", "ada@example.com", "hash", "salt", "Ada", "Lovelace",
				nil, true, now, now,
			))

		repo := NewUserRepository(db)
		u, err := repo.GetByID(ctx, "user-uuid-1")
		require.NoError(t, err)
		require.Nil(t, u.Overrides)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows passes through", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByID(ctx, "ghost")
		require.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateOverrides(t *testing.T) {
	ctx := context.Background()
	two := 2
	overrides := &domain.SchedulingOverrides{MaxConversationsPerWeek: &two}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs([]byte(`{"max_conversations_per_week":2}`), "user-uuid-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found zero rows affected",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs(sqlmock.AnyArg(), "user-uuid-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrUserNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			err = repo.UpdateOverrides(ctx, "user-uuid-1", overrides)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_ListActiveAndCount(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("user-1", "ada@example.com", "h", "s", "Ada", "Lovelace", nil, true, now, now).
			AddRow("user-2", "bob@example.com", "h", "s", "Bob", "Byrne", nil, true, now, now))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	repo := NewUserRepository(db)
	users, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ada@example.com", users[0].Email)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
