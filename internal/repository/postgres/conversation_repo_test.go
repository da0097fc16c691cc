package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"conversationscheduler/internal/domain"
)

var conversationCols = []string{
	"id", "user_id", "scheduled_at", "confidence", "reason", "strategy",
	"is_completed", "is_cancelled", "created_at", "updated_at",
}

func TestConversationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	scheduledAt := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO scheduled_conversations`).
					WithArgs("user-1", scheduledAt, 0.85, "Prime conversation time", "conservative", false, false, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("conv-uuid-1"))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO scheduled_conversations`).
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
			repo := NewConversationRepository(db)
			conv := &domain.ScheduledConversation{
				UserID:      "user-1",
				ScheduledAt: scheduledAt,
				Confidence:  0.85,
				Reason:      "Prime conversation time",
				Strategy:    "conservative",
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			err = repo.Create(ctx, conv)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, "conv-uuid-1", conv.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConversationRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM scheduled_conversations`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(conversationCols).
			AddRow("c1", "user-1", now.Add(24*time.Hour), 0.85, "r", "conservative", false, false, now, now).
			AddRow("c2", "user-1", now.Add(48*time.Hour), 0.7, "r", "aggressive", false, false, now, now))

	repo := NewConversationRepository(db)
	convs, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, "c1", convs[0].ID)
	require.Equal(t, 0.85, convs[0].Confidence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_ListByUserWithinWindow(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 6, 23, 59, 59, 0, time.UTC)

	t.Run("passes window bounds", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM scheduled_conversations`).
			WithArgs("user-1", from, to).
			WillReturnRows(sqlmock.NewRows(conversationCols))

		repo := NewConversationRepository(db)
		convs, err := repo.ListByUserWithinWindow(ctx, "user-1", from, to)
		require.NoError(t, err)
		require.Empty(t, convs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM scheduled_conversations`).
			WillReturnError(sql.ErrConnDone)

		repo := NewConversationRepository(db)
		_, err = repo.ListByUserWithinWindow(ctx, "user-1", from, to)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
