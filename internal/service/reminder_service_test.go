package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cinehub/internal/apperror"
	"cinehub/internal/models"
)

// MockReminderRepository mocks the ReminderRepository interface
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) List(ctx context.Context, userID string) ([]models.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) Upsert(ctx context.Context, reminder *models.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) Remove(ctx context.Context, userID string, tmdbID int64, mediaType string) error {
	args := m.Called(ctx, userID, tmdbID, mediaType)
	return args.Error(0)
}

func (m *MockReminderRepository) ProcessDue(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestReminderSave(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresReleaseDate", func(t *testing.T) {
		repo := new(MockReminderRepository)
		svc := NewReminderService(repo)

		err := svc.Save(ctx, "u1", 42, "movie", "Dune 3", "/p.jpg", "")
		assert.ErrorIs(t, err, apperror.ErrValidation)
		repo.AssertNotCalled(t, "Upsert")
	})

	t.Run("RejectsBadDateFormat", func(t *testing.T) {
		repo := new(MockReminderRepository)
		svc := NewReminderService(repo)

		err := svc.Save(ctx, "u1", 42, "movie", "Dune 3", "", "12/25/2026")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(MockReminderRepository)
		repo.On("Upsert", ctx, mock.MatchedBy(func(r *models.Reminder) bool {
			return r.UserID == "u1" &&
				r.TMDBID == 42 &&
				r.MediaType == "movie" &&
				r.Title == "Dune 3" &&
				r.ReleaseDate.Equal(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC))
		})).Return(nil)

		svc := NewReminderService(repo)
		err := svc.Save(ctx, "u1", 42, "Movie", "Dune 3", "/p.jpg", "2026-12-25")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestReminderProcessDue(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsCreatedCount", func(t *testing.T) {
		repo := new(MockReminderRepository)
		repo.On("ProcessDue", ctx, "u1").Return(3, nil)

		svc := NewReminderService(repo)
		created, err := svc.ProcessDue(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, created)
	})

	t.Run("SecondRunCreatesNothing", func(t *testing.T) {
		// The repository flags matured reminders notified inside the
		// sweep transaction, so a repeat invocation finds nothing due.
		repo := new(MockReminderRepository)
		repo.On("ProcessDue", ctx, "u1").Return(2, nil).Once()
		repo.On("ProcessDue", ctx, "u1").Return(0, nil).Once()

		svc := NewReminderService(repo)
		first, err := svc.ProcessDue(ctx, "u1")
		require.NoError(t, err)
		second, err := svc.ProcessDue(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, first)
		assert.Zero(t, second)
	})
}
