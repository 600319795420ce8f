package service

import (
	"context"
	"time"

	"cinehub/internal/apperror"
	"cinehub/internal/models"
	"cinehub/internal/repository"
)

type ReminderService interface {
	List(ctx context.Context, userID string) ([]models.Reminder, error)
	Save(ctx context.Context, userID string, tmdbID int64, mediaType, title, poster, releaseDate string) error
	Remove(ctx context.Context, userID string, tmdbID int64, mediaType string) error
	ProcessDue(ctx context.Context, userID string) (int, error)
}

type reminderService struct {
	repo repository.ReminderRepository
}

func NewReminderService(repo repository.ReminderRepository) ReminderService {
	return &reminderService{repo: repo}
}

func (s *reminderService) List(ctx context.Context, userID string) ([]models.Reminder, error) {
	return s.repo.List(ctx, userID)
}

func (s *reminderService) Save(ctx context.Context, userID string, tmdbID int64, mediaType, title, poster, releaseDate string) error {
	mt, err := normalizeMediaType(mediaType)
	if err != nil {
		return err
	}
	if err := validateTMDBID(tmdbID); err != nil {
		return err
	}
	if releaseDate == "" {
		return apperror.ValidationFailed("release_date", "release_date is required")
	}
	parsed, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return apperror.ValidationFailed("release_date", "release_date must be YYYY-MM-DD")
	}

	return s.repo.Upsert(ctx, &models.Reminder{
		UserID:      userID,
		MediaType:   mt,
		TMDBID:      tmdbID,
		Title:       title,
		Poster:      poster,
		ReleaseDate: parsed,
	})
}

func (s *reminderService) Remove(ctx context.Context, userID string, tmdbID int64, mediaType string) error {
	mt, err := normalizeMediaType(mediaType)
	if err != nil {
		return err
	}
	if err := validateTMDBID(tmdbID); err != nil {
		return err
	}
	return s.repo.Remove(ctx, userID, tmdbID, mt)
}

// ProcessDue runs the due-reminder sweep for one user. Idempotent: a
// second run with nothing newly matured creates zero notifications.
func (s *reminderService) ProcessDue(ctx context.Context, userID string) (int, error) {
	return s.repo.ProcessDue(ctx, userID)
}
