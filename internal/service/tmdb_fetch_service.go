package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cinehub/internal/models"
	"cinehub/internal/repository"
	"cinehub/internal/tmdb"
)

const (
	perCategoryLimit   = 5
	notificationExpiry = 7 * 24 * time.Hour
)

// MetadataFetcher is the slice of the TMDB client this service needs.
type MetadataFetcher interface {
	Upcoming(ctx context.Context) ([]tmdb.Title, error)
	TrendingTV(ctx context.Context) ([]tmdb.Title, error)
	Popular(ctx context.Context) ([]tmdb.Title, error)
}

// TMDBFetchService pulls the TMDB category feeds and persists them as
// notifications for one user. A failed fetch for one category yields
// zero notifications for that category; it never fails the whole run.
type TMDBFetchService interface {
	FetchNotifications(ctx context.Context, userID string) (int, error)
}

type tmdbFetchService struct {
	fetcher          MetadataFetcher
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

func NewTMDBFetchService(fetcher MetadataFetcher, notificationRepo repository.NotificationRepository, logger *slog.Logger) TMDBFetchService {
	return &tmdbFetchService{
		fetcher:          fetcher,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

type category struct {
	notifType string
	mediaType string
	message   string
	fetch     func(context.Context) ([]tmdb.Title, error)
	enabled   func(*models.NotificationSettings) bool
}

func (s *tmdbFetchService) FetchNotifications(ctx context.Context, userID string) (int, error) {
	settings, err := s.notificationRepo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return 0, err
	}

	categories := []category{
		{
			notifType: models.NotificationNewMovie,
			mediaType: models.MediaTypeMovie,
			message:   "%s is coming soon to theaters",
			fetch:     s.fetcher.Upcoming,
			enabled:   func(st *models.NotificationSettings) bool { return st.NewReleases },
		},
		{
			notifType: models.NotificationHotShow,
			mediaType: models.MediaTypeTV,
			message:   "%s is trending this week",
			fetch:     s.fetcher.TrendingTV,
			enabled:   func(st *models.NotificationSettings) bool { return st.HotShows },
		},
		{
			notifType: models.NotificationTrending,
			mediaType: models.MediaTypeMovie,
			message:   "Everyone is watching %s",
			fetch:     s.fetcher.Popular,
			enabled:   func(st *models.NotificationSettings) bool { return st.TrendingAlerts },
		},
	}

	created := 0
	for _, cat := range categories {
		if !cat.enabled(settings) {
			continue
		}

		titles, err := cat.fetch(ctx)
		if err != nil {
			// Degrade: this category contributes nothing this run.
			s.logger.Warn("TMDB category fetch failed", "type", cat.notifType, "error", err)
			continue
		}

		count := 0
		for _, t := range titles {
			if count >= perCategoryLimit {
				break
			}
			exists, err := s.notificationRepo.Exists(ctx, userID, cat.notifType, t.ID)
			if err != nil {
				return created, err
			}
			if exists {
				continue
			}

			expiresAt := time.Now().Add(notificationExpiry)
			n := &models.Notification{
				UserID:    userID,
				Type:      cat.notifType,
				Title:     t.DisplayTitle(),
				Message:   fmt.Sprintf(cat.message, t.DisplayTitle()),
				MediaType: cat.mediaType,
				TMDBID:    t.ID,
				Poster:    t.PosterPath,
				ExpiresAt: &expiresAt,
			}
			if err := s.notificationRepo.Create(ctx, n); err != nil {
				return created, err
			}
			created++
			count++
		}
	}
	return created, nil
}
