package service

import (
	"context"

	"cinehub/internal/apperror"
	"cinehub/internal/models"
	"cinehub/internal/repository"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type NotificationService interface {
	List(ctx context.Context, userID string, filter repository.NotificationFilter) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
	GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error)
	UpdateSettings(ctx context.Context, s *models.NotificationSettings) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID string, filter repository.NotificationFilter) ([]models.Notification, error) {
	if filter.Type != "" {
		switch filter.Type {
		case models.NotificationNewMovie, models.NotificationHotShow, models.NotificationTrending:
		default:
			return nil, apperror.ValidationFailed("type", "unknown notification type")
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultNotificationLimit
	}
	if filter.Limit > maxNotificationLimit {
		filter.Limit = maxNotificationLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, userID, filter)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id int64, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id int64, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *notificationService) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	return s.repo.GetOrCreateSettings(ctx, userID)
}

func (s *notificationService) UpdateSettings(ctx context.Context, settings *models.NotificationSettings) error {
	return s.repo.UpdateSettings(ctx, settings)
}
