package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinehub/internal/models"
)

// NotificationFilter narrows a List call. Zero values mean "no filter";
// Limit is defaulted and capped by the service layer.
type NotificationFilter struct {
	Type       string
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, filter NotificationFilter) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Exists(ctx context.Context, userID, notifType string, tmdbID int64) (bool, error)
	// MarkRead, MarkAllRead and Delete are owner-scoped: an id belonging
	// to another user affects zero rows, which is still success.
	MarkRead(ctx context.Context, id int64, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
	GetOrCreateSettings(ctx context.Context, userID string) (*models.NotificationSettings, error)
	UpdateSettings(ctx context.Context, s *models.NotificationSettings) error
}

type notificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, message, media_type, tmdb_id, poster, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		n.UserID, n.Type, n.Title, n.Message, n.MediaType, n.TMDBID, n.Poster, n.ExpiresAt,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, filter NotificationFilter) ([]models.Notification, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, type, title, message, media_type, tmdb_id, poster, is_read, created_at, expires_at
		FROM notifications WHERE user_id = $1`)
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}
	if filter.UnreadOnly {
		sb.WriteString(" AND is_read = false")
	}
	args = append(args, filter.Limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.MediaType, &n.TMDBID, &n.Poster, &n.IsRead, &n.CreatedAt, &n.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = false`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// Exists reports whether the user already has a notification for the
// same title in the same category; the TMDB fetch uses it to avoid
// piling up duplicates across runs.
func (r *notificationRepository) Exists(ctx context.Context, userID, notifType string, tmdbID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND tmdb_id = $3
		)`, userID, notifType, tmdbID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}
	return exists, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = true
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = true
		WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id int64, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM notifications
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// GetOrCreateSettings reads the user's settings row, inserting the
// defaults first if none exists. A read with a first-time write side
// effect; both statements run in one transaction so concurrent first
// reads cannot race past each other.
func (r *notificationRepository) GetOrCreateSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	s := &models.NotificationSettings{}
	err = tx.QueryRow(ctx, `
		SELECT user_id, new_releases, hot_shows, trending_alerts, push_enabled, email_enabled
		FROM notification_settings WHERE user_id = $1`, userID,
	).Scan(&s.UserID, &s.NewReleases, &s.HotShows, &s.TrendingAlerts, &s.PushEnabled, &s.EmailEnabled)

	if errors.Is(err, pgx.ErrNoRows) {
		s = models.DefaultNotificationSettings(userID)
		_, err = tx.Exec(ctx, `
			INSERT INTO notification_settings (user_id, new_releases, hot_shows, trending_alerts, push_enabled, email_enabled)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO NOTHING`,
			s.UserID, s.NewReleases, s.HotShows, s.TrendingAlerts, s.PushEnabled, s.EmailEnabled)
		if err != nil {
			return nil, fmt.Errorf("failed to insert default settings: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settings read: %w", err)
	}
	return s, nil
}

func (r *notificationRepository) UpdateSettings(ctx context.Context, s *models.NotificationSettings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_settings (user_id, new_releases, hot_shows, trending_alerts, push_enabled, email_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET
			new_releases = EXCLUDED.new_releases,
			hot_shows = EXCLUDED.hot_shows,
			trending_alerts = EXCLUDED.trending_alerts,
			push_enabled = EXCLUDED.push_enabled,
			email_enabled = EXCLUDED.email_enabled`,
		s.UserID, s.NewReleases, s.HotShows, s.TrendingAlerts, s.PushEnabled, s.EmailEnabled)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
