package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cinehub/internal/models"
)

type ReminderRepository interface {
	List(ctx context.Context, userID string) ([]models.Reminder, error)
	Upsert(ctx context.Context, reminder *models.Reminder) error
	Remove(ctx context.Context, userID string, tmdbID int64, mediaType string) error
	// ProcessDue promotes every unnotified reminder whose release date
	// has passed into a notification and flags it notified, all inside
	// one transaction. Returns the number of notifications created.
	ProcessDue(ctx context.Context, userID string) (int, error)
}

type reminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) List(ctx context.Context, userID string) ([]models.Reminder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, media_type, tmdb_id, title, poster, release_date, notified, created_at
		FROM reminders WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(&rem.UserID, &rem.MediaType, &rem.TMDBID, &rem.Title,
			&rem.Poster, &rem.ReleaseDate, &rem.Notified, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) Upsert(ctx context.Context, reminder *models.Reminder) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reminders (user_id, media_type, tmdb_id, title, poster, release_date, notified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, now())
		ON CONFLICT (user_id, media_type, tmdb_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			poster = EXCLUDED.poster,
			release_date = EXCLUDED.release_date,
			created_at = now()`,
		reminder.UserID, reminder.MediaType, reminder.TMDBID,
		reminder.Title, reminder.Poster, reminder.ReleaseDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Remove(ctx context.Context, userID string, tmdbID int64, mediaType string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM reminders
		WHERE user_id = $1 AND media_type = $2 AND tmdb_id = $3`,
		userID, mediaType, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) ProcessDue(ctx context.Context, userID string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT media_type, tmdb_id, title, poster, release_date
		FROM reminders
		WHERE user_id = $1 AND notified = false AND release_date <= CURRENT_DATE`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("failed to select due reminders: %w", err)
	}

	type due struct {
		mediaType   string
		tmdbID      int64
		title       string
		poster      string
		releaseDate time.Time
	}
	var matured []due
	for rows.Next() {
		var d due
		if err := rows.Scan(&d.mediaType, &d.tmdbID, &d.title, &d.poster, &d.releaseDate); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan due reminder: %w", err)
		}
		matured = append(matured, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate due reminders: %w", err)
	}

	created := 0
	for _, d := range matured {
		notifType := models.NotificationHotShow
		if d.mediaType == models.MediaTypeMovie {
			notifType = models.NotificationNewMovie
		}
		message := fmt.Sprintf("%s is out now!", d.title)

		_, err := tx.Exec(ctx, `
			INSERT INTO notifications (user_id, type, title, message, media_type, tmdb_id, poster)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			userID, notifType, d.title, message, d.mediaType, d.tmdbID, d.poster)
		if err != nil {
			return 0, fmt.Errorf("failed to insert notification: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE reminders SET notified = true
			WHERE user_id = $1 AND media_type = $2 AND tmdb_id = $3`,
			userID, d.mediaType, d.tmdbID)
		if err != nil {
			return 0, fmt.Errorf("failed to flag reminder: %w", err)
		}
		created++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit reminder sweep: %w", err)
	}
	return created, nil
}
