//go:build integration

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"cinehub/internal/database"
	"cinehub/internal/models"
)

const postgresImage = "postgres:16-alpine"

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("docker not available")
	}
}

// startPostgres runs a throwaway Postgres container, reconciles the
// schema into it and returns a pool bound to it.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "cinehub",
			"POSTGRES_PASSWORD": "cinehub",
			"POSTGRES_DB":       "cinehub_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://cinehub:cinehub@%s:%s/cinehub_test?sslmode=disable",
		host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.Reconcile(ctx, pool, logger))
	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool, username string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, username, password_hash, email)
		VALUES ($1, $2, 'x', $3)`, id, username, username+"@example.com")
	require.NoError(t, err)
	return id
}

func TestCollectionRepositoryPostgres(t *testing.T) {
	pool := startPostgres(t)
	repo := NewCollectionRepository(pool)
	ctx := context.Background()
	uid := createUser(t, pool, "carol")

	t.Run("UpsertTwiceKeepsOneRow", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, KindMyList, uid, 42, "movie",
			json.RawMessage(`{"note":"first"}`)))
		require.NoError(t, repo.Upsert(ctx, KindMyList, uid, 42, "movie",
			json.RawMessage(`{"note":"second"}`)))

		entries, err := repo.List(ctx, KindMyList, uid)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.JSONEq(t, `{"note":"second"}`, string(entries[0].Data))
	})

	t.Run("ResavedEntryMovesToTop", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, KindLikes, uid, 1, "movie", nil))
		time.Sleep(25 * time.Millisecond)
		require.NoError(t, repo.Upsert(ctx, KindLikes, uid, 2, "tv", nil))

		entries, err := repo.List(ctx, KindLikes, uid)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(2), entries[0].TMDBID)

		// Re-saving refreshes created_at, bumping the entry to the top.
		time.Sleep(25 * time.Millisecond)
		require.NoError(t, repo.Upsert(ctx, KindLikes, uid, 1, "movie", nil))

		entries, err = repo.List(ctx, KindLikes, uid)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(1), entries[0].TMDBID)
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		assert.NoError(t, repo.Remove(ctx, KindMyList, uid, 9999, "movie"))
	})

	t.Run("RemoveDeletesRow", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, KindTrailers, uid, 7, "movie", nil))
		require.NoError(t, repo.Remove(ctx, KindTrailers, uid, 7, "movie"))

		entries, err := repo.List(ctx, KindTrailers, uid)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestReminderRepositoryPostgres(t *testing.T) {
	pool := startPostgres(t)
	repo := NewReminderRepository(pool)
	notifRepo := NewNotificationRepository(pool)
	ctx := context.Background()
	uid := createUser(t, pool, "dave")

	yesterday := time.Now().AddDate(0, 0, -1)
	nextMonth := time.Now().AddDate(0, 1, 0)

	require.NoError(t, repo.Upsert(ctx, &models.Reminder{
		UserID: uid, MediaType: "movie", TMDBID: 10,
		Title: "Released Movie", Poster: "/r.jpg", ReleaseDate: yesterday,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.Reminder{
		UserID: uid, MediaType: "tv", TMDBID: 11,
		Title: "Future Show", ReleaseDate: nextMonth,
	}))

	t.Run("SweepPromotesOnlyDueReminders", func(t *testing.T) {
		created, err := repo.ProcessDue(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 1, created)

		notifications, err := notifRepo.List(ctx, uid, NotificationFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, models.NotificationNewMovie, notifications[0].Type)
		assert.Equal(t, "Released Movie is out now!", notifications[0].Message)
		assert.Equal(t, "/r.jpg", notifications[0].Poster)
	})

	t.Run("SweepIsIdempotent", func(t *testing.T) {
		created, err := repo.ProcessDue(ctx, uid)
		require.NoError(t, err)
		assert.Zero(t, created)

		notifications, err := notifRepo.List(ctx, uid, NotificationFilter{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
	})

	t.Run("SweptReminderStaysListed", func(t *testing.T) {
		reminders, err := repo.List(ctx, uid)
		require.NoError(t, err)
		require.Len(t, reminders, 2)
		for _, rem := range reminders {
			if rem.TMDBID == 10 {
				assert.True(t, rem.Notified)
			} else {
				assert.False(t, rem.Notified)
			}
		}
	})
}

func TestNotificationRepositoryPostgres(t *testing.T) {
	pool := startPostgres(t)
	repo := NewNotificationRepository(pool)
	ctx := context.Background()
	u1 := createUser(t, pool, "erin")
	u2 := createUser(t, pool, "frank")

	require.NoError(t, repo.Create(ctx, &models.Notification{
		UserID: u1, Type: models.NotificationNewMovie, Title: "A", TMDBID: 1,
	}))
	require.NoError(t, repo.Create(ctx, &models.Notification{
		UserID: u2, Type: models.NotificationHotShow, Title: "B", TMDBID: 2,
	}))

	t.Run("MarkAllReadScopedToUser", func(t *testing.T) {
		require.NoError(t, repo.MarkAllRead(ctx, u1))

		count, err := repo.UnreadCount(ctx, u1)
		require.NoError(t, err)
		assert.Zero(t, count)

		count, err = repo.UnreadCount(ctx, u2)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("MarkReadOtherUsersRowIsNoop", func(t *testing.T) {
		notifications, err := repo.List(ctx, u2, NotificationFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, notifications, 1)

		require.NoError(t, repo.MarkRead(ctx, notifications[0].ID, u1))

		count, err := repo.UnreadCount(ctx, u2)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("ExistsMatchesTypeAndID", func(t *testing.T) {
		exists, err := repo.Exists(ctx, u1, models.NotificationNewMovie, 1)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, u1, models.NotificationTrending, 1)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("SettingsCreatedLazilyOnce", func(t *testing.T) {
		settings, err := repo.GetOrCreateSettings(ctx, u1)
		require.NoError(t, err)
		assert.True(t, settings.NewReleases)
		assert.False(t, settings.EmailEnabled)

		settings.EmailEnabled = true
		require.NoError(t, repo.UpdateSettings(ctx, settings))

		again, err := repo.GetOrCreateSettings(ctx, u1)
		require.NoError(t, err)
		assert.True(t, again.EmailEnabled)
	})
}

func TestUserRepositoryPostgres(t *testing.T) {
	pool := startPostgres(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{
		ID: uuid.New().String(), Username: "grace",
		Email: "Grace@Example.com", PasswordHash: "x",
	}))

	t.Run("EmailMatchIsCaseInsensitive", func(t *testing.T) {
		user, err := repo.FindByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "grace", user.Username)
	})

	t.Run("MissingUserIsNilNotError", func(t *testing.T) {
		user, err := repo.FindByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
