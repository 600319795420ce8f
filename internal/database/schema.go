package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// userColumns is the declared column set for the users table. Reconcile
// syncs the live table against exactly this list: missing columns are
// added, columns not listed here are dropped. Dropping loses data; that
// is accepted.
var userColumns = []struct {
	name string
	ddl  string
}{
	{"id", "uuid PRIMARY KEY"},
	{"username", "text UNIQUE NOT NULL"},
	{"password_hash", "text NOT NULL"},
	{"email", "text"},
}

// featureTables are created if absent and never column-synced. The
// asymmetry with the users table is inherited behavior and is kept on
// purpose; see the reconciler tests.
var featureTables = []struct {
	name string
	ddl  string
}{
	{"my_list", collectionTableDDL("my_list")},
	{"likes", collectionTableDDL("likes")},
	{"trailers_watched", collectionTableDDL("trailers_watched")},
	{"reminders", `
		CREATE TABLE IF NOT EXISTS reminders (
			user_id      uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			media_type   text NOT NULL,
			tmdb_id      bigint NOT NULL,
			title        text NOT NULL DEFAULT '',
			poster       text NOT NULL DEFAULT '',
			release_date date NOT NULL,
			notified     boolean NOT NULL DEFAULT false,
			created_at   timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, media_type, tmdb_id)
		)`},
	{"notifications", `
		CREATE TABLE IF NOT EXISTS notifications (
			id         bigserial PRIMARY KEY,
			user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type       text NOT NULL,
			title      text NOT NULL DEFAULT '',
			message    text NOT NULL DEFAULT '',
			media_type text NOT NULL DEFAULT '',
			tmdb_id    bigint NOT NULL DEFAULT 0,
			poster     text NOT NULL DEFAULT '',
			is_read    boolean NOT NULL DEFAULT false,
			created_at timestamptz NOT NULL DEFAULT now(),
			expires_at timestamptz
		)`},
	{"notification_settings", `
		CREATE TABLE IF NOT EXISTS notification_settings (
			user_id         uuid PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			new_releases    boolean NOT NULL DEFAULT true,
			hot_shows       boolean NOT NULL DEFAULT true,
			trending_alerts boolean NOT NULL DEFAULT true,
			push_enabled    boolean NOT NULL DEFAULT true,
			email_enabled   boolean NOT NULL DEFAULT false
		)`},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_created
		ON notifications (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
		ON notifications (user_id) WHERE is_read = false`,
}

func collectionTableDDL(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			media_type text NOT NULL,
			tmdb_id    bigint NOT NULL,
			data       jsonb NOT NULL DEFAULT '{}',
			created_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, media_type, tmdb_id)
		)`, table)
}

// Reconcile brings the live schema into agreement with the declared one.
// It is idempotent and runs once at startup; any statement failure is
// returned to the caller, which must treat it as fatal and not serve
// requests against an unreconciled schema.
func Reconcile(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if err := reconcileUsers(ctx, pool, logger); err != nil {
		return err
	}

	for _, t := range featureTables {
		if _, err := pool.Exec(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logger.Info("Schema reconciled successfully")
	return nil
}

func reconcileUsers(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'users'
		)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check users table: %w", err)
	}

	if !exists {
		cols := make([]string, 0, len(userColumns))
		for _, c := range userColumns {
			cols = append(cols, c.name+" "+c.ddl)
		}
		ddl := fmt.Sprintf("CREATE TABLE users (%s)", strings.Join(cols, ", "))
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create users table: %w", err)
		}
		logger.Info("Created users table")
		return nil
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = 'users'`)
	if err != nil {
		return fmt.Errorf("failed to read users columns: %w", err)
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan column name: %w", err)
		}
		existing = append(existing, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate users columns: %w", err)
	}

	adds, drops := diffColumns(existing, declaredUserColumns())

	for _, name := range drops {
		if _, err := pool.Exec(ctx, fmt.Sprintf("ALTER TABLE users DROP COLUMN %s", name)); err != nil {
			return fmt.Errorf("failed to drop column %s: %w", name, err)
		}
		logger.Warn("Dropped undeclared users column", "column", name)
	}
	for _, name := range adds {
		if _, err := pool.Exec(ctx, fmt.Sprintf("ALTER TABLE users ADD COLUMN %s %s", name, addColumnType(name))); err != nil {
			return fmt.Errorf("failed to add column %s: %w", name, err)
		}
		logger.Info("Added missing users column", "column", name)
	}

	if len(adds) == 0 && len(drops) == 0 {
		logger.Info("Users table already matches declared columns")
	}
	return nil
}

func declaredUserColumns() map[string]string {
	declared := make(map[string]string, len(userColumns))
	for _, c := range userColumns {
		declared[c.name] = c.ddl
	}
	return declared
}

// diffColumns computes the symmetric difference between the live column
// names and the declared set. Results are sorted so the reconciliation
// is order independent. An already-correct table yields two empty
// slices, which is what makes the reconciler convergent.
func diffColumns(existing []string, declared map[string]string) (adds, drops []string) {
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
		if _, ok := declared[name]; !ok {
			drops = append(drops, name)
		}
	}
	for name := range declared {
		if !have[name] {
			adds = append(adds, name)
		}
	}
	sort.Strings(adds)
	sort.Strings(drops)
	return adds, drops
}

// addColumnType strips constraints that cannot be applied when adding a
// column to a populated table. A column added by reconciliation starts
// nullable and unconstrained; only a freshly created table gets the full
// declared definitions.
func addColumnType(name string) string {
	switch name {
	case "id":
		return "uuid"
	default:
		return "text"
	}
}
