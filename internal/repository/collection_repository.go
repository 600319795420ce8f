package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cinehub/internal/apperror"
	"cinehub/internal/models"
)

// CollectionKind selects one of the fixed per-user collection tables.
// Table identifiers cannot be bound as query parameters, so the kinds
// dispatch to statement templates built at init time; nothing
// request-derived is ever interpolated into SQL.
type CollectionKind int

const (
	KindMyList CollectionKind = iota
	KindLikes
	KindTrailers
)

func (k CollectionKind) String() string {
	switch k {
	case KindMyList:
		return "my_list"
	case KindLikes:
		return "likes"
	case KindTrailers:
		return "trailers_watched"
	default:
		return fmt.Sprintf("CollectionKind(%d)", int(k))
	}
}

type collectionStatements struct {
	list   string
	upsert string
	remove string
}

var collectionSQL = map[CollectionKind]collectionStatements{
	KindMyList:   buildCollectionStatements("my_list"),
	KindLikes:    buildCollectionStatements("likes"),
	KindTrailers: buildCollectionStatements("trailers_watched"),
}

func buildCollectionStatements(table string) collectionStatements {
	return collectionStatements{
		list: fmt.Sprintf(`
			SELECT user_id, media_type, tmdb_id, data, created_at
			FROM %s WHERE user_id = $1
			ORDER BY created_at DESC`, table),
		// Re-saving an entry refreshes created_at on purpose: an upsert
		// bumps the item back to the top of the list.
		upsert: fmt.Sprintf(`
			INSERT INTO %s (user_id, media_type, tmdb_id, data, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (user_id, media_type, tmdb_id)
			DO UPDATE SET
				data = EXCLUDED.data,
				created_at = now()`, table),
		remove: fmt.Sprintf(`
			DELETE FROM %s
			WHERE user_id = $1 AND media_type = $2 AND tmdb_id = $3`, table),
	}
}

// CollectionRepository is the generic per-user keyed collection store
// behind my list, likes and trailers watched.
type CollectionRepository interface {
	List(ctx context.Context, kind CollectionKind, userID string) ([]models.CollectionEntry, error)
	Upsert(ctx context.Context, kind CollectionKind, userID string, tmdbID int64, mediaType string, data json.RawMessage) error
	Remove(ctx context.Context, kind CollectionKind, userID string, tmdbID int64, mediaType string) error
}

type collectionRepository struct {
	db *pgxpool.Pool
}

func NewCollectionRepository(db *pgxpool.Pool) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) statements(kind CollectionKind) (collectionStatements, error) {
	stmts, ok := collectionSQL[kind]
	if !ok {
		return collectionStatements{}, apperror.ValidationFailed("kind", fmt.Sprintf("unknown collection kind %s", kind))
	}
	return stmts, nil
}

func (r *collectionRepository) List(ctx context.Context, kind CollectionKind, userID string) ([]models.CollectionEntry, error) {
	stmts, err := r.statements(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, stmts.list, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	entries := []models.CollectionEntry{}
	for rows.Next() {
		var e models.CollectionEntry
		if err := rows.Scan(&e.UserID, &e.MediaType, &e.TMDBID, &e.Data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", kind, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", kind, err)
	}
	return entries, nil
}

func (r *collectionRepository) Upsert(ctx context.Context, kind CollectionKind, userID string, tmdbID int64, mediaType string, data json.RawMessage) error {
	stmts, err := r.statements(kind)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	if _, err := r.db.Exec(ctx, stmts.upsert, userID, mediaType, tmdbID, data); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", kind, err)
	}
	return nil
}

// Remove deletes by composite key. Deleting an absent key is a no-op
// success.
func (r *collectionRepository) Remove(ctx context.Context, kind CollectionKind, userID string, tmdbID int64, mediaType string) error {
	stmts, err := r.statements(kind)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, stmts.remove, userID, mediaType, tmdbID); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", kind, err)
	}
	return nil
}
