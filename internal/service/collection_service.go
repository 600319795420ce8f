package service

import (
	"context"
	"encoding/json"
	"strings"

	"cinehub/internal/apperror"
	"cinehub/internal/models"
	"cinehub/internal/repository"
)

// CollectionService validates input and maps collection rows into the
// shape clients consume (payload merged with key fields).
type CollectionService interface {
	List(ctx context.Context, kind repository.CollectionKind, userID string) ([]map[string]any, error)
	Save(ctx context.Context, kind repository.CollectionKind, userID string, tmdbID int64, mediaType string, data json.RawMessage) error
	Remove(ctx context.Context, kind repository.CollectionKind, userID string, tmdbID int64, mediaType string) error
}

type collectionService struct {
	repo repository.CollectionRepository
}

func NewCollectionService(repo repository.CollectionRepository) CollectionService {
	return &collectionService{repo: repo}
}

// normalizeMediaType lowercases and validates a media type before any
// statement executes.
func normalizeMediaType(mediaType string) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if mt != models.MediaTypeMovie && mt != models.MediaTypeTV {
		return "", apperror.ValidationFailed("media_type", "media_type must be 'movie' or 'tv'")
	}
	return mt, nil
}

func validateTMDBID(tmdbID int64) error {
	if tmdbID <= 0 {
		return apperror.ValidationFailed("tmdb_id", "tmdb_id is required")
	}
	return nil
}

func (s *collectionService) List(ctx context.Context, kind repository.CollectionKind, userID string) ([]map[string]any, error) {
	entries, err := s.repo.List(ctx, kind, userID)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(entries))
	for i := range entries {
		item, err := entries[i].Item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *collectionService) Save(ctx context.Context, kind repository.CollectionKind, userID string, tmdbID int64, mediaType string, data json.RawMessage) error {
	mt, err := normalizeMediaType(mediaType)
	if err != nil {
		return err
	}
	if err := validateTMDBID(tmdbID); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, kind, userID, tmdbID, mt, data)
}

func (s *collectionService) Remove(ctx context.Context, kind repository.CollectionKind, userID string, tmdbID int64, mediaType string) error {
	mt, err := normalizeMediaType(mediaType)
	if err != nil {
		return err
	}
	if err := validateTMDBID(tmdbID); err != nil {
		return err
	}
	return s.repo.Remove(ctx, kind, userID, tmdbID, mt)
}
