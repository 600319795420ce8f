package models

import (
	"encoding/json"
	"time"
)

// Media types accepted across collections, reminders and notifications.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// CollectionEntry is one row of a per-user keyed collection (my list,
// likes, trailers watched). Uniqueness is the composite
// (user_id, media_type, tmdb_id); re-saving an entry overwrites Data and
// refreshes CreatedAt, bumping it back to the top of the list.
type CollectionEntry struct {
	UserID    string          `json:"user_id"`
	MediaType string          `json:"media_type"`
	TMDBID    int64           `json:"tmdb_id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Item returns the entry's payload merged with its key fields. The
// persisted shape and the returned shape differ on purpose: clients get
// the stored TMDB details with id and media_type injected.
func (e *CollectionEntry) Item() (map[string]any, error) {
	item := map[string]any{}
	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, &item); err != nil {
			return nil, err
		}
	}
	item["id"] = e.TMDBID
	item["media_type"] = e.MediaType
	return item, nil
}
