package models

import "time"

// Reminder is a release reminder keyed by (user_id, media_type, tmdb_id).
// Notified flips to true exactly once, when the due-sweep promotes the
// reminder into a notification; rows are never auto-deleted.
type Reminder struct {
	UserID      string    `json:"user_id"`
	MediaType   string    `json:"media_type"`
	TMDBID      int64     `json:"tmdb_id"`
	Title       string    `json:"title"`
	Poster      string    `json:"poster,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
	Notified    bool      `json:"notified"`
	CreatedAt   time.Time `json:"created_at"`
}
