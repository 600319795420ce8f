package dto

import "encoding/json"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

// LoginRequest accepts the identifier under any of the three keys the
// site's clients have historically sent.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

// ResolveIdentifier picks whichever identifier field was supplied.
func (r *LoginRequest) ResolveIdentifier() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

type CollectionItemRequest struct {
	TMDBID    int64           `json:"tmdb_id"`
	MediaType string          `json:"media_type"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ReminderRequest accepts the poster under either key: the site's pages
// forward TMDB objects with poster_path, older clients send poster.
type ReminderRequest struct {
	TMDBID      int64  `json:"tmdb_id"`
	MediaType   string `json:"media_type"`
	Title       string `json:"title"`
	Poster      string `json:"poster"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
}

// ResolvePoster picks whichever poster field was supplied.
func (r *ReminderRequest) ResolvePoster() string {
	if r.Poster != "" {
		return r.Poster
	}
	return r.PosterPath
}

type SettingsRequest struct {
	NewReleases    *bool `json:"new_releases"`
	HotShows       *bool `json:"hot_shows"`
	TrendingAlerts *bool `json:"trending_alerts"`
	PushEnabled    *bool `json:"push_enabled"`
	EmailEnabled   *bool `json:"email_enabled"`
}
