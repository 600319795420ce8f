package models

import "time"

// Notification categories.
const (
	NotificationNewMovie = "new_movie"
	NotificationHotShow  = "hot_show"
	NotificationTrending = "trending"
)

type Notification struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"` // new_movie, hot_show, trending
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	MediaType string     `json:"media_type,omitempty"`
	TMDBID    int64      `json:"tmdb_id,omitempty"`
	Poster    string     `json:"poster,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // persisted, never filtered on
}

// NotificationSettings is one row per user, created lazily on first read.
// Every toggle defaults to true except email delivery.
type NotificationSettings struct {
	UserID         string `json:"user_id"`
	NewReleases    bool   `json:"new_releases"`
	HotShows       bool   `json:"hot_shows"`
	TrendingAlerts bool   `json:"trending_alerts"`
	PushEnabled    bool   `json:"push_enabled"`
	EmailEnabled   bool   `json:"email_enabled"`
}

// DefaultNotificationSettings returns the row inserted on first read.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:         userID,
		NewReleases:    true,
		HotShows:       true,
		TrendingAlerts: true,
		PushEnabled:    true,
		EmailEnabled:   false,
	}
}
