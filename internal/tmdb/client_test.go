package tmdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(apiURL string) *Client {
	return NewClient(apiURL, "test-key", nil, 0, testLogger())
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Dune", Title{Title: "Dune"}.DisplayTitle())
	assert.Equal(t, "Severance", Title{Name: "Severance"}.DisplayTitle())
	assert.Equal(t, "Dune", Title{Title: "Dune", Name: "ignored"}.DisplayTitle())
}

func TestUpcoming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/upcoming", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"results":[{"id":42,"title":"Dune 3","poster_path":"/p.jpg","release_date":"2026-12-25"}]}`))
	}))
	defer srv.Close()

	titles, err := newTestClient(srv.URL).Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, int64(42), titles[0].ID)
	assert.Equal(t, "Dune 3", titles[0].DisplayTitle())
}

func TestRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"results":[{"id":1,"name":"Show"}]}`))
	}))
	defer srv.Close()

	titles, err := newTestClient(srv.URL).TrendingTV(context.Background())
	require.NoError(t, err)
	assert.Len(t, titles, 1)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Popular(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("http://unused", "", nil, 0, testLogger())
	_, err := c.Upcoming(context.Background())
	assert.Error(t, err)
}
