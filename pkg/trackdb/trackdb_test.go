package trackdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachfi/stationmeta/pkg/catalog"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sp(s string) *string { return &s }

func TestUpsertTrackMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	released := time.Date(2001, 3, 7, 0, 0, 0, 0, time.UTC)
	track := &catalog.Track{
		ID:          catalog.TrackID("daft punk one more time"),
		Artist:      "Daft Punk",
		Title:       "One More Time",
		Album:       sp("Discovery"),
		ReleaseDate: &released,
		ITunesURL:   sp("https://music.apple.com/track/1"),
	}

	require.NoError(t, s.UpsertTrackMatch(ctx, track))

	got, err := s.GetTrackMatch(ctx, track.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Daft Punk", got.Artist)
	require.NotNil(t, got.Album)
	assert.Equal(t, "Discovery", *got.Album)
	require.NotNil(t, got.ReleaseDate)
	assert.True(t, released.Equal(*got.ReleaseDate))
	assert.Nil(t, got.SpotifyURL)
}

func TestUpsertTrackMatchOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	track := &catalog.Track{ID: "abc123", Artist: "Old Artist", Title: "Old Title"}
	require.NoError(t, s.UpsertTrackMatch(ctx, track))

	track.Artist = "New Artist"
	track.SpotifyURL = sp("https://open.spotify.com/track/9")
	require.NoError(t, s.UpsertTrackMatch(ctx, track))

	got, err := s.GetTrackMatch(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New Artist", got.Artist)
	require.NotNil(t, got.SpotifyURL)
}

func TestGetTrackMatchAbsent(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetTrackMatch(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddTrackHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTrackHistory(ctx, "track-1", "user-1", "station-1"))
	require.NoError(t, s.AddTrackHistory(ctx, "track-1", "user-1", "station-1"))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM track_history`).Scan(&n))
	assert.Equal(t, 2, n)
}
