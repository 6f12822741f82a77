package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestITunesMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "daft punk one more time", r.URL.Query().Get("term"))
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		assert.Equal(t, "song", r.URL.Query().Get("entity"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"artistName": "Daft Punk",
				"trackName": "One More Time",
				"collectionName": "Discovery",
				"releaseDate": "2001-03-07T08:00:00Z",
				"artworkUrl100": "https://example.com/art.jpg",
				"trackViewUrl": "https://music.apple.com/track/1"
			}]
		}`))
	}))
	defer srv.Close()

	c := NewITunes(WithITunesURL(srv.URL))

	track, err := c.Match(context.Background(), "daft punk one more time")
	require.NoError(t, err)
	require.NotNil(t, track)

	assert.Equal(t, TrackID("daft punk one more time"), track.ID)
	assert.Equal(t, "Daft Punk", track.Artist)
	assert.Equal(t, "One More Time", track.Title)
	require.NotNil(t, track.Album)
	assert.Equal(t, "Discovery", *track.Album)
	require.NotNil(t, track.ReleaseDate)
	assert.Equal(t, 2001, track.ReleaseDate.Year())
	require.NotNil(t, track.ITunesURL)
	assert.Equal(t, "https://music.apple.com/track/1", *track.ITunesURL)
	assert.Nil(t, track.SpotifyURL)
}

func TestITunesMatchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer srv.Close()

	c := NewITunes(WithITunesURL(srv.URL))

	track, err := c.Match(context.Background(), "nothing matches this")
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestITunesMatchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewITunes(WithITunesURL(srv.URL))

			track, err := c.Match(context.Background(), "anything")
			assert.Error(t, err)
			assert.Nil(t, track)
		})
	}
}

func TestITunesMatchOptionalFieldsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultCount": 1, "results": [{"artistName": "X", "trackName": "Y"}]}`))
	}))
	defer srv.Close()

	c := NewITunes(WithITunesURL(srv.URL))

	track, err := c.Match(context.Background(), "x y")
	require.NoError(t, err)
	require.NotNil(t, track)

	assert.Nil(t, track.Album)
	assert.Nil(t, track.ReleaseDate)
	assert.Nil(t, track.ArtworkURL)
}
