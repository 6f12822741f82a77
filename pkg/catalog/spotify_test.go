package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spotifyTestServer(t *testing.T, searchBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "test-token", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})
	return httptest.NewServer(mux)
}

const spotifySearchFixture = `{
	"tracks": {
		"items": [
			{
				"name": "One More Time",
				"artists": [{"name": "Daft Punk"}],
				"album": {
					"name": "Discovery",
					"release_date": "2001-03-07",
					"images": [{"url": "https://example.com/cover.jpg"}]
				},
				"external_urls": {"spotify": "https://open.spotify.com/track/1"}
			},
			{
				"name": "One More Time",
				"artists": [{"name": "Daft Punk"}],
				"album": {
					"name": "Greatest Hits Ultimate Collection",
					"release_date": "2010",
					"images": []
				},
				"external_urls": {"spotify": "https://open.spotify.com/track/2"}
			}
		]
	}
}`

func newTestSpotify(srvURL string, threshold float64) *Spotify {
	return NewSpotify(SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		APIURL:       srvURL,
		TokenURL:     srvURL + "/api/token",
		Threshold:    threshold,
	})
}

func TestSpotifyMatch(t *testing.T) {
	srv := spotifyTestServer(t, spotifySearchFixture)
	defer srv.Close()

	c := newTestSpotify(srv.URL, 0)

	track, err := c.Match(context.Background(), "daft punk one more time")
	require.NoError(t, err)
	require.NotNil(t, track)

	assert.Equal(t, "Daft Punk", track.Artist)
	assert.Equal(t, "One More Time", track.Title)
	require.NotNil(t, track.SpotifyURL)
	assert.Equal(t, "https://open.spotify.com/track/1", *track.SpotifyURL, "compilation release must lose to the original album")
	require.NotNil(t, track.ReleaseDate)
	assert.Equal(t, 2001, track.ReleaseDate.Year())
}

func TestSpotifyMatchNothingWithinThreshold(t *testing.T) {
	srv := spotifyTestServer(t, spotifySearchFixture)
	defer srv.Close()

	c := newTestSpotify(srv.URL, 0)

	track, err := c.Match(context.Background(), "entirely different piece of music")
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestSpotifyMatchTokenExchangeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestSpotify(srv.URL, 0)

	track, err := c.Match(context.Background(), "daft punk one more time")
	assert.Error(t, err)
	assert.Nil(t, track)
}

func TestSpotifyMatchEmptyResults(t *testing.T) {
	srv := spotifyTestServer(t, `{"tracks": {"items": []}}`)
	defer srv.Close()

	c := newTestSpotify(srv.URL, 0)

	track, err := c.Match(context.Background(), "daft punk one more time")
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestParseSpotifyDate(t *testing.T) {
	for _, s := range []string{"2001-03-07", "2001-03", "2001"} {
		d, err := parseSpotifyDate(s)
		require.NoError(t, err)
		assert.Equal(t, 2001, d.Year())
	}

	_, err := parseSpotifyDate("not a date")
	assert.Error(t, err)
}
