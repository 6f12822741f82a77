package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultSpotifyAPIURL   = "https://api.spotify.com"
	defaultSpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// defaultFuzzyThreshold is the widest distance still accepted as a match.
	defaultFuzzyThreshold = 0.6
)

// negativeTerms deprioritize compilation/best-of albums and ad-insertion
// tracks in the album-aware ranking pass.
var negativeTerms = []string{
	"!greatest", "!ultimate", "!collection", "!best", "!hits", "!essential",
	"!single", "!live", "!various", "!mix", "!advertisement", "!adwtag",
}

// SpotifyConfig carries credentials and endpoint overrides for the Spotify
// matcher. Zero-valued URLs use the public endpoints.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	TokenURL     string

	// Threshold is the fuzzy distance cutoff (0 perfect, 1 unrelated).
	// Zero means the 0.6 default.
	Threshold float64
}

// Spotify is the secondary matcher. It ranks the provider's candidates
// locally with a two-pass fuzzy search: album-aware with negative terms
// first, then artist+track only as a recall fallback for singles and
// compilation-only releases.
type Spotify struct {
	apiURL    string
	threshold float64
	client    *http.Client
}

// NewSpotify returns a matcher using the client-credentials grant. The
// token is fetched lazily and refreshed by the underlying oauth2 transport;
// a failed exchange surfaces as a failed Match, nothing more.
func NewSpotify(cfg SpotifyConfig) *Spotify {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultSpotifyAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultSpotifyTokenURL
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultFuzzyThreshold
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	client := cc.Client(context.Background())
	client.Timeout = 5 * time.Second

	return &Spotify{
		apiURL:    cfg.APIURL,
		threshold: cfg.Threshold,
		client:    client,
	}
}

func (c *Spotify) Name() string { return "spotify" }

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyAlbum struct {
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// Match searches Spotify and picks the best candidate by fuzzy rank, or nil
// when neither ranking pass leaves a result within threshold.
func (c *Spotify) Match(ctx context.Context, phrase string) (*Track, error) {
	items, err := c.search(ctx, phrase)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	best := c.rank(items, phrase)
	if best == nil {
		return nil, nil
	}

	return mapSpotifyTrack(phrase, *best), nil
}

// rank implements the two-pass strategy. Album-aware matching is more
// precise but misses tracks whose canonical release is not a normal album,
// so an empty first pass falls back to artist+track candidates queried with
// the plain phrase.
func (c *Spotify) rank(items []spotifyTrack, phrase string) *spotifyTrack {
	withAlbum := make([]string, len(items))
	withoutAlbum := make([]string, len(items))
	for i, it := range items {
		artists := make([]string, len(it.Artists))
		for j, a := range it.Artists {
			artists[j] = a.Name
		}
		joined := strings.Join(artists, " ")
		withAlbum[i] = joined + " " + it.Name + " " + it.Album.Name
		withoutAlbum[i] = joined + " " + it.Name
	}

	query := phrase + " " + strings.Join(negativeTerms, " ")
	ranked := rankCandidates(withAlbum, query, c.threshold)
	if len(ranked) == 0 {
		ranked = rankCandidates(withoutAlbum, phrase, c.threshold)
	}
	if len(ranked) == 0 {
		return nil
	}

	return &items[ranked[0].index]
}

func (c *Spotify) search(ctx context.Context, phrase string) ([]spotifyTrack, error) {
	q := url.Values{}
	q.Set("q", phrase)
	q.Set("type", "track")
	q.Set("limit", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v1/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result.Tracks.Items, nil
}

func mapSpotifyTrack(phrase string, item spotifyTrack) *Track {
	t := &Track{
		ID:         TrackID(phrase),
		Title:      item.Name,
		Album:      strPtr(item.Album.Name),
		SpotifyURL: strPtr(item.ExternalURLs.Spotify),
	}

	if len(item.Artists) > 0 {
		names := make([]string, len(item.Artists))
		for i, a := range item.Artists {
			names[i] = a.Name
		}
		t.Artist = strings.Join(names, ", ")
	}
	if len(item.Album.Images) > 0 {
		t.ArtworkURL = strPtr(item.Album.Images[0].URL)
	}
	if d, err := parseSpotifyDate(item.Album.ReleaseDate); err == nil {
		t.ReleaseDate = &d
	}

	return t
}

// parseSpotifyDate handles the three precisions the API emits.
func parseSpotifyDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
