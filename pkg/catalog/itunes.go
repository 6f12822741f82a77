package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultITunesURL = "https://itunes.apple.com/search"

// ITunes is the primary matcher. It trusts the remote relevance ordering and
// takes the first result as-is.
// TODO: rank results locally instead of trusting result #1.
type ITunes struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// ITunesOption customizes an ITunes matcher.
type ITunesOption func(*ITunes)

// WithITunesURL overrides the search endpoint, mainly for tests.
func WithITunesURL(u string) ITunesOption {
	return func(c *ITunes) { c.baseURL = u }
}

// NewITunes returns a matcher against the iTunes Search API. Requests are
// rate limited to roughly 20 per minute per Apple's guidance.
func NewITunes(opts ...ITunesOption) *ITunes {
	c := &ITunes{
		baseURL: defaultITunesURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ITunes) Name() string { return "itunes" }

type itunesResult struct {
	ArtistName     string `json:"artistName"`
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	ReleaseDate    string `json:"releaseDate"`
	ArtworkURL100  string `json:"artworkUrl100"`
	TrackViewURL   string `json:"trackViewUrl"`
}

// Match runs one search, no retries. Zero results, a non-2xx status, or a
// decode failure all mean no match.
func (c *ITunes) Match(ctx context.Context, phrase string) (*Track, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("term", phrase)
	q.Set("media", "music")
	q.Set("entity", "song")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
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
		ResultCount int            `json:"resultCount"`
		Results     []itunesResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, nil
	}

	return mapITunesResult(phrase, result.Results[0]), nil
}

// mapITunesResult is the adapter from the provider's response schema to the
// internal Track shape; the schema is an external contract that may drift.
func mapITunesResult(phrase string, r itunesResult) *Track {
	t := &Track{
		ID:         TrackID(phrase),
		Artist:     r.ArtistName,
		Title:      r.TrackName,
		Album:      strPtr(r.CollectionName),
		ArtworkURL: strPtr(r.ArtworkURL100),
		ITunesURL:  strPtr(r.TrackViewURL),
	}

	if d, err := time.Parse(time.RFC3339, r.ReleaseDate); err == nil {
		t.ReleaseDate = &d
	}

	return t
}
