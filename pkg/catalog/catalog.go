// Package catalog resolves cleaned track titles against external music
// catalogs. Matching is best-effort: providers may fail or return nothing
// and callers are expected to carry on without a match.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Track is the unified shape a provider lookup maps into. ID is derived
// from the search phrase, not the raw title, so repeated searches for the
// same phrase converge on one record.
type Track struct {
	ID          string     `json:"id"`
	Artist      string     `json:"artist"`
	Title       string     `json:"title"`
	Album       *string    `json:"album,omitempty"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	ArtworkURL  *string    `json:"artworkUrl,omitempty"`
	ITunesURL   *string    `json:"itunesUrl,omitempty"`
	YouTubeURL  *string    `json:"youtubeUrl,omitempty"`
	SpotifyURL  *string    `json:"spotifyUrl,omitempty"`
}

// Matcher looks up a cleaned search phrase. A nil Track with a nil error
// means the provider answered but had no match.
type Matcher interface {
	Name() string
	Match(ctx context.Context, phrase string) (*Track, error)
}

// TrackID derives the stable record identifier for a search phrase.
func TrackID(phrase string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.ToLower(phrase)))
}

// droppedTokens are filler words between artist names that only hurt
// catalog searches.
var droppedTokens = map[string]struct{}{
	"ft":   {},
	"feat": {},
	"vs":   {},
}

// CleanPhrase turns a raw stream title into a search phrase: word runs
// outside parentheses, minus featuring/versus tokens, joined by single
// spaces. An empty result means the title is not worth searching for.
func CleanPhrase(title string) string {
	var (
		tokens  []string
		current strings.Builder
		depth   int
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		current.Reset()
		if _, drop := droppedTokens[strings.ToLower(tok)]; !drop {
			tokens = append(tokens, tok)
		}
	}

	for _, r := range title {
		switch {
		case r == '(':
			flush()
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
			// Parenthesized content is remix/edit noise; skip it.
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return strings.Join(tokens, " ")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
