package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCandidatesOrdersByDistance(t *testing.T) {
	candidates := []string{
		"Nirvana Smells Like Teen Spirit Nevermind",
		"Weird Al Yankovic Smells Like Nirvana Off the Deep End",
		"Daft Punk One More Time Discovery",
	}

	ranked := rankCandidates(candidates, "nirvana smells like teen spirit", 0.6)

	require.NotEmpty(t, ranked)
	assert.Equal(t, 0, ranked[0].index)
}

func TestRankCandidatesThreshold(t *testing.T) {
	ranked := rankCandidates([]string{"completely unrelated text"}, "daft punk one more time", 0.6)
	assert.Empty(t, ranked)

	ranked = rankCandidates([]string{"daft punk one more time"}, "daft punk one more time", 0.6)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0, ranked[0].distance, 0.001)
}

func TestRankCandidatesNegativeTerms(t *testing.T) {
	candidates := []string{
		"Queen Bohemian Rhapsody Greatest Hits",
		"Queen Bohemian Rhapsody A Night at the Opera",
	}

	ranked := rankCandidates(candidates, "queen bohemian rhapsody !greatest !hits", 0.6)

	require.NotEmpty(t, ranked)
	assert.Equal(t, 1, ranked[0].index, "compilation album must rank below the original")
}

func TestRankCandidatesFoldsDiacritics(t *testing.T) {
	ranked := rankCandidates([]string{"Beyonce Halo I Am Sasha Fierce"}, "beyoncé halo", 0.6)
	assert.NotEmpty(t, ranked)
}

func TestRankCandidatesEmptyQuery(t *testing.T) {
	assert.Empty(t, rankCandidates([]string{"anything"}, "", 0.6))
	assert.Empty(t, rankCandidates([]string{"anything"}, "!only !negative", 0.6))
}

func TestSpotifyRankFallsBackToSecondPass(t *testing.T) {
	c := &Spotify{threshold: defaultFuzzyThreshold}

	// The only candidate's album name is long unrelated noise, pushing the
	// album-aware pass over threshold; the artist+track fallback must
	// recover it with the plain phrase.
	item := spotifyTrack{
		Name:    "One More Time",
		Artists: []spotifyArtist{{Name: "Daft Punk"}},
	}
	item.Album.Name = "an extremely long and totally unrelated compilation record title that ruins similarity scores entirely for everyone"

	best := c.rank([]spotifyTrack{item}, "daft punk one more time")

	require.NotNil(t, best)
	assert.Equal(t, "One More Time", best.Name)
}

func TestSpotifyRankNoMatch(t *testing.T) {
	c := &Spotify{threshold: defaultFuzzyThreshold}

	item := spotifyTrack{
		Name:    "Xylophone Concerto",
		Artists: []spotifyArtist{{Name: "Somebody Else"}},
	}

	assert.Nil(t, c.rank([]spotifyTrack{item}, "daft punk one more time"))
}
