package metadata

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"
)

const (
	defaultStreamTimeout  = 5 * time.Second
	defaultCacheSize      = 100
	defaultFuzzyThreshold = 0.6
	defaultDatabasePath   = "stationmeta.db"
)

type Config struct {
	StreamTimeout  time.Duration `yaml:"stream-timeout,omitempty"`  // bound on connecting to and reading the upstream stream
	UserAgent      string        `yaml:"user-agent,omitempty"`      // sent to upstream stream servers
	CacheSize      int           `yaml:"cache-size,omitempty"`      // max titles held in the in-memory match cache
	FuzzyThreshold float64       `yaml:"fuzzy-threshold,omitempty"` // fuzzy distance cutoff, 0 perfect to 1 unrelated
	DatabasePath   string        `yaml:"database-path,omitempty"`   // SQLite file for track matches; empty disables persistence

	ITunesURL           string `yaml:"itunes-url,omitempty"`
	SpotifyAPIURL       string `yaml:"spotify-api-url,omitempty"`
	SpotifyTokenURL     string `yaml:"spotify-token-url,omitempty"`
	SpotifyClientID     string `yaml:"spotify-client-id,omitempty"`     // falls back to SPOTIFY_CLIENT_ID
	SpotifyClientSecret string `yaml:"spotify-client-secret,omitempty"` // falls back to SPOTIFY_CLIENT_SECRET
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.DurationVar(&cfg.StreamTimeout, util.PrefixConfig(prefix, "stream-timeout"), defaultStreamTimeout,
		"Hard bound on connecting to the upstream stream and reading its first metadata block.")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), "",
		"User-Agent sent to upstream stream servers. Empty uses a player-like default; some servers refuse unknown agents.")
	f.IntVar(&cfg.CacheSize, util.PrefixConfig(prefix, "cache-size"), defaultCacheSize,
		"Maximum number of titles held in the in-memory match cache. Oldest-inserted entries are evicted first.")
	f.Float64Var(&cfg.FuzzyThreshold, util.PrefixConfig(prefix, "fuzzy-threshold"), defaultFuzzyThreshold,
		"Fuzzy match distance cutoff for the secondary catalog provider (0 = perfect, 1 = no similarity).")
	f.StringVar(&cfg.DatabasePath, util.PrefixConfig(prefix, "database-path"), defaultDatabasePath,
		"Path to the SQLite database for matched tracks. Empty disables persistence.")
	f.StringVar(&cfg.SpotifyClientID, util.PrefixConfig(prefix, "spotify-client-id"), "",
		"Spotify client ID for the secondary catalog provider. Falls back to the SPOTIFY_CLIENT_ID environment variable.")
	f.StringVar(&cfg.SpotifyClientSecret, util.PrefixConfig(prefix, "spotify-client-secret"), "",
		"Spotify client secret. Falls back to the SPOTIFY_CLIENT_SECRET environment variable.")
}
