// Package metadata implements the now-playing pipeline: it connects to a
// listener-facing stream URL, extracts the current track title from the ICY
// byte stream, enriches it against external music catalogs, and serves the
// composed result.
package metadata

import (
	"context"
	"log/slog"
	"os"

	"github.com/grafana/dskit/services"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/zachfi/stationmeta/pkg/catalog"
	"github.com/zachfi/stationmeta/pkg/trackdb"
)

var module = "metadata"

// Metadata is the pipeline service. The title cache is its only long-lived
// mutable state; everything else is per-request.
type Metadata struct {
	services.Service
	cfg    *Config
	logger *slog.Logger

	store     trackdb.Store
	primary   catalog.Matcher
	secondary catalog.Matcher
	video     *catalog.VideoSearch

	cache  *titleCache
	flight singleflight.Group

	metrics *pipelineMetrics
}

type pipelineMetrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	streamFailures prometheus.Counter
	lookups        *prometheus.CounterVec
}

func newPipelineMetrics(reg prometheus.Registerer) *pipelineMetrics {
	m := &pipelineMetrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stationmeta", Subsystem: module,
			Name: "cache_hits_total", Help: "Title cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stationmeta", Subsystem: module,
			Name: "cache_misses_total", Help: "Title cache misses.",
		}),
		streamFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stationmeta", Subsystem: module,
			Name: "stream_failures_total", Help: "Upstream stream fetches that yielded no usable metadata.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stationmeta", Subsystem: module,
			Name: "lookups_total", Help: "Catalog provider lookups by outcome.",
		}, []string{"provider", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.cacheHits, m.cacheMisses, m.streamFailures, m.lookups)
	}
	return m
}

// New creates and returns a new Metadata service.
func New(cfg Config, logger slog.Logger, reg prometheus.Registerer) (*Metadata, error) {
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = defaultStreamTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = defaultFuzzyThreshold
	}
	if cfg.SpotifyClientID == "" {
		cfg.SpotifyClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	}
	if cfg.SpotifyClientSecret == "" {
		cfg.SpotifyClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	}

	m := &Metadata{
		cfg:     &cfg,
		logger:  logger.With("module", module),
		cache:   newTitleCache(cfg.CacheSize),
		metrics: newPipelineMetrics(reg),
	}

	m.Service = services.NewBasicService(m.starting, m.running, m.stopping)

	return m, nil
}

func (m *Metadata) starting(ctx context.Context) error {
	var itunesOpts []catalog.ITunesOption
	if m.cfg.ITunesURL != "" {
		itunesOpts = append(itunesOpts, catalog.WithITunesURL(m.cfg.ITunesURL))
	}
	m.primary = catalog.NewITunes(itunesOpts...)

	if m.cfg.SpotifyClientID != "" && m.cfg.SpotifyClientSecret != "" {
		m.secondary = catalog.NewSpotify(catalog.SpotifyConfig{
			ClientID:     m.cfg.SpotifyClientID,
			ClientSecret: m.cfg.SpotifyClientSecret,
			APIURL:       m.cfg.SpotifyAPIURL,
			TokenURL:     m.cfg.SpotifyTokenURL,
			Threshold:    m.cfg.FuzzyThreshold,
		})
	} else {
		m.logger.Warn("no spotify credentials, secondary catalog lookups disabled")
	}

	m.video = catalog.NewVideoSearch()

	if m.cfg.DatabasePath != "" {
		store, err := trackdb.Open(m.cfg.DatabasePath)
		if err != nil {
			m.logger.Error("error opening track database", "err", err)
			return err
		}
		m.store = store
	} else {
		m.logger.Warn("no database path, match persistence disabled")
	}

	return nil
}

func (m *Metadata) running(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (m *Metadata) stopping(_ error) error {
	m.logger.Info("stopping")

	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
