package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/zachfi/stationmeta/pkg/catalog"
	"github.com/zachfi/stationmeta/pkg/shoutcast"
)

// errNoTitle marks a stream that connected fine but carried no usable
// in-band metadata; the request has nothing to report.
var errNoTitle = errors.New("stream has no usable metadata")

// providerTimeout bounds each catalog call so an unresponsive provider
// cannot hang the response indefinitely.
const providerTimeout = 5 * time.Second

// LookupRequest identifies what to look up and, optionally, on whose
// behalf for listen-history purposes.
type LookupRequest struct {
	StreamURL string
	UserID    string
	StationID string
}

// Lookup runs the full pipeline for one request: fetch the stream, decode
// the station and first title, merge with the cache, enrich on a miss, and
// return the composed report. Only stream acquisition (connect, headers,
// first title) can fail; catalog and persistence problems degrade to a
// report without the affected fields.
func (m *Metadata) Lookup(ctx context.Context, req LookupRequest) (Report, error) {
	sctx, cancel := context.WithTimeout(ctx, m.cfg.StreamTimeout)
	defer cancel()

	stream, err := shoutcast.Open(sctx, req.StreamURL, shoutcast.Options{
		Timeout:   m.cfg.StreamTimeout,
		UserAgent: m.cfg.UserAgent,
	})
	if err != nil {
		m.metrics.streamFailures.Inc()
		return Report{}, err
	}

	title, err := stream.FirstTitle(sctx)
	station := stream.Station()
	_ = stream.Close()
	if err != nil {
		m.metrics.streamFailures.Inc()
		return Report{}, err
	}
	if title == "" {
		m.metrics.streamFailures.Inc()
		return Report{}, errNoTitle
	}

	fresh := reportFromStation(station, title)

	report := fresh
	if cached, ok := m.cache.Get(title); ok {
		m.metrics.cacheHits.Inc()
		report = mergeReports(cached, fresh)
	} else {
		m.metrics.cacheMisses.Inc()
	}

	if report.TrackMatch == nil {
		report.TrackMatch = m.matchTitle(ctx, title)
	}

	m.cache.Set(title, report)

	if m.store != nil && report.TrackMatch != nil && req.UserID != "" {
		if err := m.store.AddTrackHistory(ctx, report.TrackMatch.ID, req.UserID, req.StationID); err != nil {
			m.logger.Warn("error recording track history", "err", err)
		}
	}

	return report, nil
}

// matchTitle resolves a title against the catalog providers. Concurrent
// requests for the same title share one in-flight lookup instead of
// hammering the providers independently.
func (m *Metadata) matchTitle(ctx context.Context, title string) *catalog.Track {
	phrase := catalog.CleanPhrase(title)
	if phrase == "" {
		return nil
	}

	// Detach from the stream deadline; shared with any concurrent callers
	// waiting on the same title.
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*providerTimeout)
	defer cancel()

	v, _, _ := m.flight.Do(title, func() (interface{}, error) {
		return m.resolvePhrase(mctx, phrase), nil
	})

	track, _ := v.(*catalog.Track)
	return track
}

// resolvePhrase drives the providers in order: the primary must match
// before the secondary is consulted, and the secondary contributes only
// its external link, never its own artist/title/album. Each step is
// guarded; failures log and move on.
func (m *Metadata) resolvePhrase(ctx context.Context, phrase string) *catalog.Track {
	track := m.matchWith(ctx, m.primary, phrase)
	if track == nil {
		return nil
	}

	if m.secondary != nil {
		if enrich := m.matchWith(ctx, m.secondary, phrase); enrich != nil {
			track.SpotifyURL = enrich.SpotifyURL
		}
	}

	if m.video != nil {
		vctx, cancel := context.WithTimeout(ctx, providerTimeout)
		track.YouTubeURL = m.video.Link(vctx, phrase)
		cancel()
	}

	if m.store != nil {
		if err := m.store.UpsertTrackMatch(ctx, track); err != nil {
			m.logger.Warn("error persisting track match", "err", err)
		}
	}

	return track
}

func (m *Metadata) matchWith(ctx context.Context, matcher catalog.Matcher, phrase string) *catalog.Track {
	pctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	track, err := matcher.Match(pctx, phrase)
	if err != nil {
		m.metrics.lookups.WithLabelValues(matcher.Name(), "error").Inc()
		m.logger.Warn("catalog lookup failed", "provider", matcher.Name(), "err", err)
		return nil
	}
	if track == nil {
		m.metrics.lookups.WithLabelValues(matcher.Name(), "miss").Inc()
		return nil
	}

	m.metrics.lookups.WithLabelValues(matcher.Name(), "match").Inc()
	return track
}
