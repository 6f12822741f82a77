package shoutcast

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zachfi/stationmeta/pkg/mojibake"
)

// fixer repairs icy-name/icy-description text that upstream servers sent as
// UTF-8 but declared as a single-byte charset.
var fixer = mojibake.New()

// AudioInfo holds the fields of the ice-audio-info header. Zero means the
// server did not advertise the value.
type AudioInfo struct {
	Bitrate    int `json:"bitrate"`
	Quality    int `json:"quality"`
	Channels   int `json:"channels"`
	SampleRate int `json:"sampleRate"`
}

// Station describes a stream as advertised by its response headers. One is
// produced per connection and discarded with it; missing headers leave
// zero-valued fields.
type Station struct {
	Server          string
	Genres          []string
	AudioInfo       AudioInfo
	Name            string
	Description     string
	URL             string
	Bitrate         int
	SampleRate      int
	LogoURL         string
	CountryCode     string
	SubdivisionCode string
	LanguageCodes   []string
	GeoLatLong      string
	ContentType     string
}

// ParseHeaders decodes ICY response headers into a Station. It is total:
// absent or malformed headers degrade to zero values and it never fails.
func ParseHeaders(h http.Header) Station {
	return Station{
		Server:          strings.TrimSpace(h.Get("Server")),
		Genres:          splitList(h.Get("icy-genre")),
		AudioInfo:       parseAudioInfo(h.Get("ice-audio-info")),
		Name:            strings.TrimSpace(fixer.Fix(h.Get("icy-name"))),
		Description:     strings.TrimSpace(fixer.Fix(h.Get("icy-description"))),
		URL:             canonicalURL(h.Get("icy-url")),
		Bitrate:         atoiOrZero(h.Get("icy-br")),
		SampleRate:      atoiOrZero(h.Get("icy-sr")),
		LogoURL:         strings.TrimSpace(h.Get("icy-logo")),
		CountryCode:     strings.TrimSpace(h.Get("icy-country-code")),
		SubdivisionCode: strings.TrimSpace(h.Get("icy-country-subdivision-code")),
		LanguageCodes:   splitList(h.Get("icy-language-codes")),
		GeoLatLong:      strings.TrimSpace(h.Get("icy-geo-lat-long")),
		ContentType:     strings.TrimSpace(h.Get("Content-Type")),
	}
}

// parseAudioInfo decodes a `;`-separated `key=value` list such as
// "ice-samplerate=44100;ice-bitrate=128;ice-channels=2". Keys are matched by
// case-insensitive substring because servers disagree on prefixes.
func parseAudioInfo(raw string) AudioInfo {
	var info AudioInfo

	for _, pair := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		n := atoiOrZero(v)

		switch {
		case strings.Contains(k, "samplerate"):
			info.SampleRate = n
		case strings.Contains(k, "bitrate"):
			info.Bitrate = n
		case strings.Contains(k, "quality"):
			info.Quality = n
		case strings.Contains(k, "channels"):
			info.Channels = n
		}
	}

	return info
}

// splitList splits a comma-separated header into trimmed entries. An empty
// header yields nil, not a one-element slice.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// canonicalURL re-serializes the header URL to canonical form, passing the
// trimmed original through when it does not parse.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.String()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
