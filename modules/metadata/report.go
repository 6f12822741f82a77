package metadata

import (
	"github.com/zachfi/stationmeta/pkg/catalog"
	"github.com/zachfi/stationmeta/pkg/shoutcast"
)

// Report is the composed response for one stream: the station descriptor
// flattened alongside the current title and, when a catalog lookup
// succeeded now or earlier, the matched track.
type Report struct {
	Server               string         `json:"server,omitempty"`
	Genres               []string       `json:"genre,omitempty"`
	Bitrate              int            `json:"bitrate,omitempty"`
	Quality              int            `json:"quality,omitempty"`
	Channels             int            `json:"channels,omitempty"`
	SampleRate           int            `json:"sampleRate,omitempty"`
	Name                 string         `json:"name,omitempty"`
	Description          string         `json:"description,omitempty"`
	URL                  string         `json:"url,omitempty"`
	AdvertisedBitrate    int            `json:"advertisedBitrate,omitempty"`
	AdvertisedSampleRate int            `json:"advertisedSampleRate,omitempty"`
	LogoURL              string         `json:"logo,omitempty"`
	CountryCode          string         `json:"countryCode,omitempty"`
	SubdivisionCode      string         `json:"countrySubdivisionCode,omitempty"`
	LanguageCodes        []string       `json:"languageCodes,omitempty"`
	GeoLatLong           string         `json:"geoLatLong,omitempty"`
	ContentType          string         `json:"contentType,omitempty"`
	Title                string         `json:"title,omitempty"`
	TrackMatch           *catalog.Track `json:"trackMatch,omitempty"`
}

func reportFromStation(st shoutcast.Station, title string) Report {
	return Report{
		Server:               st.Server,
		Genres:               st.Genres,
		Bitrate:              st.AudioInfo.Bitrate,
		Quality:              st.AudioInfo.Quality,
		Channels:             st.AudioInfo.Channels,
		SampleRate:           st.AudioInfo.SampleRate,
		Name:                 st.Name,
		Description:          st.Description,
		URL:                  st.URL,
		AdvertisedBitrate:    st.Bitrate,
		AdvertisedSampleRate: st.SampleRate,
		LogoURL:              st.LogoURL,
		CountryCode:          st.CountryCode,
		SubdivisionCode:      st.SubdivisionCode,
		LanguageCodes:        st.LanguageCodes,
		GeoLatLong:           st.GeoLatLong,
		ContentType:          st.ContentType,
		Title:                title,
	}
}

// mergeReports overlays fresh on top of cached, field by field: a fresh
// non-zero value wins, a fresh zero value lets the cached one survive. The
// merge is explicit rather than generic so shape changes stay auditable.
func mergeReports(cached, fresh Report) Report {
	out := cached

	if fresh.Server != "" {
		out.Server = fresh.Server
	}
	if len(fresh.Genres) > 0 {
		out.Genres = fresh.Genres
	}
	if fresh.Bitrate != 0 {
		out.Bitrate = fresh.Bitrate
	}
	if fresh.Quality != 0 {
		out.Quality = fresh.Quality
	}
	if fresh.Channels != 0 {
		out.Channels = fresh.Channels
	}
	if fresh.SampleRate != 0 {
		out.SampleRate = fresh.SampleRate
	}
	if fresh.Name != "" {
		out.Name = fresh.Name
	}
	if fresh.Description != "" {
		out.Description = fresh.Description
	}
	if fresh.URL != "" {
		out.URL = fresh.URL
	}
	if fresh.AdvertisedBitrate != 0 {
		out.AdvertisedBitrate = fresh.AdvertisedBitrate
	}
	if fresh.AdvertisedSampleRate != 0 {
		out.AdvertisedSampleRate = fresh.AdvertisedSampleRate
	}
	if fresh.LogoURL != "" {
		out.LogoURL = fresh.LogoURL
	}
	if fresh.CountryCode != "" {
		out.CountryCode = fresh.CountryCode
	}
	if fresh.SubdivisionCode != "" {
		out.SubdivisionCode = fresh.SubdivisionCode
	}
	if len(fresh.LanguageCodes) > 0 {
		out.LanguageCodes = fresh.LanguageCodes
	}
	if fresh.GeoLatLong != "" {
		out.GeoLatLong = fresh.GeoLatLong
	}
	if fresh.ContentType != "" {
		out.ContentType = fresh.ContentType
	}
	if fresh.Title != "" {
		out.Title = fresh.Title
	}
	if fresh.TrackMatch != nil {
		out.TrackMatch = fresh.TrackMatch
	}

	return out
}
