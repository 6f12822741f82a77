package metadata

import (
	"encoding/json"
	"net/http"
	"regexp"
)

var localhostOriginRe = regexp.MustCompile(`^https?://localhost(:\d+)?$`)

// HandleStationMetadata serves GET /station-metadata?url=<stream-url>.
// The response is always 200 application/json: the composed report when the
// stream yielded a title, a literal empty object otherwise. Flaky upstream
// streams must never break the player UI with an error status.
func (m *Metadata) HandleStationMetadata(w http.ResponseWriter, r *http.Request) {
	m.setCORS(w, r)
	w.Header().Set("Content-Type", "application/json")

	streamURL := r.URL.Query().Get("url")
	if streamURL == "" {
		_, _ = w.Write([]byte("{}"))
		return
	}

	report, err := m.Lookup(r.Context(), LookupRequest{
		StreamURL: streamURL,
		UserID:    r.URL.Query().Get("user"),
		StationID: r.URL.Query().Get("station"),
	})
	if err != nil {
		m.logger.Debug("stream lookup failed", "url", streamURL, "err", err)
		_, _ = w.Write([]byte("{}"))
		return
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		m.logger.Debug("error encoding response", "err", err)
	}
}

// setCORS reflects the Origin header only for the server's own origin or a
// localhost development origin.
func (m *Metadata) setCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}

	if origin == "http://"+r.Host || origin == "https://"+r.Host || localhostOriginRe.MatchString(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
}
