package shoutcast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// resolvePlaylistURL probes url and, when it serves a .pls or .m3u playlist
// instead of an audio stream, returns the first stream URL it lists. URLs
// without a playlist extension, and URLs that already answer with an
// icy-metaint header, are returned unchanged.
func resolvePlaylistURL(ctx context.Context, client *http.Client, url, userAgent string) (string, error) {
	if !looksLikePlaylist(url) {
		return url, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("icy-metaint") != "" {
		// Already a stream despite the extension.
		return url, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("read playlist: %w", err)
	}

	if target := parsePlaylist(string(body)); target != "" {
		return target, nil
	}
	return "", fmt.Errorf("no stream URL found in playlist %s", url)
}

func looksLikePlaylist(url string) bool {
	u := strings.ToLower(url)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(u, ".pls") || strings.HasSuffix(u, ".m3u") || strings.HasSuffix(u, ".m3u8")
}

// parsePlaylist handles both PLS ("File1=http://...") and M3U (one URL per
// line, # comments) formats and returns the first stream URL, or "".
func parsePlaylist(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}

		if strings.HasPrefix(line, "File") {
			if _, v, ok := strings.Cut(line, "="); ok {
				line = strings.TrimSpace(v)
			}
		}

		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return line
		}
	}
	return ""
}
