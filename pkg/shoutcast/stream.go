package shoutcast

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultUserAgent = "iTunes/12.9.2 (Macintosh; OS X 10.14.3) AppleWebKit/606.4.5"
	defaultTimeout   = 5 * time.Second
)

// Options control how a stream connection is established.
type Options struct {
	// Timeout bounds dialing and the wait for response headers.
	// Defaults to 5 seconds.
	Timeout time.Duration

	// UserAgent sent upstream; some servers refuse unknown agents.
	UserAgent string
}

// Stream represents an open connection to a remote ICY server.
type Stream struct {
	station Station
	metaint int

	br *bufio.Reader
	rc io.ReadCloser
}

// Open establishes a connection to a remote server with in-band metadata
// negotiation requested. Playlist files (.pls, .m3u) are resolved to stream
// URLs first. The returned stream stays bound to ctx: cancelling it aborts
// any in-flight read.
func Open(ctx context.Context, url string, opts Options) (*Stream, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	dialer := &net.Dialer{Timeout: opts.Timeout}
	client := &http.Client{
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			DisableCompression:    true,
			ResponseHeaderTimeout: opts.Timeout,
		},
		// No total timeout; the body is a live stream.
	}

	resolved, err := resolvePlaylistURL(ctx, client, url, opts.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Icy-MetaData", "1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	// An absent or unparseable icy-metaint means the server will not send
	// in-band metadata; the stream is still usable for its headers.
	metaint, err := strconv.Atoi(resp.Header.Get("icy-metaint"))
	if err != nil || metaint < 0 {
		metaint = 0
	}

	return &Stream{
		station: ParseHeaders(resp.Header),
		metaint: metaint,
		br:      bufio.NewReader(resp.Body),
		rc:      resp.Body,
	}, nil
}

// Station returns the descriptor decoded from the response headers.
func (s *Stream) Station() Station {
	return s.station
}

// MetaInt returns the advertised metadata interval in bytes, 0 when the
// server sends no in-band metadata.
func (s *Stream) MetaInt() int {
	return s.metaint
}

// FirstTitle reads the stream until the first non-empty metadata block
// decodes and returns its title, which may still be empty when the block
// carries no StreamTitle key. Servers without a metadata interval yield ""
// immediately. A zero length byte at a metadata boundary means the block is
// empty and the scan continues with the next interval.
func (s *Stream) FirstTitle(ctx context.Context) (string, error) {
	if s.metaint == 0 {
		return "", nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		// Audio payload is discarded; only the metadata matters here.
		if _, err := io.CopyN(io.Discard, s.br, int64(s.metaint)); err != nil {
			return "", fmt.Errorf("skip audio: %w", err)
		}

		length, err := s.br.ReadByte()
		if err != nil {
			return "", fmt.Errorf("read metadata length: %w", err)
		}
		if length == 0 {
			continue
		}

		block := make([]byte, int(length)*16)
		if _, err := io.ReadFull(s.br, block); err != nil {
			return "", fmt.Errorf("read metadata block: %w", err)
		}

		return NewMetadata(block).StreamTitle, nil
	}
}

// Close closes the underlying connection.
func (s *Stream) Close() error {
	return s.rc.Close()
}
