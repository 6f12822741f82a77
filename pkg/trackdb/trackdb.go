// Package trackdb persists catalog matches and listen history in SQLite.
package trackdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zachfi/stationmeta/pkg/catalog"
)

// Store is the persistence contract the metadata pipeline consumes. Both
// operations are best-effort from the caller's point of view: failures are
// logged and never abort a response.
type Store interface {
	// UpsertTrackMatch inserts or overwrites the record keyed by its
	// phrase-derived ID.
	UpsertTrackMatch(ctx context.Context, track *catalog.Track) error

	// AddTrackHistory appends a fire-and-forget listen event.
	AddTrackHistory(ctx context.Context, trackID, userID, stationID string) error

	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS track_matches (
	id           TEXT PRIMARY KEY,
	artist       TEXT NOT NULL,
	title        TEXT NOT NULL,
	album        TEXT,
	release_date TIMESTAMP,
	artwork_url  TEXT,
	itunes_url   TEXT,
	youtube_url  TEXT,
	spotify_url  TEXT,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS track_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id   TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	station_id TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// SQLite implements Store on a local database file.
type SQLite struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path. ":memory:" gives
// an ephemeral store for tests.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) UpsertTrackMatch(ctx context.Context, track *catalog.Track) error {
	const q = `
INSERT INTO track_matches
	(id, artist, title, album, release_date, artwork_url, itunes_url, youtube_url, spotify_url, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	artist = excluded.artist,
	title = excluded.title,
	album = excluded.album,
	release_date = excluded.release_date,
	artwork_url = excluded.artwork_url,
	itunes_url = excluded.itunes_url,
	youtube_url = excluded.youtube_url,
	spotify_url = excluded.spotify_url,
	updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q,
		track.ID,
		track.Artist,
		track.Title,
		nullString(track.Album),
		nullTime(track.ReleaseDate),
		nullString(track.ArtworkURL),
		nullString(track.ITunesURL),
		nullString(track.YouTubeURL),
		nullString(track.SpotifyURL),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert track match: %w", err)
	}
	return nil
}

func (s *SQLite) AddTrackHistory(ctx context.Context, trackID, userID, stationID string) error {
	const q = `INSERT INTO track_history (track_id, user_id, station_id, created_at) VALUES (?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, q, trackID, userID, stationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add track history: %w", err)
	}
	return nil
}

// GetTrackMatch returns the stored record for id, or nil when absent.
func (s *SQLite) GetTrackMatch(ctx context.Context, id string) (*catalog.Track, error) {
	const q = `
SELECT id, artist, title, album, release_date, artwork_url, itunes_url, youtube_url, spotify_url
FROM track_matches WHERE id = ?`

	var (
		track                  catalog.Track
		album, artwork, itunes sql.NullString
		youtube, spotify       sql.NullString
		released               sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&track.ID, &track.Artist, &track.Title,
		&album, &released, &artwork, &itunes, &youtube, &spotify,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track match: %w", err)
	}

	track.Album = fromNullString(album)
	track.ArtworkURL = fromNullString(artwork)
	track.ITunesURL = fromNullString(itunes)
	track.YouTubeURL = fromNullString(youtube)
	track.SpotifyURL = fromNullString(spotify)
	if released.Valid {
		track.ReleaseDate = &released.Time
	}

	return &track, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}
