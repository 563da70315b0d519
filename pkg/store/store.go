// Package store persists match schedules and per-guild ignore lists in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id     INTEGER NOT NULL,
	opponent     TEXT    NOT NULL,
	scheduled_at INTEGER NOT NULL,
	created_by   INTEGER NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_guild_time ON matches (guild_id, scheduled_at);

CREATE TABLE IF NOT EXISTS ignores (
	guild_id   INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	reason     TEXT    NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	PRIMARY KEY (guild_id, user_id)
);
`

// Match is one scheduled clan match.
type Match struct {
	ID          int64
	GuildID     int64
	Opponent    string
	ScheduledAt time.Time
	CreatedBy   int64
	CreatedAt   time.Time
}

// Store wraps the SQLite handle.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the store at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AddMatch inserts one scheduled match and returns it with its id filled in.
func (s *Store) AddMatch(ctx context.Context, m Match) (Match, error) {
	if strings.TrimSpace(m.Opponent) == "" {
		return Match{}, fmt.Errorf("opponent is required")
	}
	if m.ScheduledAt.IsZero() {
		return Match{}, fmt.Errorf("scheduled time is required")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO matches (guild_id, opponent, scheduled_at, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.GuildID, strings.TrimSpace(m.Opponent), toMillis(m.ScheduledAt), m.CreatedBy, toMillis(m.CreatedAt),
	)
	if err != nil {
		return Match{}, fmt.Errorf("insert match: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return Match{}, fmt.Errorf("match id: %w", err)
	}
	return m, nil
}

// UpcomingMatches lists matches scheduled at or after the given time,
// earliest first.
func (s *Store) UpcomingMatches(ctx context.Context, guildID int64, after time.Time) ([]Match, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, guild_id, opponent, scheduled_at, created_by, created_at
		 FROM matches
		 WHERE guild_id = ? AND scheduled_at >= ?
		 ORDER BY scheduled_at ASC`,
		guildID, toMillis(after),
	)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var scheduledAt, createdAt int64
		if err := rows.Scan(&m.ID, &m.GuildID, &m.Opponent, &scheduledAt, &m.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.ScheduledAt = fromMillis(scheduledAt)
		m.CreatedAt = fromMillis(createdAt)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// AddIgnore upserts a user on the guild's ignore list.
func (s *Store) AddIgnore(ctx context.Context, guildID, userID int64, reason string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO ignores (guild_id, user_id, reason, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (guild_id, user_id) DO UPDATE SET reason = excluded.reason`,
		guildID, userID, strings.TrimSpace(reason), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert ignore: %w", err)
	}
	return nil
}

// RemoveIgnore drops a user from the guild's ignore list. Removing an
// absent entry is not an error.
func (s *Store) RemoveIgnore(ctx context.Context, guildID, userID int64) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM ignores WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		return fmt.Errorf("delete ignore: %w", err)
	}
	return nil
}

// IgnoredSet returns the guild's ignore list as an id set, ready to feed
// into reconciliation.
func (s *Store) IgnoredSet(ctx context.Context, guildID int64) (map[int64]struct{}, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id FROM ignores WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, fmt.Errorf("query ignores: %w", err)
	}
	defer rows.Close()

	ignored := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ignore: %w", err)
		}
		ignored[id] = struct{}{}
	}
	return ignored, rows.Err()
}
