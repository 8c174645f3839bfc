// Package storage provides the SQLite audit log of relay rooms.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Only room lifecycle and frame counts are stored; game scores never are.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/multiplayer"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the audit log.
type Store struct {
	db *sql.DB
}

// RoomRecord is one closed room.
type RoomRecord struct {
	ID            int64
	Code          string
	OpenedAt      time.Time
	ClosedAt      time.Time
	Reason        string
	Sides         []pong.Side
	FramesRelayed int
	FramesDropped int
	Starts        int
	Stops         int
	Scores        int
	Overs         int
	Other         int
}

// Duration returns how long the room was open.
func (r RoomRecord) Duration() time.Duration {
	return r.ClosedAt.Sub(r.OpenedAt)
}

// SidesLabel joins the sides that joined, e.g. "1,2".
func (r RoomRecord) SidesLabel() string {
	labels := make([]string, len(r.Sides))
	for i, side := range r.Sides {
		labels[i] = string(side)
	}
	return strings.Join(labels, ",")
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			opened_at DATETIME NOT NULL,
			closed_at DATETIME NOT NULL,
			reason TEXT NOT NULL,
			sides TEXT NOT NULL DEFAULT '',
			frames_relayed INTEGER NOT NULL DEFAULT 0,
			frames_dropped INTEGER NOT NULL DEFAULT 0,
			starts INTEGER NOT NULL DEFAULT 0,
			stops INTEGER NOT NULL DEFAULT 0,
			scores INTEGER NOT NULL DEFAULT 0,
			overs INTEGER NOT NULL DEFAULT 0,
			other INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_rooms_code ON rooms(code);
		CREATE INDEX IF NOT EXISTS idx_rooms_closed_at ON rooms(closed_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertRoom records a closed room and returns its row ID.
func (s *Store) InsertRoom(stats multiplayer.RoomStats) (int64, error) {
	sides := make([]string, 0, 2)
	for _, side := range stats.Sides() {
		sides = append(sides, string(side))
	}

	res, err := s.db.Exec(
		`INSERT INTO rooms
		 (code, opened_at, closed_at, reason, sides, frames_relayed, frames_dropped, starts, stops, scores, overs, other)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.Code,
		stats.OpenedAt.UTC().Format(timeLayout),
		stats.ClosedAt.UTC().Format(timeLayout),
		stats.Reason.String(),
		strings.Join(sides, ","),
		stats.FramesRelayed,
		stats.FramesDropped,
		stats.Starts,
		stats.Stops,
		stats.Scores,
		stats.Overs,
		stats.Other,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save room: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SaveRoom implements multiplayer.RoomRecorder.
func (s *Store) SaveRoom(stats multiplayer.RoomStats) error {
	_, err := s.InsertRoom(stats)
	return err
}

// Ensure Store implements RoomRecorder
var _ multiplayer.RoomRecorder = (*Store)(nil)

const roomColumns = `id, code, opened_at, closed_at, reason, sides,
		        frames_relayed, frames_dropped, starts, stops, scores, overs, other`

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(row scanner) (RoomRecord, error) {
	var r RoomRecord
	var openedAt, closedAt any
	var sides string
	err := row.Scan(
		&r.ID,
		&r.Code,
		&openedAt,
		&closedAt,
		&r.Reason,
		&sides,
		&r.FramesRelayed,
		&r.FramesDropped,
		&r.Starts,
		&r.Stops,
		&r.Scores,
		&r.Overs,
		&r.Other,
	)
	if err != nil {
		return r, err
	}
	r.OpenedAt = parseTime(openedAt)
	r.ClosedAt = parseTime(closedAt)
	for _, label := range strings.Split(sides, ",") {
		if side, err := pong.ParseSide(label); err == nil {
			r.Sides = append(r.Sides, side)
		}
	}
	return r, nil
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v.UTC()
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentRooms retrieves the most recently closed rooms.
func (s *Store) RecentRooms(limit int) ([]RoomRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+roomColumns+`
		 FROM rooms
		 ORDER BY closed_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rooms: %w", err)
	}
	defer rows.Close()

	var records []RoomRecord
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// RoomByCode retrieves the most recent record for a room code.
// Returns nil if the code was never recorded.
func (s *Store) RoomByCode(code string) (*RoomRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+roomColumns+`
		 FROM rooms
		 WHERE code = ?
		 ORDER BY closed_at DESC, id DESC
		 LIMIT 1`,
		code,
	)
	r, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query room: %w", err)
	}
	return &r, nil
}

// RelayTotals aggregates every recorded room.
type RelayTotals struct {
	Rooms         int
	FramesRelayed int64
	FramesDropped int64
	Handoffs      int64
	Goals         int64
}

// Totals returns aggregate counts across all recorded rooms.
func (s *Store) Totals() (RelayTotals, error) {
	var t RelayTotals
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(frames_relayed), 0), COALESCE(SUM(frames_dropped), 0),
		        COALESCE(SUM(overs), 0), COALESCE(SUM(scores), 0)
		 FROM rooms`,
	).Scan(&t.Rooms, &t.FramesRelayed, &t.FramesDropped, &t.Handoffs, &t.Goals)
	if err != nil {
		return t, fmt.Errorf("storage: cannot get totals: %w", err)
	}
	return t, nil
}
