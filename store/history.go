package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// HistoryDB records exercise sessions in a local SQLite file (WAL mode).
type HistoryDB struct {
	*sql.DB
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string) (*HistoryDB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	raw, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if err := raw.Ping(); err != nil {
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	// One writer; WAL still allows concurrent readers.
	raw.SetMaxOpenConns(1)
	return &HistoryDB{raw}, nil
}

// Migrate applies the schema. Idempotent.
func (db *HistoryDB) Migrate() error {
	if _, err := db.Exec(ddlSessions); err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	return nil
}

const ddlSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    sport_type  TEXT    NOT NULL,
    device_uuid TEXT    NOT NULL,
    request_id  TEXT    NOT NULL,          -- id of the start_session frame
    started_at  INTEGER NOT NULL,          -- Unix seconds
    saved_at    INTEGER                    -- NULL until save_session accepted
);
CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions (started_at DESC);
`

// Session is one recorded exercise session.
type Session struct {
	ID         int64
	SportType  string
	DeviceUUID string
	RequestID  string
	StartedAt  time.Time
	SavedAt    *time.Time
}

// SessionStarted inserts a new open session record.
func (db *HistoryDB) SessionStarted(sportType, deviceUUID, requestID string) error {
	_, err := db.Exec(`
		INSERT INTO sessions (sport_type, device_uuid, request_id, started_at)
		VALUES (?, ?, ?, ?)`,
		sportType, deviceUUID, requestID, time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("history: session started: %w", err)
	}
	return nil
}

// SessionSaved stamps the most recent open session for the sport and device.
// A save with no matching open session is a no-op; the server still owns the
// authoritative record.
func (db *HistoryDB) SessionSaved(sportType, deviceUUID, requestID string) error {
	_, err := db.Exec(`
		UPDATE sessions SET saved_at = ?
		WHERE id = (
			SELECT id FROM sessions
			WHERE sport_type = ? AND device_uuid = ? AND saved_at IS NULL
			ORDER BY started_at DESC, id DESC LIMIT 1
		)`,
		time.Now().UTC().Unix(), sportType, deviceUUID,
	)
	if err != nil {
		return fmt.Errorf("history: session saved: %w", err)
	}
	return nil
}

// RecentSessions returns the n most recently started sessions.
func (db *HistoryDB) RecentSessions(n int) ([]*Session, error) {
	rows, err := db.Query(`
		SELECT id, sport_type, device_uuid, request_id, started_at, saved_at
		FROM sessions
		ORDER BY started_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: recent sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		var (
			s       Session
			started int64
			saved   sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.SportType, &s.DeviceUUID, &s.RequestID, &started, &saved); err != nil {
			return nil, err
		}
		s.StartedAt = time.Unix(started, 0).UTC()
		if saved.Valid {
			t := time.Unix(saved.Int64, 0).UTC()
			s.SavedAt = &t
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
