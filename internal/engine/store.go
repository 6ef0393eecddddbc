package engine

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists the operation history to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			instance    TEXT NOT NULL,
			action      TEXT NOT NULL,
			detail_json TEXT NOT NULL DEFAULT '{}',
			error       TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_instance ON events(instance, created_at);
	`)
	return err
}

// RecordEvent inserts ev.
func (s *Store) RecordEvent(ev *Event) error {
	detail := []byte("{}")
	if len(ev.Detail) > 0 {
		var err error
		if detail, err = sonic.Marshal(ev.Detail); err != nil {
			return fmt.Errorf("encoding event detail: %w", err)
		}
	}
	_, err := s.db.Exec(`
		INSERT INTO events (id, instance, action, detail_json, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Instance, ev.Action, string(detail), ev.Error,
		ev.Duration.Milliseconds(), ev.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

// ListEvents returns the most recent events first. An empty instance lists
// every instance; limit <= 0 means no limit.
func (s *Store) ListEvents(instance string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, instance, action, detail_json, error, duration_ms, created_at
		FROM events
		WHERE ? = '' OR instance = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, instance, instance, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var ev Event
		var detail, createdAt string
		var durationMS int64
		if err := rows.Scan(&ev.ID, &ev.Instance, &ev.Action, &detail, &ev.Error, &durationMS, &createdAt); err != nil {
			return nil, err
		}
		if detail != "" && detail != "{}" {
			if err := sonic.UnmarshalString(detail, &ev.Detail); err != nil {
				return nil, fmt.Errorf("decoding detail of event %s: %w", ev.ID, err)
			}
		}
		ev.Duration = time.Duration(durationMS) * time.Millisecond
		ev.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// DeleteEvents removes the history of instance and returns how many events
// were dropped.
func (s *Store) DeleteEvents(instance string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM events WHERE instance = ?`, instance)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
