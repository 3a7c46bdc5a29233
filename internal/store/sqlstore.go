package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codewords/internal/room"
	"codewords/internal/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	code       TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SQLiteStore persists each room as a JSON document keyed by room code.
// Every mutation runs in an immediate transaction, which gives the
// per-room atomic read-modify-write the reveal logic relies on.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRoom(r *shared.Room) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding room: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO rooms (code, doc, updated_at) VALUES (?, ?, ?)`,
		r.Code, string(doc), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}
	if n == 0 {
		return room.ErrRoomExists
	}
	return nil
}

func (s *SQLiteStore) GetRoom(code string) (*shared.Room, bool) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM rooms WHERE code = ?`, code).Scan(&doc)
	if err != nil {
		return nil, false
	}
	var r shared.Room
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, false
	}
	return &r, true
}

func (s *SQLiteStore) ApplyMutation(code string, fn func(*shared.Room) error) (*shared.Room, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting mutation: %w", err)
	}
	defer tx.Rollback()

	var doc string
	err = tx.QueryRow(`SELECT doc FROM rooms WHERE code = ?`, code).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, room.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading room: %w", err)
	}

	var r shared.Room
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("decoding room: %w", err)
	}
	if err := fn(&r); err != nil {
		return nil, err
	}
	r.LastActivity = time.Now()

	next, err := json.Marshal(&r)
	if err != nil {
		return nil, fmt.Errorf("encoding room: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE rooms SET doc = ?, updated_at = ? WHERE code = ?`,
		string(next), time.Now(), code,
	); err != nil {
		return nil, fmt.Errorf("storing room: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing mutation: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStore) DeleteRoom(code string) error {
	if _, err := s.db.Exec(`DELETE FROM rooms WHERE code = ?`, code); err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return nil
}
