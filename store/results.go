package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minaorangina/cadena/room"
	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 20

// ResultStore archives finished matches in SQLite. Live match state is never stored.
type ResultStore struct {
	db *sql.DB
}

// OpenResultStore opens (or creates) the database and runs migrations
func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection keeps ":memory:" databases whole and serialises writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}

	s := &ResultStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *ResultStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			room_id      TEXT PRIMARY KEY,
			rules        TEXT NOT NULL,
			difficulty   TEXT NOT NULL,
			winner_id    TEXT NOT NULL,
			winner_name  TEXT NOT NULL,
			rounds       INTEGER NOT NULL,
			players_json TEXT NOT NULL,
			finished_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS results_finished_at ON results(finished_at);
	`)
	return err
}

// Record implements room.Recorder
func (s *ResultStore) Record(ctx context.Context, res room.Result) error {
	players, err := json.Marshal(res.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (room_id, rules, difficulty, winner_id, winner_name, rounds, players_json, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, res.RoomID, res.Rules, res.Difficulty, res.WinnerID, res.WinnerName, res.Rounds, string(players), res.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert result %s: %w", res.RoomID, err)
	}
	return nil
}

// Recent returns up to limit results, newest first
func (s *ResultStore) Recent(ctx context.Context, limit int) ([]room.Result, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT room_id, rules, difficulty, winner_id, winner_name, rounds, players_json, finished_at
		FROM results ORDER BY finished_at DESC, room_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []room.Result{}
	for rows.Next() {
		var (
			res     room.Result
			players string
		)
		if err := rows.Scan(&res.RoomID, &res.Rules, &res.Difficulty, &res.WinnerID, &res.WinnerName,
			&res.Rounds, &players, &res.FinishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(players), &res.Players); err != nil {
			return nil, fmt.Errorf("decode players of %s: %w", res.RoomID, err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}
