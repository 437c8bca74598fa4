// Package store keeps the bot's durable state in SQLite: the last handled
// update id and an archive of finished games.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/domino14/vortstelo/game"
)

type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens (creating if needed) the database at path and brings its
// schema up to date.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) LastUpdateID(ctx context.Context) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT last_update_id FROM bot_state WHERE id = 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read last update id: %w", err)
	}
	return id, true, nil
}

func (s *Store) SaveUpdateID(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_state (id, last_update_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET last_update_id = excluded.last_update_id`, id)
	if err != nil {
		return fmt.Errorf("save last update id: %w", err)
	}
	return nil
}

// Result is an archived game.
type Result struct {
	GameID     string
	ChatID     int64
	EndedAt    time.Time
	Reason     string
	Scoreboard game.Scoreboard
}

// Winner is the winner's name; empty on a tie or if nobody played.
func (r Result) Winner() string {
	w := r.Scoreboard.Winner()
	if w == nil || r.Scoreboard.Tie {
		return ""
	}
	return w.Name
}

// ArchiveGame stores a finished game. Archiving the same game twice keeps
// the first copy.
func (s *Store) ArchiveGame(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	board, err := json.Marshal(r.Scoreboard)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO games (id, chat_id, ended_at, reason, winner, tie, scoreboard)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.ChatID, toMillis(r.EndedAt), r.Reason, r.Winner(), r.Scoreboard.Tie, string(board))
	if err != nil {
		return fmt.Errorf("archive game %v: %w", r.GameID, err)
	}
	return nil
}

// RecentResults returns up to n games of a chat, most recent first.
func (s *Store) RecentResults(ctx context.Context, chatID int64, n int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, ended_at, reason, scoreboard FROM games
		 WHERE chat_id = ? ORDER BY ended_at DESC, id LIMIT ?`, chatID, n)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r     Result
			ended int64
			board string
		)
		if err := rows.Scan(&r.GameID, &r.ChatID, &ended, &r.Reason, &board); err != nil {
			return nil, err
		}
		r.EndedAt = fromMillis(ended)
		if err := json.Unmarshal([]byte(board), &r.Scoreboard); err != nil {
			return nil, fmt.Errorf("game %v: bad scoreboard: %w", r.GameID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
