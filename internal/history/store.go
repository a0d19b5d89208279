// Package history journals finished tool calls in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

const (
	defaultLimit  = 20
	recordTimeout = 2 * time.Second
)

// Entry is one journaled call.
type Entry struct {
	ID        int64          `json:"id"`
	CallID    string         `json:"call_id"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
	IsError   bool           `json:"is_error"`
	Text      string         `json:"text"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

// Store is a SQLite-backed call journal. It implements dispatch.Recorder.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// Open creates or opens the journal at path. maxEntries > 0 bounds the
// number of rows kept.
func Open(path string, maxEntries int) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create history directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("cannot open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, maxEntries: maxEntries}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS calls (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		call_id     TEXT NOT NULL,
		tool        TEXT NOT NULL,
		arguments   TEXT,
		is_error    INTEGER NOT NULL DEFAULT 0,
		text        TEXT NOT NULL,
		started_at  INTEGER NOT NULL,
		duration_us INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_calls_tool ON calls(tool, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record journals rec. Failures are logged, never returned to the caller.
func (s *Store) Record(ctx context.Context, rec dispatch.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	err := s.Add(ctx, Entry{
		CallID:    rec.CallID,
		Tool:      rec.Tool,
		Arguments: rec.Arguments,
		IsError:   rec.Response.IsError,
		Text:      rec.Response.String(),
		StartedAt: rec.Started,
		Duration:  rec.Duration,
	})
	if err != nil {
		log.Error().Err(err).Str("call_id", rec.CallID).Msg("failed to journal tool call")
	}
}

// Add inserts e and trims the journal to the configured size.
func (s *Store) Add(ctx context.Context, e Entry) error {
	var args sql.NullString
	if len(e.Arguments) > 0 {
		raw, err := json.Marshal(e.Arguments)
		if err != nil {
			return fmt.Errorf("encoding arguments: %w", err)
		}
		args = sql.NullString{String: string(raw), Valid: true}
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (call_id, tool, arguments, is_error, text, started_at, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.CallID, e.Tool, args, e.IsError, e.Text, e.StartedAt.UnixMicro(), e.Duration.Microseconds(),
	); err != nil {
		return fmt.Errorf("inserting call: %w", err)
	}

	if s.maxEntries > 0 {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM calls WHERE id <= (SELECT id FROM calls ORDER BY id DESC LIMIT 1 OFFSET ?)`,
			s.maxEntries,
		); err != nil {
			return fmt.Errorf("trimming history: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-empty tool
// restricts the result to that tool.
func (s *Store) Recent(ctx context.Context, limit int, tool string) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, call_id, tool, arguments, is_error, text, started_at, duration_us FROM calls`
	params := []any{}
	if tool != "" {
		query += ` WHERE tool = ?`
		params = append(params, tool)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	params = append(params, limit)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			args      sql.NullString
			startedUS int64
			durUS     int64
		)
		if err := rows.Scan(&e.ID, &e.CallID, &e.Tool, &args, &e.IsError, &e.Text, &startedUS, &durUS); err != nil {
			return nil, err
		}
		if args.Valid {
			if err := json.Unmarshal([]byte(args.String), &e.Arguments); err != nil {
				return nil, fmt.Errorf("decoding arguments of call %s: %w", e.CallID, err)
			}
		}
		e.StartedAt = time.UnixMicro(startedUS)
		e.Duration = time.Duration(durUS) * time.Microsecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
