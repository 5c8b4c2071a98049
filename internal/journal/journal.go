// Package journal keeps a local audit log of handled chat commands. It is
// optional infrastructure: a nil *Journal is a valid no-op recorder, and
// journal failures must never influence what the user sees.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome labels recorded with each command.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)

type Entry struct {
	ID         int64
	TelegramID string
	ChatID     int64
	Command    string
	Outcome    string
	CreatedAt  time.Time
}

type Journal struct {
	db *sql.DB
}

// Open creates the journal store at dbPath, running migrations first.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one command entry. A nil journal is a no-op.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j == nil || j.db == nil {
		return nil
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO command_log (telegram_id, chat_id, command, outcome) VALUES (?, ?, ?, ?)`,
		e.TelegramID, e.ChatID, e.Command, e.Outcome)
	if err != nil {
		return fmt.Errorf("insert command log entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j == nil || j.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, telegram_id, chat_id, command, outcome, created_at
		 FROM command_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query command log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TelegramID, &e.ChatID, &e.Command, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan command log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate command log rows: %w", err)
	}

	return entries, nil
}
