// Package store keeps privacy-conscious visitor metrics and view events in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_at ON visitors(at)`,
	`CREATE TABLE IF NOT EXISTS view_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		view_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT,
		at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_view_events_kind ON view_events(kind)`,
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type Event struct {
	ViewID    string    `json:"view_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	query, args, err := sq.Insert("visitors").
		Columns("hashed_ip", "user_agent", "path", "at").
		Values(v.HashedIP, v.UserAgent, v.Path, v.Timestamp.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build visit insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *Store) RecordEvent(ctx context.Context, e Event) error {
	query, args, err := sq.Insert("view_events").
		Columns("view_id", "kind", "detail", "at").
		Values(e.ViewID, e.Kind, e.Detail, e.Timestamp.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit uint64) ([]Visit, error) {
	query, args, err := sq.Select("id", "hashed_ip", "COALESCE(user_agent, '')", "COALESCE(path, '')", "at").
		From("visitors").
		OrderBy("at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent visitors: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &at); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.UnixMilli(at).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// CleanupVisitors deletes visits older than before and returns how many
// were removed.
func (s *Store) CleanupVisitors(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := sq.Delete("visitors").
		Where(sq.Lt{"at": before.UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cleanup: %w", err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	return result.RowsAffected()
}
