package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Spok95/daybook/internal/infra/metrics"
)

type SQLite struct{ db *sql.DB }

// OpenSQLite opens (or creates) the single-file store. One connection is
// enough for a single local writer and avoids SQLITE_BUSY.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_store (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	metrics.KVOps.WithLabelValues("get", "sqlite").Inc()
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	metrics.KVOps.WithLabelValues("set", "sqlite").Inc()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	metrics.KVOps.WithLabelValues("remove", "sqlite").Inc()
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key=?`, key)
	return err
}

func (s *SQLite) Clear(ctx context.Context) error {
	metrics.KVOps.WithLabelValues("clear", "sqlite").Inc()
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store`)
	return err
}

func (s *SQLite) Close() error { return s.db.Close() }
