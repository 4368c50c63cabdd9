package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	sqliteMaxRetries = 5
	sqliteRetryDelay = 50 * time.Millisecond
)

// SQLiteSlot хранит блобы в таблице kv_store файла SQLite.
type SQLiteSlot struct {
	db *sql.DB
}

// NewSQLite открывает (или создаёт) базу по пути dbPath и готовит схему.
func NewSQLite(dbPath string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL: чтение снапшота не блокирует запись бэкапа.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteSlot{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.WithField("path", dbPath).Info("Хранилище SQLite готово")
	return s, nil
}

func (s *SQLiteSlot) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLiteSlot) Set(ctx context.Context, key string, blob []byte) error {
	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`

	var err error
	for attempt := 0; attempt < sqliteMaxRetries; attempt++ {
		_, err = s.db.ExecContext(ctx, query, key, string(blob), time.Now().Unix())
		if err == nil {
			return nil
		}
		if !isSQLiteConflictError(err) {
			break
		}
		log.WithFields(log.Fields{
			"key":     key,
			"attempt": attempt + 1,
		}).Debug("SQLite занят, повторяем запись")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sqliteRetryDelay * time.Duration(attempt+1)):
		}
	}
	return fmt.Errorf("upsert %s: %w", key, err)
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

// isSQLiteConflictError распознаёт SQLITE_BUSY и "database is locked" —
// обе ошибки временные и лечатся повтором.
func isSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
