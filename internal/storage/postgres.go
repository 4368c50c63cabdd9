package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVStoreMigration создаёт таблицу kv_store в PostgreSQL.
// Применяется через db/postgres.RunMigrations.
const KVStoreMigration = `
CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL,
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
`

// PostgresSlot хранит блобы в таблице kv_store. Пул принадлежит вызывающему.
type PostgresSlot struct {
	db *pgxpool.Pool
}

// NewPostgres создаёт слот поверх готового пула.
func NewPostgres(db *pgxpool.Pool) *PostgresSlot {
	return &PostgresSlot{db: db}
}

func (p *PostgresSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.db.QueryRow(ctx, `SELECT value::text FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresSlot) Set(ctx context.Context, key string, blob []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := p.db.Exec(ctx, query, key, string(blob)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close ничего не делает: пулом владеет App.
func (p *PostgresSlot) Close() error { return nil }
