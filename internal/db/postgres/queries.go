// Package postgres — queries.go применяет отдельные миграции.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migrationLockID — ключ advisory-блокировки, чтобы две консоли не мигрировали одновременно.
const migrationLockID = 727_001

// applyMigration применяет миграцию в одной транзакции, если её версии ещё нет
// в schema_migrations. Возвращает true, если миграция была выполнена сейчас.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, m Migration) (bool, error) {
	applied := false

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
			return fmt.Errorf("блокировка миграций: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version,
		).Scan(&exists); err != nil {
			return fmt.Errorf("ошибка проверки миграции: %w", err)
		}
		if exists {
			return nil
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("ошибка выполнения миграции: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)", m.Version,
		); err != nil {
			return fmt.Errorf("ошибка записи версии миграции: %w", err)
		}

		applied = true
		return nil
	})
	return applied, err
}
