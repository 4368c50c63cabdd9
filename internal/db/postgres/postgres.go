// Package postgres управляет подключением к базе данных PostgreSQL.
// Используется пул соединений pgxpool: консоль пишет в базу из HTTP-обработчиков
// и из планировщика одновременно.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/config"
)

// applicationName видна в pg_stat_activity.
const applicationName = "telebot-pro-console"

// NewPool создаёт пул соединений к PostgreSQL и проверяет, что база отвечает.
// Консоль держит одну строку состояния, поэтому пул небольшой (DB_MAX_CONNS).
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("база данных недоступна (%s:%d): %w", cfg.DBHost, cfg.DBPort, err)
	}

	log.WithFields(log.Fields{
		"host":      cfg.DBHost,
		"db":        cfg.DBName,
		"max_conns": cfg.DBMaxConns,
	}).Info("Подключение к PostgreSQL установлено")
	return pool, nil
}

// Migration — одна версионированная SQL-миграция.
type Migration struct {
	Version int
	SQL     string
}

// RunMigrations создаёт таблицу schema_migrations и применяет миграции по порядку.
// Уже применённые версии пропускаются.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migrations []Migration) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		ok, err := applyMigration(ctx, pool, m)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.Version, err)
		}
		if ok {
			applied++
			log.Infof("Миграция %d применена", m.Version)
		}
	}

	log.WithFields(log.Fields{
		"applied": applied,
		"total":   len(migrations),
	}).Info("Миграции PostgreSQL проверены")
	return nil
}
