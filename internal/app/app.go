// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: выбирает хранилище, создаёт Store, сервисы, обработчики,
// HTTP-сервер консоли и планировщик.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/common"
	"serotonyl.ru/telebot-pro/internal/config"
	"serotonyl.ru/telebot-pro/internal/console"
	"serotonyl.ru/telebot-pro/internal/console/middleware"
	"serotonyl.ru/telebot-pro/internal/db/postgres"
	"serotonyl.ru/telebot-pro/internal/features/admin"
	"serotonyl.ru/telebot-pro/internal/features/assistant"
	"serotonyl.ru/telebot-pro/internal/features/botstate"
	"serotonyl.ru/telebot-pro/internal/jobs"
	"serotonyl.ru/telebot-pro/internal/storage"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *console.Server
	Scheduler *jobs.Scheduler
	Store     *botstate.Store
	DB        *pgxpool.Pool

	slot    storage.Slot
	limiter *middleware.RateLimiter
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	slot, pool, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Состояние бота ===
	repo := botstate.NewRepository(slot, cfg.StorageKey)
	store := botstate.NewStore(ctx, repo)

	// === 3. AI-помощник ===
	prompts, err := assistant.LoadPrompts(cfg.AIPromptsPath)
	if err != nil {
		closeStorage(slot, pool)
		return nil, fmt.Errorf("шаблоны AI: %w", err)
	}
	var completer assistant.Completer
	if cfg.AIEnabled() {
		completer = assistant.NewOpenAIClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.WithField("model", cfg.AIModel).Info("AI-помощник включён")
	} else {
		log.Warn("API_KEY не задан, AI-функции отключены")
	}
	ai := assistant.NewService(completer, prompts, cfg.AITimeout)

	// === 4. Админ-действия ===
	adminService := admin.NewService(store, ai)

	// === 5. HTTP-консоль ===
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	router := console.NewRouter(cfg.CORSAllowedOrigins, limiter, console.Routes{
		API: []console.Registrar{
			botstate.NewHandler(store),
			admin.NewHandler(adminService, store),
		},
		AI: assistant.NewHandler(ai),
	})
	server := console.NewServer(cfg, router)

	// === 6. Планировщик задач ===
	scheduler := jobs.NewScheduler(store, repo, cfg.BackupKey(), cfg.BackupSchedule, common.LoadLocation(cfg.AppTimezone))

	return &App{
		Server:    server,
		Scheduler: scheduler,
		Store:     store,
		DB:        pool,
		slot:      slot,
		limiter:   limiter,
	}, nil
}

// Close освобождает хранилище и фоновые горутины.
func (a *App) Close() {
	a.limiter.Close()
	closeStorage(a.slot, a.DB)
}

// openStorage открывает слот по STORAGE_DRIVER. Для postgres возвращает и пул.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Slot, *pgxpool.Pool, error) {
	entry := log.WithField("driver", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case config.DriverMemory:
		entry.Warn("Состояние хранится только в памяти и пропадёт при перезапуске")
		return storage.NewMemory(), nil, nil

	case config.DriverFile:
		slot, err := storage.NewFile(cfg.StorageFileDir)
		if err != nil {
			return nil, nil, fmt.Errorf("файловое хранилище: %w", err)
		}
		entry.WithField("dir", cfg.StorageFileDir).Info("Хранилище готово")
		return slot, nil, nil

	case config.DriverSQLite:
		slot, err := storage.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
		}
		return slot, nil, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool, migrations); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return storage.NewPostgres(pool), pool, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownStorageDriver, cfg.StorageDriver)
}

// migrations — схема PostgreSQL по версиям.
var migrations = []postgres.Migration{
	{Version: 1, SQL: storage.KVStoreMigration},
}

func closeStorage(slot storage.Slot, pool *pgxpool.Pool) {
	if slot != nil {
		if err := slot.Close(); err != nil {
			log.WithError(err).Error("Ошибка закрытия хранилища")
		}
	}
	if pool != nil {
		pool.Close()
	}
}
