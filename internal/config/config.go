// Package config загружает конфигурацию консоли из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"serotonyl.ru/telebot-pro/internal/common"
)

// Драйверы хранилища состояния.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- HTTP ---
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSAllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// --- Storage ---
	// Куда сохраняется агрегат: memory | file | sqlite | postgres
	StorageDriver  string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	StorageKey     string `envconfig:"STORAGE_KEY" default:"telebotProState"`
	StorageFileDir string `envconfig:"STORAGE_FILE_DIR" default:"data"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"data/telebot.db"`

	// --- Database (только для STORAGE_DRIVER=postgres) ---
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"telebot_pro"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"5"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`

	// --- AI ---
	// Пустой ключ отключает AI-функции, консоль продолжает работать.
	AIAPIKey      string        `envconfig:"API_KEY"`
	AIBaseURL     string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AIModel       string        `envconfig:"AI_MODEL" default:"gemini-2.5-flash"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
	AIPromptsPath string        `envconfig:"AI_PROMPTS_PATH"`

	// --- Rate Limiting (AI-эндпоинты) ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Jobs ---
	// Cron-выражение для резервной копии состояния. Пусто = отключено.
	BackupSchedule string `envconfig:"BACKUP_SCHEDULE" default:"0 3 * * *"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// IsDevelopment сообщает, запущена ли консоль в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// AIEnabled сообщает, задан ли ключ для AI-помощника.
func (c *Config) AIEnabled() bool {
	return strings.TrimSpace(c.AIAPIKey) != ""
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverFile, DriverSQLite:
	case DriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD обязателен при STORAGE_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownStorageDriver, c.StorageDriver)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("STORAGE_KEY не задан")
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR не задан")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT должен быть > 0")
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q: %w", c.AppTimezone, err)
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	// Пустая переменная (STORAGE_DRIVER=) envconfig считает заданной и default не подставляет.
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = DriverSQLite
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BackupKey — ключ, под которым планировщик хранит резервную копию.
func (c *Config) BackupKey() string {
	return c.StorageKey + ".backup"
}
