// Package main — точка входа консоли управления ботом.
// Загружает конфигурацию, инициализирует приложение и запускает HTTP-сервер.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/app"
	"serotonyl.ru/telebot-pro/internal/config"
)

func main() {
	// Настраиваем логирование
	setupLogging()

	log.Info("=== Консоль запускается ===")

	// .env удобен локально, в docker переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		log.Debug("Файл .env не найден, используем переменные окружения")
	}

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	// Устанавливаем уровень логирования из конфига
	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err == nil {
		log.SetLevel(level)
	}
	if !cfg.IsDevelopment() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Контекст с отменой для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем приложение (хранилище, сервисы, обработчики)
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.Close()

	// Запускаем планировщик задач (cron)
	if err := application.Scheduler.Start(ctx); err != nil {
		// Fatal не выполняет defer, хранилище закрываем явно
		application.Close()
		log.WithError(err).Fatal("Не удалось запустить планировщик")
	}
	defer application.Scheduler.Stop()

	// Обрабатываем сигналы остановки (Ctrl+C, docker stop)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем HTTP-сервер в отдельной горутине
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Server.ListenAndServe()
	}()

	log.Info("=== Консоль готова к работе ===")

	// Ждём сигнала остановки или падения сервера
	select {
	case sig := <-quit:
		log.Infof("Получен сигнал %s, останавливаемся...", sig)
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("HTTP-сервер упал")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Сервер остановлен принудительно")
	}

	// Отменяем контекст — все горутины начнут завершаться
	cancel()

	log.Info("=== Консоль остановлена ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
