// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание резервного копирования состояния бота.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/common"
	"serotonyl.ru/telebot-pro/internal/features/botstate"
)

// Backuper сохраняет снапшот состояния под отдельным ключом.
type Backuper interface {
	Backup(ctx context.Context, w botstate.BackupWriter, key string) error
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	store    Backuper
	writer   botstate.BackupWriter
	key      string
	schedule string
	loc      *time.Location
}

// NewScheduler создаёт планировщик. Пустой schedule отключает бэкап.
func NewScheduler(store Backuper, writer botstate.BackupWriter, key, schedule string, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.PrintfLogger(log.StandardLogger()))),
	)

	return &Scheduler{
		cron:     c,
		store:    store,
		writer:   writer,
		key:      key,
		schedule: schedule,
		loc:      loc,
	}
}

// Start регистрирует задачи и запускает cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		log.Info("Резервное копирование по расписанию отключено")
		return nil
	}

	sched, err := cron.ParseStandard(s.schedule)
	if err != nil {
		return fmt.Errorf("расписание %q: %w", s.schedule, err)
	}

	s.cron.Schedule(sched, cron.FuncJob(func() {
		log.Info("[CRON] Резервная копия состояния")
		if err := s.RunBackup(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка резервного копирования")
		}
	}))

	s.cron.Start()
	log.WithFields(log.Fields{
		"schedule": s.schedule,
		"next_run": common.FormatDateTime(sched.Next(time.Now().In(s.loc)), s.loc),
		"key":      s.key,
	}).Info("Планировщик задач запущен")
	return nil
}

// RunBackup сразу делает резервную копию.
func (s *Scheduler) RunBackup(ctx context.Context) error {
	return s.store.Backup(ctx, s.writer, s.key)
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
