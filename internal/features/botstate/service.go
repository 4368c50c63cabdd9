// Package botstate — service.go содержит Store: держатель текущего агрегата.
// Каждая мутация: валидация → чистый переход → сохранение → замена текущего состояния.
// Сохранение best-effort: ошибка записи логируется, но состояние в памяти всё равно меняется.
package botstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/common"
)

// Option настраивает Store.
type Option func(*Store)

// WithClock подменяет часы (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator подменяет генератор ID сущностей.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithUniqueIDGenerator подменяет генератор uniqueId журнала модерации.
func WithUniqueIDGenerator(newUniqueID func() string) Option {
	return func(s *Store) { s.newUniqueID = newUniqueID }
}

// Store управляет агрегатом BotState.
type Store struct {
	mu          sync.Mutex
	state       BotState
	persister   Persister
	now         func() time.Time
	newID       func() string
	newUniqueID func() string
}

// NewStore создаёт Store и сразу загружает сохранённое состояние.
// Любая ошибка загрузки логируется, и Store стартует с нулевого агрегата.
func NewStore(ctx context.Context, persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUniqueID == nil {
		s.newUniqueID = func() string { return NewUniqueID(s.now()) }
	}

	s.state = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) BotState {
	state, ok, err := s.persister.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить состояние, начинаем с пустого")
		return NewBotState()
	}
	if !ok {
		log.Info("Сохранённого состояния нет, начинаем с пустого")
		return NewBotState()
	}

	log.WithFields(log.Fields{
		"admins":        len(state.Admins),
		"moderators":    len(state.Moderators),
		"managed_users": len(state.ManagedUsers),
		"commands":      len(state.Commands),
	}).Info("Состояние загружено")
	return normalize(state)
}

// Snapshot возвращает копию текущего агрегата.
func (s *Store) Snapshot() BotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// apply вычисляет новое состояние под мьютексом, сохраняет его и заменяет текущее.
func (s *Store) apply(ctx context.Context, op string, transition func(BotState) (BotState, error)) (BotState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := transition(s.state)
	if err != nil {
		return s.state.Clone(), err
	}
	next = normalize(next)

	if err := s.persister.Save(ctx, next); err != nil {
		log.WithError(err).WithField("op", op).Error("Не удалось сохранить состояние")
	}

	s.state = next
	return next.Clone(), nil
}

func (s *Store) applyPure(ctx context.Context, op string, transition func(BotState) BotState) BotState {
	next, _ := s.apply(ctx, op, func(st BotState) (BotState, error) {
		return transition(st), nil
	})
	return next
}

// --- Настройки и запуск ---

func (s *Store) SetToken(ctx context.Context, token string) BotState {
	return s.applyPure(ctx, "set_token", func(st BotState) BotState { return SetToken(st, token) })
}

func (s *Store) SetSeniorAdminID(ctx context.Context, id string) BotState {
	return s.applyPure(ctx, "set_senior_admin", func(st BotState) BotState { return SetSeniorAdminID(st, id) })
}

// SaveSettings сохраняет токен и старшего админа одним переходом.
func (s *Store) SaveSettings(ctx context.Context, token, seniorAdminID string) BotState {
	return s.applyPure(ctx, "save_settings", func(st BotState) BotState {
		return SetSeniorAdminID(SetToken(st, token), seniorAdminID)
	})
}

// StartBot включает бота. Без токена запуск запрещён.
func (s *Store) StartBot(ctx context.Context) (BotState, error) {
	return s.apply(ctx, "start_bot", func(st BotState) (BotState, error) {
		if st.Token == "" {
			return st, common.ErrTokenRequired
		}
		return StartBot(st), nil
	})
}

func (s *Store) StopBot(ctx context.Context) BotState {
	return s.applyPure(ctx, "stop_bot", StopBot)
}

// --- Роли ---

func (s *Store) AddAdmin(ctx context.Context, user User) (BotState, error) {
	return s.apply(ctx, "add_admin", func(st BotState) (BotState, error) {
		return AddAdmin(st, user, s.newUniqueID)
	})
}

func (s *Store) RemoveAdmin(ctx context.Context, userID string) BotState {
	return s.applyPure(ctx, "remove_admin", func(st BotState) BotState { return RemoveAdmin(st, userID) })
}

func (s *Store) AddModerator(ctx context.Context, user User) (BotState, error) {
	return s.apply(ctx, "add_moderator", func(st BotState) (BotState, error) {
		return AddModerator(st, user, s.newUniqueID)
	})
}

func (s *Store) RemoveModerator(ctx context.Context, userID string) BotState {
	return s.applyPure(ctx, "remove_moderator", func(st BotState) BotState { return RemoveModerator(st, userID) })
}

// --- Команды, файлы, каналы ---

func (s *Store) AddCommand(ctx context.Context, cmd CustomCommand) (BotState, error) {
	return s.apply(ctx, "add_command", func(st BotState) (BotState, error) {
		return AddCommand(st, cmd, s.newID())
	})
}

func (s *Store) RemoveCommand(ctx context.Context, id string) BotState {
	return s.applyPure(ctx, "remove_command", func(st BotState) BotState { return RemoveCommand(st, id) })
}

func (s *Store) AddProgrammableCommand(ctx context.Context, cmd ProgrammableCommand) (BotState, error) {
	return s.apply(ctx, "add_programmable_command", func(st BotState) (BotState, error) {
		return AddProgrammableCommand(st, cmd, s.newID())
	})
}

func (s *Store) RemoveProgrammableCommand(ctx context.Context, id string) BotState {
	return s.applyPure(ctx, "remove_programmable_command", func(st BotState) BotState {
		return RemoveProgrammableCommand(st, id)
	})
}

func (s *Store) AddFile(ctx context.Context, file SharedFile) (BotState, error) {
	return s.apply(ctx, "add_file", func(st BotState) (BotState, error) {
		return AddFile(st, file, s.newID())
	})
}

func (s *Store) RemoveFile(ctx context.Context, id string) BotState {
	return s.applyPure(ctx, "remove_file", func(st BotState) BotState { return RemoveFile(st, id) })
}

func (s *Store) AddChannel(ctx context.Context, channel ManagedChannel) (BotState, error) {
	return s.apply(ctx, "add_channel", func(st BotState) (BotState, error) {
		return AddChannel(st, channel)
	})
}

func (s *Store) RemoveChannel(ctx context.Context, id string) BotState {
	return s.applyPure(ctx, "remove_channel", func(st BotState) BotState { return RemoveChannel(st, id) })
}

// --- Модерация ---

func (s *Store) AddBannedWord(ctx context.Context, word string) (BotState, error) {
	return s.apply(ctx, "add_banned_word", func(st BotState) (BotState, error) {
		return AddBannedWord(st, word)
	})
}

func (s *Store) RemoveBannedWord(ctx context.Context, word string) BotState {
	return s.applyPure(ctx, "remove_banned_word", func(st BotState) BotState { return RemoveBannedWord(st, word) })
}

// AddWarning добавляет предупреждение и сообщает, был ли автобан.
func (s *Store) AddWarning(ctx context.Context, userID string) WarningResult {
	var autoBanned bool
	next := s.applyPure(ctx, "add_warning", func(st BotState) BotState {
		var next BotState
		next, autoBanned = AddWarning(st, userID)
		return next
	})

	result := WarningResult{State: next, AutoBanned: autoBanned}
	if autoBanned {
		result.Notice = fmt.Sprintf(
			"User %s has been automatically banned after reaching %d warnings.",
			userID, WarningBanThreshold,
		)
		log.WithFields(log.Fields{
			"user_id":  userID,
			"warnings": common.FormatWarnings(WarningBanThreshold),
		}).Warn("Автобан по предупреждениям")
	}
	return result
}

func (s *Store) PardonUser(ctx context.Context, userID string) BotState {
	return s.applyPure(ctx, "pardon_user", func(st BotState) BotState { return PardonUser(st, userID) })
}

func (s *Store) ToggleScammerStatus(ctx context.Context, userID string) BotState {
	return s.applyPure(ctx, "toggle_scammer", func(st BotState) BotState { return ToggleScammerStatus(st, userID) })
}

func (s *Store) ManualBan(ctx context.Context, userID string) BotState {
	return s.applyPure(ctx, "manual_ban", func(st BotState) BotState { return ManualBan(st, userID) })
}

// --- Личные отправки ---

func (s *Store) SendDirectFile(ctx context.Context, share DirectShare) (BotState, error) {
	return s.apply(ctx, "send_direct_file", func(st BotState) (BotState, error) {
		return SendDirectFile(st, share, s.newID(), s.now())
	})
}

// --- Бэкап ---

// BackupWriter пишет агрегат под отдельным ключом.
type BackupWriter interface {
	SaveAs(ctx context.Context, key string, state BotState) error
}

// Backup сохраняет текущий снапшот под ключом key.
func (s *Store) Backup(ctx context.Context, w BackupWriter, key string) error {
	snapshot := s.Snapshot()
	if err := w.SaveAs(ctx, key, snapshot); err != nil {
		return fmt.Errorf("бэкап состояния: %w", err)
	}
	log.WithFields(log.Fields{
		"key":           key,
		"managed_users": common.FormatUsers(len(snapshot.ManagedUsers)),
	}).Info("Резервная копия состояния сохранена")
	return nil
}
