// Package botstate — transitions.go содержит чистые переходы состояния:
// каждый принимает текущий BotState и возвращает новый, не трогая исходный.
// Сохранением результата занимается Store.
package botstate

import (
	"strings"
	"time"

	"serotonyl.ru/telebot-pro/internal/common"
)

// --- Настройки и запуск ---

func SetToken(s BotState, token string) BotState {
	next := s.Clone()
	next.Token = token
	return next
}

func SetSeniorAdminID(s BotState, id string) BotState {
	next := s.Clone()
	next.SeniorAdminID = id
	return next
}

func StartBot(s BotState) BotState {
	next := s.Clone()
	next.IsRunning = true
	return next
}

func StopBot(s BotState) BotState {
	next := s.Clone()
	next.IsRunning = false
	return next
}

// --- Роли ---

// AddAdmin регистрирует пользователя в журнале и добавляет его в админы.
func AddAdmin(s BotState, user User, newUniqueID func() string) (BotState, error) {
	user, err := validateUser(user)
	if err != nil {
		return s, err
	}
	_, next := GetOrCreateManagedUser(s, user, newUniqueID)
	next = next.Clone()
	next.Admins = append(next.Admins, user)
	return next, nil
}

// RemoveAdmin убирает все записи с этим ID из админов. Журнал не меняется.
func RemoveAdmin(s BotState, userID string) BotState {
	next := s.Clone()
	next.Admins = removeUsers(next.Admins, userID)
	return next
}

// AddModerator — то же, что AddAdmin, но для модераторов.
func AddModerator(s BotState, user User, newUniqueID func() string) (BotState, error) {
	user, err := validateUser(user)
	if err != nil {
		return s, err
	}
	_, next := GetOrCreateManagedUser(s, user, newUniqueID)
	next = next.Clone()
	next.Moderators = append(next.Moderators, user)
	return next, nil
}

func RemoveModerator(s BotState, userID string) BotState {
	next := s.Clone()
	next.Moderators = removeUsers(next.Moderators, userID)
	return next
}

func validateUser(user User) (User, error) {
	user.ID = strings.TrimSpace(user.ID)
	user.Username = strings.TrimSpace(user.Username)
	if user.ID == "" || user.Username == "" {
		return user, common.ErrUserFieldsRequired
	}
	return user, nil
}

func removeUsers(users []User, userID string) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	return out
}

// --- Команды ---

// AddCommand добавляет текстовую команду. "hello" сохраняется как "/hello".
func AddCommand(s BotState, cmd CustomCommand, id string) (BotState, error) {
	cmd.Command = strings.TrimSpace(cmd.Command)
	if cmd.Command == "" || strings.TrimSpace(cmd.Response) == "" {
		return s, common.ErrCommandFieldsRequired
	}
	cmd.ID = id
	cmd.Command = withPrefix(cmd.Command, CommandPrefix)

	next := s.Clone()
	next.Commands = append(next.Commands, cmd)
	return next, nil
}

func RemoveCommand(s BotState, id string) BotState {
	next := s.Clone()
	out := make([]CustomCommand, 0, len(next.Commands))
	for _, c := range next.Commands {
		if c.ID != id {
			out = append(out, c)
		}
	}
	next.Commands = out
	return next
}

// AddProgrammableCommand добавляет скриптовую команду. "foo" сохраняется как "/p_foo".
func AddProgrammableCommand(s BotState, cmd ProgrammableCommand, id string) (BotState, error) {
	cmd.Command = strings.TrimSpace(cmd.Command)
	if cmd.Command == "" || strings.TrimSpace(cmd.Code) == "" {
		return s, common.ErrProgrammableFieldsRequired
	}
	cmd.ID = id
	cmd.Command = withPrefix(cmd.Command, ProgrammableCommandPrefix)

	next := s.Clone()
	next.ProgrammableCommands = append(next.ProgrammableCommands, cmd)
	return next, nil
}

func RemoveProgrammableCommand(s BotState, id string) BotState {
	next := s.Clone()
	out := make([]ProgrammableCommand, 0, len(next.ProgrammableCommands))
	for _, c := range next.ProgrammableCommands {
		if c.ID != id {
			out = append(out, c)
		}
	}
	next.ProgrammableCommands = out
	return next
}

func withPrefix(command, prefix string) string {
	if strings.HasPrefix(command, prefix) {
		return command
	}
	return prefix + command
}

// --- Файлы и каналы ---

func AddFile(s BotState, file SharedFile, id string) (BotState, error) {
	if strings.TrimSpace(file.Name) == "" ||
		strings.TrimSpace(file.Key) == "" ||
		strings.TrimSpace(file.Description) == "" {
		return s, common.ErrFileFieldsRequired
	}
	file.ID = id

	next := s.Clone()
	next.Files = append(next.Files, file)
	return next, nil
}

func RemoveFile(s BotState, id string) BotState {
	next := s.Clone()
	out := make([]SharedFile, 0, len(next.Files))
	for _, f := range next.Files {
		if f.ID != id {
			out = append(out, f)
		}
	}
	next.Files = out
	return next
}

// AddChannel добавляет канал. Дубликаты не проверяются.
func AddChannel(s BotState, channel ManagedChannel) (BotState, error) {
	channel.ID = strings.TrimSpace(channel.ID)
	if channel.ID == "" {
		return s, common.ErrChannelIDRequired
	}
	next := s.Clone()
	next.Channels = append(next.Channels, channel)
	return next, nil
}

func RemoveChannel(s BotState, id string) BotState {
	next := s.Clone()
	out := make([]ManagedChannel, 0, len(next.Channels))
	for _, c := range next.Channels {
		if c.ID != id {
			out = append(out, c)
		}
	}
	next.Channels = out
	return next
}

// --- Личные отправки ---

// SendDirectFile добавляет запись в начало журнала: новые записи идут первыми.
func SendDirectFile(s BotState, share DirectShare, id string, at time.Time) (BotState, error) {
	share.RecipientID = strings.TrimSpace(share.RecipientID)
	share.FileName = strings.TrimSpace(share.FileName)
	if share.RecipientID == "" || share.FileName == "" {
		return s, common.ErrShareFieldsRequired
	}
	share.ID = id
	share.Timestamp = at.UTC()

	next := s.Clone()
	next.DirectShares = append([]DirectShare{share}, next.DirectShares...)
	return next, nil
}
