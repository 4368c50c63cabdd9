// Package botstate хранит всю конфигурацию бота и журнал модерации
// как один агрегат BotState.
// models.go описывает структуры агрегата. JSON-теги совпадают с форматом,
// который консоль сохраняет в хранилище под ключом telebotProState.
package botstate

import "time"

// WarningBanThreshold — после стольких предупреждений пользователь банится автоматически.
const WarningBanThreshold = 3

// Префиксы команд.
const (
	CommandPrefix             = "/"
	ProgrammableCommandPrefix = "/p_"
)

// User — внешняя учётная запись (ID пользователя мессенджера и отображаемое имя).
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ManagedUser — запись журнала модерации. Создаётся один раз и никогда не удаляется.
type ManagedUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	UniqueID  string `json:"uniqueId"`
	Warnings  int    `json:"warnings"`
	IsScammer bool   `json:"isScammer"`
	IsBanned  bool   `json:"isBanned"`
}

// CustomCommand — текстовая команда с фиксированным ответом.
type CustomCommand struct {
	ID        string `json:"id"`
	Command   string `json:"command"`
	Response  string `json:"response"`
	AdminOnly bool   `json:"adminOnly"`
}

// ProgrammableCommand — команда со скриптом. Код хранится как текст и не исполняется.
type ProgrammableCommand struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Code    string `json:"code"`
}

// SharedFile — файл, который бот выдаёт по ключу.
type SharedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// ManagedChannel — канал или группа, где бот работает (ID или @username).
type ManagedChannel struct {
	ID string `json:"id"`
}

// DirectShare — запись журнала отправки файла в личку. Никогда не меняется.
type DirectShare struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	FileName    string    `json:"fileName"`
	Caption     string    `json:"caption"`
	Timestamp   time.Time `json:"timestamp"`
}

// BotState — корень агрегата. Сохраняется и загружается целиком.
type BotState struct {
	Token                string                `json:"token"`
	IsRunning            bool                  `json:"isRunning"`
	SeniorAdminID        string                `json:"seniorAdminId"`
	Admins               []User                `json:"admins"`
	Moderators           []User                `json:"moderators"`
	Commands             []CustomCommand       `json:"commands"`
	ProgrammableCommands []ProgrammableCommand `json:"programmableCommands"`
	Files                []SharedFile          `json:"files"`
	Channels             []ManagedChannel      `json:"channels"`
	ManagedUsers         []ManagedUser         `json:"managedUsers"`
	BannedWords          []string              `json:"bannedWords"`
	DirectShares         []DirectShare         `json:"directShares"`
}

// NewBotState возвращает нулевой агрегат: бот остановлен, все списки пустые.
func NewBotState() BotState {
	return BotState{
		Admins:               []User{},
		Moderators:           []User{},
		Commands:             []CustomCommand{},
		ProgrammableCommands: []ProgrammableCommand{},
		Files:                []SharedFile{},
		Channels:             []ManagedChannel{},
		ManagedUsers:         []ManagedUser{},
		BannedWords:          []string{},
		DirectShares:         []DirectShare{},
	}
}

// normalize заменяет nil-списки пустыми, чтобы в JSON всегда были [] вместо null.
func normalize(s BotState) BotState {
	if s.Admins == nil {
		s.Admins = []User{}
	}
	if s.Moderators == nil {
		s.Moderators = []User{}
	}
	if s.Commands == nil {
		s.Commands = []CustomCommand{}
	}
	if s.ProgrammableCommands == nil {
		s.ProgrammableCommands = []ProgrammableCommand{}
	}
	if s.Files == nil {
		s.Files = []SharedFile{}
	}
	if s.Channels == nil {
		s.Channels = []ManagedChannel{}
	}
	if s.ManagedUsers == nil {
		s.ManagedUsers = []ManagedUser{}
	}
	if s.BannedWords == nil {
		s.BannedWords = []string{}
	}
	if s.DirectShares == nil {
		s.DirectShares = []DirectShare{}
	}
	return s
}

// Clone возвращает глубокую копию агрегата.
func (s BotState) Clone() BotState {
	out := s
	out.Admins = append([]User{}, s.Admins...)
	out.Moderators = append([]User{}, s.Moderators...)
	out.Commands = append([]CustomCommand{}, s.Commands...)
	out.ProgrammableCommands = append([]ProgrammableCommand{}, s.ProgrammableCommands...)
	out.Files = append([]SharedFile{}, s.Files...)
	out.Channels = append([]ManagedChannel{}, s.Channels...)
	out.ManagedUsers = append([]ManagedUser{}, s.ManagedUsers...)
	out.BannedWords = append([]string{}, s.BannedWords...)
	out.DirectShares = append([]DirectShare{}, s.DirectShares...)
	return out
}

// WarningResult — итог addWarning: новое состояние и признак автобана.
type WarningResult struct {
	State      BotState `json:"state"`
	AutoBanned bool     `json:"autoBanned"`
	Notice     string   `json:"notice,omitempty"`
}
