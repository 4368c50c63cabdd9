// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях консоли.
// Эти ошибки позволяют обработчикам отличать ошибки валидации
// от инфраструктурных и отдавать пользователю понятные сообщения.
package common

import "errors"

// Ошибки настроек бота
var (
	// ErrTokenRequired — запуск бота без токена
	ErrTokenRequired = errors.New("сначала укажите токен бота в настройках")
)

// Ошибки ролей
var (
	// ErrUserFieldsRequired — не заполнены ID или имя пользователя
	ErrUserFieldsRequired = errors.New("укажите ID и имя пользователя")
)

// Ошибки команд
var (
	// ErrCommandFieldsRequired — не заполнены команда или ответ
	ErrCommandFieldsRequired = errors.New("укажите команду и ответ")
	// ErrProgrammableFieldsRequired — не заполнены команда или код
	ErrProgrammableFieldsRequired = errors.New("укажите команду и код")
	// ErrPromptRequired — пустой запрос к AI
	ErrPromptRequired = errors.New("введите запрос для AI")
)

// Ошибки файлов и каналов
var (
	// ErrFileFieldsRequired — не заполнены имя, ключ или описание файла
	ErrFileFieldsRequired = errors.New("укажите имя, ключ и описание файла")
	// ErrChannelIDRequired — пустой ID канала
	ErrChannelIDRequired = errors.New("укажите ID или username канала")
	// ErrShareFieldsRequired — не заполнены получатель или имя файла
	ErrShareFieldsRequired = errors.New("укажите ID получателя и имя файла")
)

// Ошибки модерации
var (
	// ErrBannedWordRequired — пустое запрещённое слово
	ErrBannedWordRequired = errors.New("введите запрещённое слово")
	// ErrUnknownUserFilter — неизвестный фильтр списка пользователей
	ErrUnknownUserFilter = errors.New("неизвестный фильтр пользователей")
)

// Ошибки админ-действий
var (
	// ErrUserIDRequired — действие над пользователем без ID
	ErrUserIDRequired = errors.New("укажите ID пользователя")
	// ErrBroadcastMessageRequired — пустая рассылка
	ErrBroadcastMessageRequired = errors.New("введите сообщение для рассылки")
	// ErrUnknownAction — неизвестное админ-действие
	ErrUnknownAction = errors.New("неизвестное действие")
)

// Ошибки хранилища
var (
	// ErrUnknownStorageDriver — неподдерживаемый драйвер хранилища
	ErrUnknownStorageDriver = errors.New("неизвестный драйвер хранилища")
)

// IsValidation сообщает, является ли ошибка ошибкой валидации ввода.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationErrors = []error{
	ErrTokenRequired,
	ErrUserFieldsRequired,
	ErrCommandFieldsRequired,
	ErrProgrammableFieldsRequired,
	ErrPromptRequired,
	ErrFileFieldsRequired,
	ErrChannelIDRequired,
	ErrShareFieldsRequired,
	ErrBannedWordRequired,
	ErrUnknownUserFilter,
	ErrUserIDRequired,
	ErrBroadcastMessageRequired,
	ErrUnknownAction,
}
