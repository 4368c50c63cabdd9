// Package botstate — views.go строит производные представления агрегата:
// списки пользователей по статусу, сводку для дашборда и каталог системных команд.
// Ничего из этого не хранится — всё считается по запросу.
package botstate

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"serotonyl.ru/telebot-pro/internal/common"
)

// Фильтры списка пользователей.
const (
	FilterAll      = "all"
	FilterWarned   = "warned"
	FilterBanned   = "banned"
	FilterActive   = "active"
	FilterScammers = "scammers"
)

// WarnedUsers — есть предупреждения, но ещё не забанен.
func WarnedUsers(s BotState) []ManagedUser {
	return filterUsers(s, func(u ManagedUser) bool { return u.Warnings > 0 && !u.IsBanned })
}

func BannedUsers(s BotState) []ManagedUser {
	return filterUsers(s, func(u ManagedUser) bool { return u.IsBanned })
}

func ActiveUsers(s BotState) []ManagedUser {
	return filterUsers(s, func(u ManagedUser) bool { return !u.IsBanned })
}

func Scammers(s BotState) []ManagedUser {
	return filterUsers(s, func(u ManagedUser) bool { return u.IsScammer })
}

// UsersByFilter выбирает представление по имени фильтра. Пустой фильтр = all.
func UsersByFilter(s BotState, filter string) ([]ManagedUser, error) {
	switch filter {
	case "", FilterAll:
		return append([]ManagedUser{}, s.ManagedUsers...), nil
	case FilterWarned:
		return WarnedUsers(s), nil
	case FilterBanned:
		return BannedUsers(s), nil
	case FilterActive:
		return ActiveUsers(s), nil
	case FilterScammers:
		return Scammers(s), nil
	}
	return nil, common.ErrUnknownUserFilter
}

func filterUsers(s BotState, keep func(ManagedUser) bool) []ManagedUser {
	out := []ManagedUser{}
	for _, u := range s.ManagedUsers {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// DashboardStats — счётчики главной страницы консоли.
type DashboardStats struct {
	IsRunning            bool   `json:"isRunning"`
	Status               string `json:"status"`
	Admins               int    `json:"admins"`
	Moderators           int    `json:"moderators"`
	Channels             int    `json:"channels"`
	Commands             int    `json:"commands"`
	ProgrammableCommands int    `json:"programmableCommands"`
	Files                int    `json:"files"`
	WarnedUsers          int    `json:"warnedUsers"`
	BannedUsers          int    `json:"bannedUsers"`
	BannedWords          int    `json:"bannedWords"`
	SeniorAdminID        string `json:"seniorAdminId"`
	TokenPreview         string `json:"tokenPreview"`
	TokenFingerprint     string `json:"tokenFingerprint"`
}

const tokenPreviewLen = 12

// Dashboard собирает сводку по агрегату.
func Dashboard(s BotState) DashboardStats {
	status := "Stopped"
	if s.IsRunning {
		status = "Running"
	}
	return DashboardStats{
		IsRunning:            s.IsRunning,
		Status:               status,
		Admins:               len(s.Admins),
		Moderators:           len(s.Moderators),
		Channels:             len(s.Channels),
		Commands:             len(s.Commands),
		ProgrammableCommands: len(s.ProgrammableCommands),
		Files:                len(s.Files),
		WarnedUsers:          len(WarnedUsers(s)),
		BannedUsers:          len(BannedUsers(s)),
		BannedWords:          len(s.BannedWords),
		SeniorAdminID:        s.SeniorAdminID,
		TokenPreview:         TokenPreview(s.Token),
		TokenFingerprint:     TokenFingerprint(s.Token),
	}
}

// TokenPreview показывает первые 12 символов токена.
func TokenPreview(token string) string {
	if token == "" {
		return ""
	}
	runes := []rune(token)
	if len(runes) <= tokenPreviewLen {
		return token + "..."
	}
	return string(runes[:tokenPreviewLen]) + "..."
}

// TokenFingerprint — первые 8 байт BLAKE2b-256 от токена в hex.
// Позволяет сравнить два токена, не показывая их.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// SystemCommand — встроенная команда бота (не редактируется).
type SystemCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// SystemCommands — каталог встроенных команд.
func SystemCommands() []SystemCommand {
	return []SystemCommand{
		{Command: "/download <url>", Description: "Downloads video or images from most platforms."},
		{Command: "/status", Description: "Check your own status (Unique ID, warnings, role, etc.)."},
		{Command: "/list banned", Description: "View the list of all banned users."},
		{Command: "/list warned", Description: "View the list of users with active warnings."},
		{Command: "/list scammers", Description: "View the public list of marked scammers."},
	}
}
