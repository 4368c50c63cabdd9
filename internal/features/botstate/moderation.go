// Package botstate — moderation.go: предупреждения, баны, метки мошенников
// и список запрещённых слов.
//
// Операции над неизвестным userId молча ничего не делают.
package botstate

import (
	"strings"

	"serotonyl.ru/telebot-pro/internal/common"
)

// AddBannedWord добавляет слово в нижнем регистре.
func AddBannedWord(s BotState, word string) (BotState, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return s, common.ErrBannedWordRequired
	}
	next := s.Clone()
	next.BannedWords = append(next.BannedWords, strings.ToLower(word))
	return next, nil
}

// RemoveBannedWord удаляет точные совпадения. "SPAM" не удалит "spam".
func RemoveBannedWord(s BotState, word string) BotState {
	next := s.Clone()
	out := make([]string, 0, len(next.BannedWords))
	for _, w := range next.BannedWords {
		if w != word {
			out = append(out, w)
		}
	}
	next.BannedWords = out
	return next
}

// AddWarning добавляет предупреждение. На третьем пользователь банится
// в том же переходе; второй результат сообщает, случился ли автобан.
func AddWarning(s BotState, userID string) (BotState, bool) {
	autoBanned := false
	next := updateManagedUser(s, userID, func(u *ManagedUser) {
		u.Warnings++
		if u.Warnings >= WarningBanThreshold {
			u.IsBanned = true
			autoBanned = true
		}
	})
	return next, autoBanned
}

// PardonUser снимает все предупреждения и бан.
func PardonUser(s BotState, userID string) BotState {
	return updateManagedUser(s, userID, func(u *ManagedUser) {
		u.Warnings = 0
		u.IsBanned = false
	})
}

func ToggleScammerStatus(s BotState, userID string) BotState {
	return updateManagedUser(s, userID, func(u *ManagedUser) {
		u.IsScammer = !u.IsScammer
	})
}

// ManualBan банит без изменения счётчика предупреждений.
func ManualBan(s BotState, userID string) BotState {
	return updateManagedUser(s, userID, func(u *ManagedUser) {
		u.IsBanned = true
	})
}

func updateManagedUser(s BotState, userID string, fn func(u *ManagedUser)) BotState {
	next := s.Clone()
	for i := range next.ManagedUsers {
		if next.ManagedUsers[i].ID == userID {
			fn(&next.ManagedUsers[i])
		}
	}
	return next
}

// MatchBannedWords возвращает запрещённые слова, которые встречаются в тексте.
// Отправитель такого сообщения получил бы автоматическое предупреждение.
func MatchBannedWords(s BotState, text string) []string {
	lowered := strings.ToLower(text)
	matched := []string{}
	seen := make(map[string]bool)
	for _, w := range s.BannedWords {
		if w == "" || seen[w] {
			continue
		}
		if strings.Contains(lowered, w) {
			matched = append(matched, w)
			seen[w] = true
		}
	}
	return matched
}
