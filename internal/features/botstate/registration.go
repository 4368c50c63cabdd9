// Package botstate — registration.go регистрирует пользователей в журнале модерации.
// Выдача роли (админ, модератор) всегда сначала регистрирует пользователя.
package botstate

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const uniqueIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewUniqueID генерирует ID вида TBP-<unix ms>-<5 символов base36>.
func NewUniqueID(now time.Time) string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = uniqueIDAlphabet[rand.IntN(len(uniqueIDAlphabet))]
	}
	return fmt.Sprintf("TBP-%d-%s", now.UnixMilli(), suffix)
}

// GetOrCreateManagedUser возвращает запись журнала для user.ID.
// Существующая запись возвращается без изменений, даже если username другой.
// Иначе создаётся новая запись с уникальным uniqueId; newUniqueID вызывается,
// пока не вернёт значение, которого ещё нет в журнале.
func GetOrCreateManagedUser(s BotState, user User, newUniqueID func() string) (ManagedUser, BotState) {
	if i := findManagedUser(s, user.ID); i >= 0 {
		return s.ManagedUsers[i], s
	}

	uniqueID := newUniqueID()
	for uniqueIDTaken(s, uniqueID) {
		uniqueID = newUniqueID()
	}

	mu := ManagedUser{
		ID:       user.ID,
		Username: user.Username,
		UniqueID: uniqueID,
	}

	next := s.Clone()
	next.ManagedUsers = append(next.ManagedUsers, mu)
	return mu, next
}

func findManagedUser(s BotState, userID string) int {
	for i, u := range s.ManagedUsers {
		if u.ID == userID {
			return i
		}
	}
	return -1
}

func uniqueIDTaken(s BotState, uniqueID string) bool {
	for _, u := range s.ManagedUsers {
		if u.UniqueID == uniqueID {
			return true
		}
	}
	return false
}
