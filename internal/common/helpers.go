// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, работа с часовым поясом, форматирование дат.
package common

import (
	"math"
	"time"
)

// defaultTimezone — часовой пояс консоли по умолчанию.
const defaultTimezone = "Europe/Moscow"

// LoadLocation загружает часовой пояс по имени.
// Если не удалось (нет tzdata) — для Москвы используем UTC+3 вручную, иначе UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = defaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	if name == defaultTimezone {
		return time.FixedZone("MSK", 3*60*60)
	}
	return time.UTC
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" в заданном часовом поясе.
// Используется планировщиком для поля next_run в логе резервного копирования.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

// PluralizeWarnings возвращает правильную форму слова «предупреждение» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "предупреждение" (1, 21, 31, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "предупреждения" (2, 3, 4, 22, ...)
//   - Остальные случаи → "предупреждений" (0, 5-20, 25-30, ...)
//
// Примеры:
//
//	PluralizeWarnings(1) → "предупреждение"
//	PluralizeWarnings(3) → "предупреждения"
//	PluralizeWarnings(5) → "предупреждений"
func PluralizeWarnings(n int) string {
	return pluralize(n, "предупреждение", "предупреждения", "предупреждений")
}

// PluralizeUsers возвращает правильную форму слова «пользователь».
func PluralizeUsers(n int) string {
	return pluralize(n, "пользователь", "пользователя", "пользователей")
}

// PluralizeChannels возвращает правильную форму слова «канал».
func PluralizeChannels(n int) string {
	return pluralize(n, "канал", "канала", "каналов")
}

func pluralize(n int, one, few, many string) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}

	return many
}
