// Package common — pluralize.go содержит готовые строки с числительными,
// которые консоль показывает в уведомлениях.
package common

import "fmt"

// FormatWarnings создаёт строку вида "3 предупреждения".
//
// Примеры:
//
//	FormatWarnings(1) → "1 предупреждение"
//	FormatWarnings(11) → "11 предупреждений"
func FormatWarnings(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeWarnings(n))
}

// FormatUsers создаёт строку вида "2 пользователя".
func FormatUsers(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeUsers(n))
}

// FormatChannels создаёт строку вида "5 каналов".
func FormatChannels(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeChannels(n))
}
