// Package storage реализует долговременный слот «ключ → JSON-блоб»,
// в который консоль сохраняет агрегат состояния после каждого изменения.
//
// Драйверы: memory (тесты), file (каталог с файлами), sqlite (по умолчанию)
// и postgres (pgxpool).
package storage

import "context"

// Slot — ключ-значение хранилище блобов.
// Get возвращает (nil, false, nil), если ключа нет.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, blob []byte) error
	Close() error
}
