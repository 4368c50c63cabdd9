// Package botstate — repository.go сериализует агрегат в JSON и пишет его
// в долговременный слот под одним ключом.
package botstate

import (
	"context"
	"encoding/json"
	"fmt"

	"serotonyl.ru/telebot-pro/internal/storage"
)

// Persister — порт сохранения агрегата. Store зависит только от него,
// поэтому в тестах его легко подменить.
type Persister interface {
	// Load возвращает (state, false, nil), если сохранённого агрегата нет.
	Load(ctx context.Context) (BotState, bool, error)
	Save(ctx context.Context, state BotState) error
}

// Repository хранит агрегат в storage.Slot под ключом key.
type Repository struct {
	slot storage.Slot
	key  string
}

// NewRepository создаёт репозиторий агрегата.
func NewRepository(slot storage.Slot, key string) *Repository {
	return &Repository{slot: slot, key: key}
}

// Key — ключ, под которым лежит агрегат.
func (r *Repository) Key() string {
	return r.key
}

func (r *Repository) Load(ctx context.Context) (BotState, bool, error) {
	blob, ok, err := r.slot.Get(ctx, r.key)
	if err != nil {
		return NewBotState(), false, fmt.Errorf("чтение состояния: %w", err)
	}
	if !ok {
		return NewBotState(), false, nil
	}

	state, err := Unmarshal(blob)
	if err != nil {
		return NewBotState(), false, err
	}
	return state, true, nil
}

func (r *Repository) Save(ctx context.Context, state BotState) error {
	return r.SaveAs(ctx, r.key, state)
}

// SaveAs пишет агрегат под произвольным ключом (используется для бэкапов).
func (r *Repository) SaveAs(ctx context.Context, key string, state BotState) error {
	blob, err := Marshal(state)
	if err != nil {
		return err
	}
	if err := r.slot.Set(ctx, key, blob); err != nil {
		return fmt.Errorf("запись состояния: %w", err)
	}
	return nil
}

// Marshal сериализует агрегат в JSON-блоб.
func Marshal(state BotState) ([]byte, error) {
	blob, err := json.Marshal(normalize(state))
	if err != nil {
		return nil, fmt.Errorf("сериализация состояния: %w", err)
	}
	return blob, nil
}

// Unmarshal разбирает JSON-блоб. Отсутствующие поля получают нулевые значения.
func Unmarshal(blob []byte) (BotState, error) {
	var state BotState
	if err := json.Unmarshal(blob, &state); err != nil {
		return NewBotState(), fmt.Errorf("разбор состояния: %w", err)
	}
	return normalize(state), nil
}
