// Package assistant — prompts.go загружает шаблоны запросов к AI из YAML.
// Если файла нет, используются встроенные шаблоны.
package assistant

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// inputPlaceholder заменяется текстом пользователя.
const inputPlaceholder = "{{input}}"

// Prompts — шаблоны запросов.
type Prompts struct {
	CommandResponse  string `yaml:"command_response"`
	EnhanceBroadcast string `yaml:"enhance_broadcast"`
}

// DefaultPrompts возвращает встроенные шаблоны.
func DefaultPrompts() Prompts {
	return Prompts{
		CommandResponse: `Generate a fun and engaging response for a Telegram bot command. ` +
			`The user wants the command to do this: "{{input}}". ` +
			`Keep the response concise and suitable for a chat message.`,
		EnhanceBroadcast: `Enhance the following broadcast message for a Telegram group to make it ` +
			`more engaging, friendly, and clear. Add suitable emojis. Original message: "{{input}}"`,
	}
}

// LoadPrompts читает YAML по пути path. Пустой путь или отсутствующий файл → встроенные шаблоны.
// Незаполненные в файле шаблоны тоже берутся из встроенных.
func LoadPrompts(path string) (Prompts, error) {
	defaults := DefaultPrompts()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Warn("Файл шаблонов AI не найден, используем встроенные")
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("чтение %s: %w", path, err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return defaults, fmt.Errorf("разбор %s: %w", path, err)
	}

	if strings.TrimSpace(p.CommandResponse) == "" {
		p.CommandResponse = defaults.CommandResponse
	}
	if strings.TrimSpace(p.EnhanceBroadcast) == "" {
		p.EnhanceBroadcast = defaults.EnhanceBroadcast
	}

	log.WithField("path", path).Info("Шаблоны AI загружены")
	return p, nil
}

// render подставляет текст пользователя в шаблон.
func render(template, input string) string {
	if !strings.Contains(template, inputPlaceholder) {
		return template + "\n\n" + input
	}
	return strings.ReplaceAll(template, inputPlaceholder, input)
}
