// Package admin моделирует админ-действия над участниками и каналами.
// models.go описывает действия и отчёт симуляции.
package admin

// Action — админ-действие консоли.
type Action string

// Поддерживаемые действия
const (
	ActionKick      Action = "kick"
	ActionBan       Action = "ban"
	ActionPromote   Action = "promote"
	ActionDemote    Action = "demote"
	ActionBroadcast Action = "broadcast"
)

// memberActions — действия над конкретным участником.
var memberActions = map[Action]bool{
	ActionKick:    true,
	ActionBan:     true,
	ActionPromote: true,
	ActionDemote:  true,
}

// Preview — запрос к Bot API, который был бы отправлен в канал.
type Preview struct {
	ChannelID string `json:"channelId"`
	Method    string `json:"method"`
	Params    any    `json:"params"`
}

// Report — результат симуляции. Ничего не отправляется, состояние не меняется.
type Report struct {
	Action   Action    `json:"action"`
	UserID   string    `json:"userId,omitempty"`
	Message  string    `json:"message,omitempty"`
	Notice   string    `json:"notice"`
	Previews []Preview `json:"previews"`
}
