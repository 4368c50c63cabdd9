// Package admin — service.go строит симуляции админ-действий и рассылок.
// Запросы собираются типами telego, но в Telegram не уходят.
package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/common"
	"serotonyl.ru/telebot-pro/internal/features/botstate"
)

// StateReader отдаёт снимок состояния бота (каналы берутся отсюда).
type StateReader interface {
	Snapshot() botstate.BotState
}

// Enhancer улучшает текст рассылки.
type Enhancer interface {
	EnhanceBroadcastMessage(ctx context.Context, message string) string
}

// Service симулирует админ-действия.
type Service struct {
	state    StateReader
	enhancer Enhancer
}

// NewService создаёт сервис. enhancer может быть nil.
func NewService(state StateReader, enhancer Enhancer) *Service {
	return &Service{state: state, enhancer: enhancer}
}

// Simulate строит отчёт для kick/ban/promote/demote над участником userID.
func (s *Service) Simulate(ctx context.Context, action Action, userID string) (Report, error) {
	userID = strings.TrimSpace(userID)
	if !memberActions[action] {
		return Report{}, fmt.Errorf("%w: %s", common.ErrUnknownAction, action)
	}
	if userID == "" {
		return Report{}, common.ErrUserIDRequired
	}

	report := Report{
		Action:   action,
		UserID:   userID,
		Notice:   fmt.Sprintf("Simulating %s for user ID: %s", action, userID),
		Previews: []Preview{},
	}

	// Без числового ID запросы к Bot API не построить
	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		log.WithFields(log.Fields{"action": action, "user_id": userID}).
			Debug("Нечисловой ID, превью не строятся")
		return report, nil
	}

	channels := s.state.Snapshot().Channels
	for _, ch := range channels {
		report.Previews = append(report.Previews, memberPreviews(action, ch.ID, uid)...)
	}

	log.WithFields(log.Fields{
		"action":  action,
		"user_id": userID,
		"targets": common.FormatChannels(len(channels)),
	}).Info("Симуляция админ-действия")
	return report, nil
}

// Broadcast строит отчёт рассылки message во все каналы. При enhance текст сначала улучшается AI.
func (s *Service) Broadcast(ctx context.Context, message string, enhance bool) (Report, error) {
	if strings.TrimSpace(message) == "" {
		return Report{}, common.ErrBroadcastMessageRequired
	}

	if enhance && s.enhancer != nil {
		message = s.enhancer.EnhanceBroadcastMessage(ctx, message)
	}

	report := Report{
		Action:   ActionBroadcast,
		Message:  message,
		Notice:   "Simulating broadcast with message:\n" + message,
		Previews: []Preview{},
	}
	for _, ch := range s.state.Snapshot().Channels {
		report.Previews = append(report.Previews, Preview{
			ChannelID: ch.ID,
			Method:    "sendMessage",
			Params:    tu.Message(ChatID(ch.ID), message),
		})
	}

	log.WithFields(log.Fields{
		"enhanced": enhance,
		"targets":  common.FormatChannels(len(report.Previews)),
	}).Info("Симуляция рассылки")
	return report, nil
}

// PreviewDirectShare строит sendDocument для отправки файла получателю.
// Для нечислового получателя возвращает false.
func PreviewDirectShare(share botstate.DirectShare) (*telego.SendDocumentParams, bool) {
	uid, err := strconv.ParseInt(strings.TrimSpace(share.RecipientID), 10, 64)
	if err != nil {
		return nil, false
	}
	params := tu.Document(tu.ID(uid), tu.FileFromID(share.FileName))
	params.Caption = share.Caption
	return params, true
}

// ChatID переводит идентификатор канала в telego.ChatID: число → id, иначе → @username.
func ChatID(channelID string) telego.ChatID {
	channelID = strings.TrimSpace(channelID)
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return tu.ID(id)
	}
	if !strings.HasPrefix(channelID, "@") {
		channelID = "@" + channelID
	}
	return tu.Username(channelID)
}

func memberPreviews(action Action, channelID string, userID int64) []Preview {
	chat := ChatID(channelID)

	switch action {
	case ActionKick:
		// kick в Telegram: бан и сразу разбан
		return []Preview{
			{ChannelID: channelID, Method: "banChatMember", Params: &telego.BanChatMemberParams{
				ChatID: chat,
				UserID: userID,
			}},
			{ChannelID: channelID, Method: "unbanChatMember", Params: &telego.UnbanChatMemberParams{
				ChatID:       chat,
				UserID:       userID,
				OnlyIfBanned: true,
			}},
		}
	case ActionBan:
		return []Preview{{ChannelID: channelID, Method: "banChatMember", Params: &telego.BanChatMemberParams{
			ChatID:         chat,
			UserID:         userID,
			RevokeMessages: true,
		}}}
	case ActionPromote:
		return []Preview{{ChannelID: channelID, Method: "promoteChatMember", Params: promoteParams(chat, userID, true)}}
	case ActionDemote:
		return []Preview{{ChannelID: channelID, Method: "promoteChatMember", Params: promoteParams(chat, userID, false)}}
	}
	return nil
}

// promoteParams выдаёт (или снимает) права модератора.
func promoteParams(chat telego.ChatID, userID int64, grant bool) *telego.PromoteChatMemberParams {
	return &telego.PromoteChatMemberParams{
		ChatID:             chat,
		UserID:             userID,
		CanManageChat:      boolPtr(grant),
		CanDeleteMessages:  boolPtr(grant),
		CanRestrictMembers: boolPtr(grant),
		CanInviteUsers:     boolPtr(grant),
		CanPinMessages:     boolPtr(grant),
	}
}

func boolPtr(v bool) *bool { return &v }
