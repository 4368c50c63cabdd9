// Package assistant — client.go обращается к OpenAI-совместимому API
// (по умолчанию Gemini через его OpenAI-совместимый эндпоинт).
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Completer отправляет запрос модели и возвращает ответ.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion — модель вернула пустой ответ.
var ErrEmptyCompletion = errors.New("empty completion")

// OpenAIClient реализует Completer через go-openai.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient создаёт клиента. Пустой baseURL — официальный API OpenAI.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
