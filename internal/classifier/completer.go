package classifier

import (
	"context"
	"errors"
	"strings"

	"callcenter-platform/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// Completer sends one system+user exchange to a chat model and returns the
// text of the first choice.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const temperature = 0.1

// OpenAICompleter talks to any OpenAI-compatible chat completion endpoint
// (OpenAI, LM Studio, vLLM, ...).
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(cfg config.LLMConfig) *OpenAICompleter {
	c := openai.DefaultConfig(cfg.APIKey)
	c.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenAICompleter{client: openai.NewClientWithConfig(c), model: cfg.Model}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("el modelo no devolvió ninguna respuesta")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
