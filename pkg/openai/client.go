package openai

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

// Client wraps the OpenAI SDK behind the narrow surface site generation needs.
type Client struct {
	api   openai.Client
	model string
}

// NewClient builds a chat-completion client from config. The API key is
// required; the model falls back to the configured default.
func NewClient(cfg config.OpenAIConfig) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "openai api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		api:   openai.NewClient(option.WithAPIKey(key)),
		model: model,
	}, nil
}

// Complete runs a single system+user chat completion and returns the raw
// assistant message content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "openai client is not configured")
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model reports the configured chat model.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
