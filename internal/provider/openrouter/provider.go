// Package openrouter implements the conversational answer provider against
// OpenRouter's OpenAI-compatible chat-completions API.
package openrouter

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "alexa-skill-backend/internal/common/errors"
	"alexa-skill-backend/internal/common/logger"
	"alexa-skill-backend/internal/provider"
)

const ProviderName = "openrouter"

// systemPrompt constrains the answer for voice output. Alexa reads the text
// aloud, so long or formatted answers are useless.
const systemPrompt = "You are a helpful voice assistant. Answer in a " +
	"conversational tone suitable for being read aloud. Keep answers under " +
	"200 words and avoid lists, markdown, and URLs."

type Provider struct {
	config *Config
	client *openai.Client
	logger logger.Logger
}

func New(config *Config, log logger.Logger) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		logger: log.With(map[string]interface{}{
			"provider": ProviderName,
		}),
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Answer(ctx context.Context, utterance string) (string, error) {
	if p.config.APIKey == "" {
		return "", apperrors.NewProviderUnconfiguredError(ProviderName, provider.ErrUnconfigured)
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utterance},
		},
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	})
	if err != nil {
		p.logger.Warn("chat completion failed", map[string]interface{}{
			"model": p.config.Model,
			"error": err.Error(),
		})
		return "", apperrors.NewProviderUnreachableError(ProviderName, err.Error(), provider.ErrUnreachable)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewProviderMalformedResponseError(ProviderName, "response has no choices", provider.ErrMalformedResponse)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", apperrors.NewProviderMalformedResponseError(ProviderName, "first choice has empty content", provider.ErrMalformedResponse)
	}

	return answer, nil
}
