// Package perplexity implements the live-lookup answer provider against
// Perplexity's search-augmented chat-completions API.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "alexa-skill-backend/internal/common/errors"
	"alexa-skill-backend/internal/common/logger"
	"alexa-skill-backend/internal/provider"
)

const ProviderName = "perplexity"

// Model is fixed to the search-capable variant; live lookup makes no sense
// against a non-search model.
const Model = "sonar"

const systemPrompt = "You are a helpful voice assistant with access to " +
	"current information. Answer in a conversational tone suitable for being " +
	"read aloud. Keep answers under 200 words and avoid lists, markdown, and " +
	"URLs. Cite your sources."

type Provider struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func New(config *Config, log logger.Logger) *Provider {
	return &Provider{
		config: config,
		// No client timeout: the per-call context bounds the request.
		client: &http.Client{},
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

	requestBody := map[string]interface{}{
		"model": Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": utterance},
		},
		"max_tokens":  p.config.MaxTokens,
		"temperature": p.config.Temperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", apperrors.NewProviderUnreachableError(ProviderName, err.Error(), provider.ErrUnreachable)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("search completion failed", map[string]interface{}{
			"model": Model,
			"error": err.Error(),
		})
		return "", apperrors.NewProviderUnreachableError(ProviderName, err.Error(), provider.ErrUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderUnreachableError(ProviderName, fmt.Sprintf("status %d", resp.StatusCode), provider.ErrUnreachable)
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Citations []string `json:"citations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", apperrors.NewProviderMalformedResponseError(ProviderName, fmt.Sprintf("decode error: %v", err), provider.ErrMalformedResponse)
	}

	if len(apiResponse.Choices) == 0 {
		return "", apperrors.NewProviderMalformedResponseError(ProviderName, "response has no choices", provider.ErrMalformedResponse)
	}

	answer := strings.TrimSpace(apiResponse.Choices[0].Message.Content)
	if answer == "" {
		return "", apperrors.NewProviderMalformedResponseError(ProviderName, "first choice has empty content", provider.ErrMalformedResponse)
	}

	return appendCitations(answer, apiResponse.Citations), nil
}

// appendCitations adds numbered reference markers, one per citation entry and
// in the order received, e.g. " (Sources: 1, 2)". Voice output cannot render
// the citation URLs themselves.
func appendCitations(answer string, citations []string) string {
	if len(citations) == 0 {
		return answer
	}

	markers := make([]string, len(citations))
	for i := range citations {
		markers[i] = strconv.Itoa(i + 1)
	}

	return answer + " (Sources: " + strings.Join(markers, ", ") + ")"
}
