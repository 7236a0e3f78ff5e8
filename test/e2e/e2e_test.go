// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alexa-skill-backend/internal/alexa"
	"alexa-skill-backend/internal/cache"
	"alexa-skill-backend/internal/classify"
	"alexa-skill-backend/internal/common/config"
	"alexa-skill-backend/internal/common/logger"
	"alexa-skill-backend/internal/orchestrator"
	"alexa-skill-backend/internal/provider/openrouter"
	"alexa-skill-backend/internal/provider/perplexity"
	"alexa-skill-backend/internal/server"
)

const testSkillID = "amzn1.ask.skill.e2e-test"

// fakeUpstream fakes an OpenAI-compatible chat-completions API.
type fakeUpstream struct {
	server    *httptest.Server
	content   string
	citations []string
	calls     int
}

func newFakeUpstream(t *testing.T, content string, citations []string) *fakeUpstream {
	t.Helper()

	f := &fakeUpstream{content: content, citations: citations}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": f.content}},
			},
		}
		if len(f.citations) > 0 {
			response["citations"] = f.citations
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(f.server.Close)

	return f
}

type env struct {
	server           *server.Server
	conversationalUp *fakeUpstream
	liveLookup       *fakeUpstream
}

func newEnv(t *testing.T) *env {
	t.Helper()

	conversational := newFakeUpstream(t, "Why did the gopher cross the road? To get to the channel.", nil)
	liveLookup := newFakeUpstream(t, "Sunny, 72F", []string{"https://weather.example/sf"})

	log := logger.NewTestLogger(t)

	conv := openrouter.New(&openrouter.Config{
		APIKey:      "e2e-key",
		BaseURL:     conversational.server.URL,
		Model:       "openai/gpt-4o-mini",
		Timeout:     5 * time.Second,
		MaxTokens:   300,
		Temperature: 0.7,
	}, log)

	live := perplexity.New(&perplexity.Config{
		APIKey:      "e2e-key",
		BaseURL:     liveLookup.server.URL,
		Timeout:     5 * time.Second,
		MaxTokens:   300,
		Temperature: 0.2,
	}, log)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	orch := orchestrator.New(classify.NewKeywordClassifier(), conv, live, log).
		WithCache(cache.NewWithClient(client, time.Minute))

	cfg := config.Config{}
	cfg.App.Name = "alexa-skill-backend"
	cfg.Alexa.SkillID = testSkillID

	return &env{
		server:           server.New(cfg, orch, alexa.AllowAllVerifier{}, nil, log),
		conversationalUp: conversational,
		liveLookup:       liveLookup,
	}
}

func alexaRequest(requestType, intentName, query string) string {
	body := map[string]interface{}{
		"version": "1.0",
		"session": map[string]interface{}{
			"sessionId":   "amzn1.echo-api.session.e2e",
			"application": map[string]string{"applicationId": testSkillID},
			"attributes":  map[string]interface{}{},
		},
		"request": map[string]interface{}{
			"type":      requestType,
			"requestId": "amzn1.echo-api.request.e2e",
		},
	}
	if intentName != "" {
		intent := map[string]interface{}{"name": intentName}
		if query != "" {
			intent["slots"] = map[string]interface{}{
				"query": map[string]string{"name": "query", "value": query},
			}
		}
		body["request"].(map[string]interface{})["intent"] = intent
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func post(t *testing.T, e *env, body string) (*http.Response, *alexa.Envelope) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/alexa", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)

	var envlp alexa.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envlp))
	return resp, &envlp
}

func TestFullSession(t *testing.T) {
	e := newEnv(t)

	// Open the session.
	resp, envlp := post(t, e, alexaRequest("LaunchRequest", "", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, alexa.WelcomeText, envlp.Response.OutputSpeech.Text)
	assert.False(t, envlp.Response.ShouldEndSession)

	// General question goes to the conversational provider.
	resp, envlp = post(t, e, alexaRequest("IntentRequest", "AskIntent", "tell me a joke"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Why did the gopher cross the road? To get to the channel.", envlp.Response.OutputSpeech.Text)
	assert.Equal(t, 1, e.conversationalUp.calls)
	assert.Equal(t, 0, e.liveLookup.calls)

	// Live question goes to the live-lookup provider and carries citations.
	resp, envlp = post(t, e, alexaRequest("IntentRequest", "AskIntent", "weather in san francisco today"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sunny, 72F (Sources: 1)", envlp.Response.OutputSpeech.Text)
	assert.Equal(t, 1, e.liveLookup.calls)

	// Repeat of the general question is served from the cache.
	resp, envlp = post(t, e, alexaRequest("IntentRequest", "AskIntent", "tell me a joke"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, e.conversationalUp.calls, "repeat must not hit the upstream again")

	// Close the session.
	resp, envlp = post(t, e, alexaRequest("SessionEndedRequest", "", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, alexa.GoodbyeText, envlp.Response.OutputSpeech.Text)
	assert.True(t, envlp.Response.ShouldEndSession)
}

func TestFallbackWhenUpstreamIsDown(t *testing.T) {
	e := newEnv(t)
	e.conversationalUp.server.Close()

	resp, envlp := post(t, e, alexaRequest("IntentRequest", "AskIntent", "tell me a joke"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.0", envlp.Version)
	assert.Equal(t, orchestrator.UnreachableText, envlp.Response.OutputSpeech.Text)
	assert.False(t, envlp.Response.ShouldEndSession)
}

func TestRejectsForeignSkill(t *testing.T) {
	e := newEnv(t)

	foreign := fmt.Sprintf(`{"version":"1.0","session":{"application":{"applicationId":%q}},"request":{"type":"LaunchRequest"}}`, "amzn1.ask.skill.someone-else")

	req, err := http.NewRequest(http.MethodPost, "/alexa", bytes.NewBufferString(foreign))
	require.NoError(t, err)

	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
