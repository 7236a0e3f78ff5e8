// internal/alexa/normalize_test.go
package alexa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		req           *Request
		expectedKind  Kind
		expectedText  string
		expectedAttrs map[string]interface{}
	}{
		{
			name: "launch request uses sentinel utterance",
			req: &Request{
				Version: "1.0",
				Request: RequestBody{Type: "LaunchRequest"},
			},
			expectedKind:  KindLaunch,
			expectedText:  "launch skill",
			expectedAttrs: map[string]interface{}{},
		},
		{
			name: "intent request with query slot",
			req: &Request{
				Version: "1.0",
				Session: Session{
					Attributes: map[string]interface{}{"mood": "curious"},
				},
				Request: RequestBody{
					Type: "IntentRequest",
					Intent: Intent{
						Name: "AskIntent",
						Slots: map[string]Slot{
							"query": {Name: "query", Value: "what is the capital of France"},
						},
					},
				},
			},
			expectedKind:  KindIntent,
			expectedText:  "what is the capital of France",
			expectedAttrs: map[string]interface{}{"mood": "curious"},
		},
		{
			name: "intent request without query slot falls back to intent name",
			req: &Request{
				Request: RequestBody{
					Type:   "IntentRequest",
					Intent: Intent{Name: "AMAZON.HelpIntent"},
				},
			},
			expectedKind:  KindIntent,
			expectedText:  "Intent: AMAZON.HelpIntent",
			expectedAttrs: map[string]interface{}{},
		},
		{
			name: "intent request with empty query slot value falls back",
			req: &Request{
				Request: RequestBody{
					Type: "IntentRequest",
					Intent: Intent{
						Name: "AskIntent",
						Slots: map[string]Slot{
							"query": {Name: "query", Value: ""},
						},
					},
				},
			},
			expectedKind: KindIntent,
			expectedText: "Intent: AskIntent",
		},
		{
			name: "intent request with no intent name at all",
			req: &Request{
				Request: RequestBody{Type: "IntentRequest"},
			},
			expectedKind: KindIntent,
			expectedText: "Intent: Unknown",
		},
		{
			name: "session ended request",
			req: &Request{
				Request: RequestBody{Type: "SessionEndedRequest", Reason: "USER_INITIATED"},
			},
			expectedKind: KindSessionEnded,
			expectedText: "end session",
		},
		{
			name: "unknown request type",
			req: &Request{
				Request: RequestBody{Type: "System.ExceptionEncountered"},
			},
			expectedKind: KindUnrecognized,
			expectedText: "unknown request",
		},
		{
			name:         "empty request body",
			req:          &Request{},
			expectedKind: KindUnrecognized,
			expectedText: "unknown request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, utterance, attrs := Normalize(tt.req)

			assert.Equal(t, tt.expectedKind, kind)
			assert.Equal(t, tt.expectedText, utterance)
			assert.NotNil(t, attrs)
			if tt.expectedAttrs != nil {
				assert.Equal(t, tt.expectedAttrs, attrs)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	req := &Request{
		Session: Session{Attributes: map[string]interface{}{"turn": float64(3)}},
		Request: RequestBody{
			Type: "IntentRequest",
			Intent: Intent{
				Name:  "AskIntent",
				Slots: map[string]Slot{"query": {Name: "query", Value: "tell me a joke"}},
			},
		},
	}

	kind1, text1, attrs1 := Normalize(req)
	kind2, text2, attrs2 := Normalize(req)

	assert.Equal(t, kind1, kind2)
	assert.Equal(t, text1, text2)
	assert.Equal(t, attrs1, attrs2)
}
