// internal/classify/classifier_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	classifier := NewKeywordClassifier()

	tests := []struct {
		name     string
		text     string
		expected Choice
	}{
		{
			name:     "news query routes to live lookup",
			text:     "latest news on the election",
			expected: LiveLookup,
		},
		{
			name:     "today keyword routes to live lookup",
			text:     "what is the weather today",
			expected: LiveLookup,
		},
		{
			name:     "uppercase keyword still matches",
			text:     "BREAKING developments in the talks",
			expected: LiveLookup,
		},
		{
			name:     "keyword inside larger word matches by substring",
			text:     "tell me about recentralization",
			expected: LiveLookup,
		},
		{
			name:     "search verb routes to live lookup",
			text:     "search for open restaurants nearby",
			expected: LiveLookup,
		},
		{
			name:     "multi-word keyword",
			text:     "can you look up the score",
			expected: LiveLookup,
		},
		{
			name:     "general knowledge stays conversational",
			text:     "tell me a joke",
			expected: Conversational,
		},
		{
			name:     "capital question stays conversational",
			text:     "what is the capital of France",
			expected: Conversational,
		},
		{
			name:     "empty utterance stays conversational",
			text:     "",
			expected: Conversational,
		},
		{
			name:     "launch sentinel stays conversational",
			text:     "launch skill",
			expected: Conversational,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.text))
		})
	}
}

func TestKeywordClassifier_Deterministic(t *testing.T) {
	classifier := NewKeywordClassifier()

	for i := 0; i < 5; i++ {
		assert.Equal(t, LiveLookup, classifier.Classify("current exchange rate"))
		assert.Equal(t, Conversational, classifier.Classify("explain photosynthesis"))
	}
}
