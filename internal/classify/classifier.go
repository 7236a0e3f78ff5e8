// Package classify decides which answer provider should serve an utterance.
package classify

import "strings"

// Choice names the provider capability an utterance should be routed to.
type Choice string

const (
	Conversational Choice = "conversational"
	LiveLookup     Choice = "live_lookup"
)

// Classifier is the routing seam. It is a single method so the keyword
// matcher can later be swapped for a learned model without touching the
// orchestrator or the providers.
type Classifier interface {
	Classify(text string) Choice
}

// liveInfoKeywords signal the user wants current information rather than
// general knowledge. Matching is a logical OR; order does not matter.
var liveInfoKeywords = []string{
	"latest",
	"today",
	"news",
	"search",
	"breaking",
	"real time",
	"current",
	"recent",
	"live",
	"google",
	"look up",
}

// KeywordClassifier routes by case-insensitive substring match against a
// fixed keyword set. Deterministic and stateless.
type KeywordClassifier struct {
	keywords []string
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{keywords: liveInfoKeywords}
}

func (c *KeywordClassifier) Classify(text string) Choice {
	lowered := strings.ToLower(text)
	for _, keyword := range c.keywords {
		if strings.Contains(lowered, keyword) {
			return LiveLookup
		}
	}
	return Conversational
}
