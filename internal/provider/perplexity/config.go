// internal/provider/perplexity/config.go
package perplexity

import "time"

type Config struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}
