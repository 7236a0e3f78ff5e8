// internal/provider/openrouter/config.go
package openrouter

import "time"

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}
