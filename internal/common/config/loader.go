// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, e.g. config.production.yaml.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the usual locations so the server can run from
// the repo root, a subdirectory, or a container workdir.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// overrideEmptyConfig fills fields that are still empty after viper
// unmarshalling from well-known environment variables.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Providers.OpenRouter.APIKey == "" {
		if val := os.Getenv("OPENROUTER_API_KEY"); val != "" {
			cfg.Providers.OpenRouter.APIKey = val
		}
	}
	if cfg.Providers.Perplexity.APIKey == "" {
		if val := os.Getenv("PERPLEXITY_API_KEY"); val != "" {
			cfg.Providers.Perplexity.APIKey = val
		}
	}
	if cfg.Alexa.SkillID == "" {
		if val := os.Getenv("ALEXA_SKILL_ID"); val != "" {
			cfg.Alexa.SkillID = val
		}
	}
	if cfg.Cache.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Cache.Address = val
		}
	}
	if len(cfg.Transcript.Addresses) == 0 {
		if val := os.Getenv("ELASTICSEARCH_URL"); val != "" {
			cfg.Transcript.Addresses = []string{val}
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "alexa-skill-backend"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 45000
	}

	if cfg.Providers.OpenRouter.BaseURL == "" {
		cfg.Providers.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Providers.OpenRouter.Model == "" {
		cfg.Providers.OpenRouter.Model = "openai/gpt-4o-mini"
	}
	if cfg.Providers.OpenRouter.Timeout == 0 {
		cfg.Providers.OpenRouter.Timeout = 30000
	}
	if cfg.Providers.OpenRouter.MaxTokens == 0 {
		cfg.Providers.OpenRouter.MaxTokens = 300
	}
	if cfg.Providers.OpenRouter.Temperature == 0 {
		cfg.Providers.OpenRouter.Temperature = 0.7
	}

	if cfg.Providers.Perplexity.BaseURL == "" {
		cfg.Providers.Perplexity.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Providers.Perplexity.Timeout == 0 {
		cfg.Providers.Perplexity.Timeout = 30000
	}
	if cfg.Providers.Perplexity.MaxTokens == 0 {
		cfg.Providers.Perplexity.MaxTokens = 300
	}
	if cfg.Providers.Perplexity.Temperature == 0 {
		cfg.Providers.Perplexity.Temperature = 0.2
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300
	}

	if cfg.Transcript.Index == "" {
		cfg.Transcript.Index = "alexa-transcripts"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. Provider API keys
// are intentionally not required here: a missing key degrades to a fallback
// answer per call instead of blocking startup.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", cfg.Server.Port)
	}

	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when cache.enabled is true")
	}

	if cfg.Transcript.Enabled && len(cfg.Transcript.Addresses) == 0 {
		return fmt.Errorf("transcript.addresses is required when transcript.enabled is true")
	}

	return nil
}
