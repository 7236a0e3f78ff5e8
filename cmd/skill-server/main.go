package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alexa-skill-backend/internal/alexa"
	"alexa-skill-backend/internal/cache"
	"alexa-skill-backend/internal/classify"
	"alexa-skill-backend/internal/common/config"
	"alexa-skill-backend/internal/common/logger"
	"alexa-skill-backend/internal/common/observability"
	"alexa-skill-backend/internal/orchestrator"
	"alexa-skill-backend/internal/provider/openrouter"
	"alexa-skill-backend/internal/provider/perplexity"
	"alexa-skill-backend/internal/server"
	"alexa-skill-backend/internal/transcript"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.NewZapAdapter(logger.New("info", "console"))
		bootLog.WithError(err).Error("failed to load configuration", nil)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() {
		_ = zapLog.Sync()
	}()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting alexa skill backend", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"port":        cfg.Server.Port,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	conversational := openrouter.New(&openrouter.Config{
		APIKey:      cfg.Providers.OpenRouter.APIKey,
		BaseURL:     cfg.Providers.OpenRouter.BaseURL,
		Model:       cfg.Providers.OpenRouter.Model,
		Timeout:     config.GetDuration(cfg.Providers.OpenRouter.Timeout),
		MaxTokens:   cfg.Providers.OpenRouter.MaxTokens,
		Temperature: cfg.Providers.OpenRouter.Temperature,
	}, log)

	liveLookup := perplexity.New(&perplexity.Config{
		APIKey:      cfg.Providers.Perplexity.APIKey,
		BaseURL:     cfg.Providers.Perplexity.BaseURL,
		Timeout:     config.GetDuration(cfg.Providers.Perplexity.Timeout),
		MaxTokens:   cfg.Providers.Perplexity.MaxTokens,
		Temperature: cfg.Providers.Perplexity.Temperature,
	}, log)

	orch := orchestrator.New(classify.NewKeywordClassifier(), conversational, liveLookup, log)

	if cfg.Cache.Enabled {
		answerCache := cache.New(cfg.Cache)
		defer answerCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := answerCache.Ping(pingCtx); err != nil {
			log.WithError(err).Warn("answer cache unreachable, continuing without it", nil)
		} else {
			orch.WithCache(answerCache)
			log.Info("answer cache enabled", map[string]interface{}{
				"address": cfg.Cache.Address,
				"ttl":     cfg.Cache.TTL,
			})
		}
		cancel()
	}

	if cfg.Transcript.Enabled {
		sink, err := transcript.NewElasticsearch(cfg.Transcript)
		if err != nil {
			log.WithError(err).Warn("transcript sink unavailable, continuing without it", nil)
		} else if err := sink.Ping(); err != nil {
			log.WithError(err).Warn("transcript store unreachable, continuing without it", nil)
		} else {
			orch.WithTranscripts(sink)
			log.Info("transcript recording enabled", map[string]interface{}{
				"index": cfg.Transcript.Index,
			})
		}
	}

	srv := server.New(*cfg, orch, alexa.AllowAllVerifier{}, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server stopped unexpectedly", nil)
			os.Exit(1)
		}
		return
	}

	if err := srv.Shutdown(shutdownTimeout); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
