// ABOUTME: Main entry point for the Smart Reader API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smart-reader-api/api"
	"smart-reader-api/api/handlers"
	"smart-reader-api/api/middleware"
	"smart-reader-api/core/assistant"
	"smart-reader-api/core/interfaces"
	"smart-reader-api/core/reader"
	"smart-reader-api/core/render"
	"smart-reader-api/core/services"
	"smart-reader-api/core/session"
	"smart-reader-api/core/speech"
	"smart-reader-api/infrastructure/cache/memory"
	"smart-reader-api/infrastructure/cache/redis"
	"smart-reader-api/infrastructure/cache/sqlite"
	"smart-reader-api/infrastructure/fetch"
	stdhttp "smart-reader-api/infrastructure/http/standard"
	"smart-reader-api/infrastructure/llm/gemini"
	stdlogger "smart-reader-api/infrastructure/logger/standard"
	googletts "smart-reader-api/infrastructure/speech/google"
	"smart-reader-api/pkg/config"
	"smart-reader-api/pkg/featureflags"
)

// defaultFlags apply when no FEATURE_* variable overrides them
var defaultFlags = map[featureflags.FeatureFlag]bool{
	featureflags.BrowserFallback:     false,
	featureflags.MarkdownView:        true,
	featureflags.ReadabilityMetadata: true,
	featureflags.SpeechEnabled:       false,
	featureflags.RateLimitEnabled:    true,
}

func main() {
	// A missing .env file is normal in deployed environments
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := stdlogger.NewLogger(stdlogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	logger.Info("Starting Smart Reader API", map[string]interface{}{
		"port":         cfg.Server.Port,
		"cache_type":   cfg.Cache.Type,
		"render_mode":  cfg.Reader.RenderMode,
		"extract_mode": cfg.Reader.ExtractMode,
	})

	flags := featureflags.NewEnvManager("FEATURE_", defaultFlags)
	ctx := context.Background()
	var closers []io.Closer

	cache := newCache(cfg, logger)
	if c, ok := cache.(io.Closer); ok {
		closers = append(closers, c)
	}

	httpClient := stdhttp.NewStandardHTTPClient(cfg.Reader.FetchTimeout,
		stdhttp.WithTransport(&middleware.LoggingRoundTripper{Logger: logger}),
	)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// Content pipeline
	fetcher := fetch.NewChainFetcher(logger,
		fetch.NewProxyFetcher(deps, cfg.Reader.ProxyURLs),
		fetch.NewDirectFetcher(cfg.Reader.FetchTimeout),
	)
	pipeline := reader.NewPipeline(reader.PipelineOptions{
		Extract: reader.ExtractOptions{
			Mode:           reader.ExtractMode(cfg.Reader.ExtractMode),
			MinBlockLength: cfg.Reader.MinBlockLength,
			MinTextLength:  cfg.Reader.MinTextLength,
		},
		Sanitize: reader.ParseSanitizeLevel(cfg.Reader.SanitizeLevel),
		Flags:    flags,
		Logger:   logger,
	})
	readerService := reader.NewService(deps, fetcher, pipeline,
		reader.WithFlags(flags),
		reader.WithBrowserFallback(fetch.NewBrowserFetcher(cfg.Reader.FetchTimeout, 2*time.Second)),
	)

	// Language model
	var model interfaces.LanguageModel = unconfiguredModel{}
	if cfg.LLM.APIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			logger.Error("Failed to create Gemini client, assistant disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			model = client
			closers = append(closers, client)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistant endpoints will fail", nil)
	}
	assistantService := assistant.NewService(deps, model,
		assistant.WithPalette(services.NewPaletteService(deps, 0)),
		assistant.WithMaxArticleChars(cfg.LLM.MaxArticleChars),
	)

	// Speech
	var synthesizer interfaces.SpeechSynthesizer
	if flags.IsEnabled(ctx, featureflags.SpeechEnabled) {
		tts, err := googletts.NewClient(ctx, cfg.Speech.Voice, cfg.Speech.LanguageCode)
		if err != nil {
			logger.Error("Failed to create TTS client, speech disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			synthesizer = speech.NewService(deps, tts, cfg.Speech.Voice)
			closers = append(closers, tts)
		}
	}

	sessions := session.NewManager(session.Options{
		RenderMode:        render.ParseMode(cfg.Reader.RenderMode),
		HighlightDuration: cfg.Reader.HighlightDuration,
		ContextLimit:      cfg.Reader.ContextLimit,
	}, session.Services{
		Reader:    readerService,
		Assistant: assistantService,
		Speech:    synthesizer,
		Logger:    logger,
	}, session.DefaultIdleTimeout)

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:     logger,
		Flags:      flags,
		RateLimit:  cfg.Server.RateLimit,
		RateWindow: cfg.Server.RateWindow,
	})
	handlers.NewSessionHandler(sessions, flags).RegisterRoutes(humaAPI)
	handlers.NewReaderHandler(readerService).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // browser fallback and model calls are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close resource", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	logger.Info("Server stopped", nil)
}

// newCache builds the configured cache, falling back to memory when the
// configured backend is unreachable.
func newCache(cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path)
		if err != nil {
			logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLite.Path,
		})
		return sqliteCache
	}

	expiration := time.Duration(cfg.Cache.Memory.DefaultExpiration) * time.Second
	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCacheWithExpiration(expiration, 10*time.Minute)
}
