package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chatbuff.app/backend/common/id"
	"chatbuff.app/backend/common/llm"
	"chatbuff.app/backend/common/logger"
	"chatbuff.app/backend/common/otel"
	"chatbuff.app/backend/core/config"
	"chatbuff.app/backend/internal/assistant"
	"chatbuff.app/backend/internal/conversation"
	"chatbuff.app/backend/internal/enrichment"
	"chatbuff.app/backend/internal/generation"
	"chatbuff.app/backend/internal/http/handler"
	"chatbuff.app/backend/internal/http/middleware"
	httprouter "chatbuff.app/backend/internal/http/router"
	"chatbuff.app/backend/internal/retrieval"
	"chatbuff.app/backend/internal/speech"
	"chatbuff.app/backend/internal/ws"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "chatbuff starting", "env", cfg.Env, "version", cfg.Version)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	quoteStore, err := retrieval.NewStore(retrieval.Config{
		URL:        cfg.Typesense.URL,
		APIKey:     cfg.Typesense.APIKey,
		Collection: cfg.Typesense.Collection,
		Timeout:    cfg.Typesense.Timeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize quote store", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "quote store ready", "collection", cfg.Typesense.Collection)

	var newsCache enrichment.Cache = enrichment.NewMemoryCache(enrichment.DefaultTTL)
	if cfg.Redis.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		newsCache = enrichment.NewRedisCache(redisClient, enrichment.DefaultTTL)
		slog.InfoContext(ctx, "redis news cache enabled")
	}

	var newsProvider enrichment.Provider
	if cfg.News.Enabled() {
		newsProvider = enrichment.NewNewsAPIProvider(enrichment.NewsAPIConfig{
			APIKey:   cfg.News.APIKey,
			BaseURL:  cfg.News.BaseURL,
			Language: cfg.News.Language,
			Timeout:  cfg.News.Timeout,
		})
	} else {
		slog.InfoContext(ctx, "news api disabled, serving static topics")
	}
	newsService := enrichment.NewService(newsProvider, newsCache)

	var llmClient llm.Client
	if cfg.LLM.Enabled() {
		llmClient, err = llm.New(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to initialize llm client", "error", err)
			os.Exit(1)
		}
	} else {
		slog.WarnContext(ctx, "no llm api key configured, generation will fall back to the default reply")
		llmClient = llm.NewDisabled(cfg.LLM.Model)
	}
	generator := generation.NewGenerator(llmClient)

	orchestratorCfg := assistant.Config{MinTextLength: cfg.Assistant.MinTextLength}
	newOrchestrator := func() *assistant.Orchestrator {
		return assistant.NewOrchestrator(
			orchestratorCfg,
			conversation.NewContext(cfg.Assistant.ContextWindow),
			speech.NewTranscriber(speech.NewMockEngine(), speech.NewTracker()),
			quoteStore,
			generator,
			newsService,
		)
	}

	manager := ws.NewManager()
	handlers := httprouter.Handlers{
		Info:       handler.NewInfoHandler(cfg.ProjectName, cfg.Version, llmClient.Model(), quoteStore),
		Suggestion: handler.NewSuggestionHandler(quoteStore, generator),
		// The synchronous API shares one pipeline; each websocket
		// session gets its own via the factory below.
		Assistant:  handler.NewAssistantHandler(newOrchestrator()),
		Transcribe: handler.NewTranscribeHandler(speech.NewTranscriber(speech.NewMockEngine(), speech.NewTracker())),
		News:       handler.NewNewsHandler(newsService),
		WS: handler.NewWSHandler(manager, func() ws.Processor {
			return newOrchestrator()
		}, cfg.Assistant.StreamCharDelay),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, handlers)
	server := &http.Server{
		// No Read/WriteTimeout: they would poison hijacked websocket
		// connections with stale deadlines.
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, handlers httprouter.Handlers) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, handlers)

	return router
}

const banner = `
 ██████╗██╗  ██╗ █████╗ ████████╗██████╗ ██╗   ██╗███████╗███████╗
██╔════╝██║  ██║██╔══██╗╚══██╔══╝██╔══██╗██║   ██║██╔════╝██╔════╝
██║     ███████║███████║   ██║   ██████╔╝██║   ██║█████╗  █████╗
██║     ██╔══██║██╔══██║   ██║   ██╔══██╗██║   ██║██╔══╝  ██╔══╝
╚██████╗██║  ██║██║  ██║   ██║   ██████╔╝╚██████╔╝██║     ██║
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═════╝  ╚═════╝ ╚═╝     ╚═╝
`
