// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pterm/pterm"

	"taskchat/internal/agent"
	"taskchat/internal/config"
	"taskchat/internal/conversations"
	"taskchat/internal/httpapi"
	"taskchat/internal/llm"
	"taskchat/internal/llm/anthropic"
	"taskchat/internal/llm/openai"
	"taskchat/internal/logging"
	"taskchat/internal/observability"
	"taskchat/internal/tasks"
	"taskchat/internal/tools"
)

func main() {
	// .env loading mirrors the teacher's main.go pattern of not hard-failing
	// when no .env file is present — secrets may already be in the
	// environment (container deployments, CI).
	_ = godotenv.Load()

	cfgPath := firstNonEmpty(os.Getenv("TASKCHAT_CONFIG"), "config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		pterm.Error.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(os.Getenv("TASKCHAT_LOG_FILE"), os.Getenv("LOG_LEVEL"))
	logging.Log.Info("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.InitOTel(ctx, observability.ObsConfig{
		ServiceName:    "taskchat",
		ServiceVersion: firstNonEmpty(os.Getenv("TASKCHAT_VERSION"), "dev"),
		Environment:    firstNonEmpty(os.Getenv("TASKCHAT_ENV"), "development"),
	})
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			logging.Log.WithError(err).Warn("telemetry shutdown error")
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.Database.ConnectionString)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to open database pool")
	}
	defer pool.Close()

	if err := tasks.InitSchema(ctx, pool); err != nil {
		logging.Log.WithError(err).Fatal("failed to initialize task schema")
	}
	taskStore := tasks.NewPostgresStore(pool)

	if err := conversations.InitSchema(ctx, pool); err != nil {
		logging.Log.WithError(err).Fatal("failed to initialize conversation schema")
	}
	convStore := conversations.NewPostgresStore(pool)

	registry, err := tools.NewTaskRegistry(taskStore)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to build tool registry")
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to build llm provider")
	}

	handler := &httpapi.Handler{
		Conversations: convStore,
		Registry:      registry,
		Provider:      provider,
		AgentConfig: agent.Config{
			Model:            modelForProvider(cfg),
			Temperature:      cfg.Agent.Temperature,
			MaxTokens:        cfg.Agent.MaxTokens,
			MaxToolHops:      cfg.Agent.MaxToolHops,
			TransportRetries: cfg.Agent.TransportRetries,
		},
		HistoryWindow: cfg.Agent.HistoryWindow,
		MaxMsgBytes:   cfg.MaxMsgBytes,
	}
	health := &httpapi.HealthHandler{Pool: pool}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())

	registerRoutes(e, cfg, handler, health)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	go func() {
		pterm.Success.Printf("listening on %s\n", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	stop()
	logging.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Log.WithError(err).Error("graceful shutdown failed")
	}
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Agent.Provider {
	case "openai":
		return openai.New(cfg.OpenAI, http.DefaultClient), nil
	case "anthropic", "":
		return anthropic.New(cfg.Anthropic, http.DefaultClient), nil
	default:
		return nil, fmt.Errorf("unknown agent provider %q", cfg.Agent.Provider)
	}
}

func modelForProvider(cfg *config.Config) string {
	if cfg.Agent.Provider == "openai" {
		return cfg.OpenAI.Model
	}
	return cfg.Anthropic.Model
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
