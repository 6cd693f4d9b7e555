// Package main runs the OTA firmware agent server: it receives device
// events over HTTP and lets the Gemini-backed agent read, rewrite, and
// deploy firmware through its tools.
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

	"github.com/Cyclone1070/otagent/internal/agent"
	"github.com/Cyclone1070/otagent/internal/config"
	"github.com/Cyclone1070/otagent/internal/firmware"
	"github.com/Cyclone1070/otagent/internal/orchestrator/adapter"
	"github.com/Cyclone1070/otagent/internal/orchestrator/prompt"
	"github.com/Cyclone1070/otagent/internal/provider/gemini"
	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/Cyclone1070/otagent/internal/server"
	"github.com/Cyclone1070/otagent/internal/store"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Dependencies holds the components required to run the application.
type Dependencies struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.Store
	Firmware *firmware.Storage
	Provider provider.Provider
	Tools    []adapter.Tool
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func createProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	temperature := cfg.Oracle.Temperature
	defaults := &provider.GenerateConfig{Temperature: &temperature}

	geminiClient := gemini.NewRealGeminiClient(genaiClient)
	return gemini.New(geminiClient, cfg.Oracle.Model, defaults), nil
}

func buildDependencies(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	deviceStore := store.NewFileStore(cfg.Store.Path, logger)
	firmwareStorage := firmware.NewStorage(cfg.Firmware.Dir, logger)

	if err := agent.SeedDemoDevice(ctx, deviceStore, firmwareStorage); err != nil {
		return nil, fmt.Errorf("failed to seed demo device: %w", err)
	}

	p, err := createProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tools := adapter.All(adapter.Deps{
		Store:    deviceStore,
		Firmware: firmwareStorage,
		Logger:   logger,
	})

	definitions := make([]provider.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		definitions = append(definitions, t.Definition())
	}
	if err := p.DefineTools(ctx, definitions); err != nil {
		return nil, fmt.Errorf("failed to define tools: %w", err)
	}

	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Store:    deviceStore,
		Firmware: firmwareStorage,
		Provider: p,
		Tools:    tools,
	}, nil
}

func run(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config

	service := agent.NewService(
		deps.Provider,
		deps.Tools,
		prompt.NewBuilder(),
		cfg.Agent.MaxRounds,
		time.Duration(cfg.Agent.RunTimeoutSeconds)*time.Second,
		deps.Logger,
	)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: server.New(service, deps.Logger).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("model", deps.Provider.GetModel()).
			Msg("OTA agent server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		deps.Logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("initialization failed")
		os.Exit(1)
	}

	if err := run(ctx, deps); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
