package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/personalab/internal/api"
	"github.com/MikeSquared-Agency/personalab/internal/config"
	"github.com/MikeSquared-Agency/personalab/internal/hermes"
	"github.com/MikeSquared-Agency/personalab/internal/metrics"
	"github.com/MikeSquared-Agency/personalab/internal/persona"
	"github.com/MikeSquared-Agency/personalab/internal/processor"
	"github.com/MikeSquared-Agency/personalab/internal/scoring"
	"github.com/MikeSquared-Agency/personalab/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and NATS consumers",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("personalab starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rules, err := loadRules(cfg.RulesFile)
	if err != nil {
		return err
	}

	runs := store.NewMemoryRuns()
	personas := store.NewMemoryPersonas()
	m := metrics.New()

	// NATS is optional; without it the HTTP API is the only ingestion path.
	var (
		hermesClient *hermes.Client
		pub          persona.Publisher
	)
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer hermesClient.Close()
		pub = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, persona events will not be published")
	}

	builder := persona.New(runs, personas, rules, persona.NewNamer(cfg.NameSeed), pub, m, slog.Default())

	if hermesClient != nil {
		proc := processor.New(runs, builder, m, slog.Default())
		if err := hermesClient.SubscribeRuns(hermes.RunHandlers{
			Event:      proc.HandleEvent,
			Transcript: proc.HandleTranscript,
			Survey:     proc.HandleSurvey,
			Finalize:   proc.HandleFinalize,
		}); err != nil {
			return err
		}
	}

	srv := api.NewServer(cfg.Port, cfg.APIToken, runs, personas, builder, m, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	if hermesClient != nil {
		if err := hermesClient.PublishRegistered(cfg.Port); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("personalab ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	slog.Info("personalab stopped")
	return nil
}

func loadRules(path string) (*scoring.Rules, error) {
	if path == "" {
		return scoring.DefaultRules(), nil
	}
	rules, err := scoring.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("load scoring rules: %w", err)
	}
	slog.Info("scoring rules loaded", "path", path)
	return rules, nil
}
