package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/bharat-yatra/internal/adapters/http"
	"github.com/PabloGalante/bharat-yatra/internal/adapters/llm"
	memstore "github.com/PabloGalante/bharat-yatra/internal/adapters/storage/memory"
	"github.com/PabloGalante/bharat-yatra/internal/app/responder"
	"github.com/PabloGalante/bharat-yatra/internal/app/workspace"
	"github.com/PabloGalante/bharat-yatra/internal/config"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("yatra api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := observability.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := newGateway(ctx, cfg)
	if err != nil {
		return err
	}

	variant := responder.VariantLive
	if cfg.ScriptedWarmup {
		variant = responder.VariantScriptedWarmup
	}

	svc := workspace.NewService(
		gateway,
		responder.NewSet(gateway, responder.NewScripted(nil)),
		memstore.NewSessionStore(),
		memstore.NewMessageStore(),
		workspace.Options{
			Variant:        variant,
			GatewayTimeout: cfg.GatewayTimeout,
			SOSCountdown:   cfg.SOSCountdown,
			MaxImageBytes:  int(cfg.MaxImageBytes),
			ShareURL:       cfg.ShareURL,
			Logger:         log,
		},
	)
	svc.StartSweeper(ctx, cfg.SessionIdleTTL, 0)

	handler := httpadapter.NewServer(svc, httpadapter.Options{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		MaxImageBytes:      cfg.MaxImageBytes,
	})

	// No WriteTimeout: chat submits wait on the gateway and the SOS stream
	// stays open for the whole countdown.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("yatra api listening", "addr", srv.Addr, "mode", cfg.Mode, "mock_llm", cfg.UseMockLLM, "scripted_warmup", cfg.ScriptedWarmup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	stop()

	log.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	svc.Shutdown(shutdownCtx)

	log.Info("server stopped")
	return nil
}

func newGateway(ctx context.Context, cfg *config.Config) (domain.Gateway, error) {
	log := observability.Logger()

	if cfg.UseMockLLM {
		log.Info("using mock gateway")
		return llm.NewMockGateway(), nil
	}

	opts := llm.GeminiOptions{
		APIKey: cfg.APIKey,
		Models: llm.Models{
			Chat:   cfg.ChatModel,
			Search: cfg.SearchModel,
			Maps:   cfg.MapsModel,
			Vision: cfg.VisionModel,
		},
	}
	if cfg.Mode == config.ModeGCP {
		opts.APIKey = ""
		opts.Project = cfg.GCPProjectID
		opts.Location = cfg.GCPLocation
		log.Info("using vertex gateway", "project", cfg.GCPProjectID, "location", cfg.GCPLocation)
	} else {
		log.Info("using gemini api gateway")
	}

	return llm.NewGeminiGateway(ctx, opts)
}
