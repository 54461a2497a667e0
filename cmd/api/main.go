package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/samber/do"

	"github.com/forthelynnn/deycantik/internal/infra"
	"github.com/forthelynnn/deycantik/internal/inject"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	if !cfg.HasCredential() {
		logger.Warn().Msg("GEMINI_API_KEY is not set; generation requests will fail until it is configured")
	}

	ctx := context.Background()
	injector := inject.Setup(ctx, cfg, &logger)

	// Router, gateway & backend dibangun lewat injector
	server, err := do.Invoke[*infra.HTTPServer](injector)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build services")
	}

	// Start async
	go func() {
		logger.Info().
			Str("backend", cfg.BackendProvider).
			Str("model", cfg.GeminiImageModel).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := injector.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("failed to release services")
	}
	logger.Info().Msg("server stopped")
}
