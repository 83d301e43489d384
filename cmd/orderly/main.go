package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orderlyhq/orderly-starter/internal/config"
	"github.com/orderlyhq/orderly-starter/internal/logging"
)

func main() {
	configPath := flag.String("config", "orderly.yaml", "path to the configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Logging)
	logger := logging.L()

	handler := buildHandler(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().Int("port", cfg.Server.Port).Msg("orderly starter starting")
	logger.Info().
		Str("brand_name", cfg.Defaults.BrandName).
		Str("accent", cfg.Defaults.Accent).
		Msg("settings defaults")
	if cfg.RateLimit.Enabled {
		logger.Info().
			Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute).
			Int("burst", cfg.RateLimit.Burst).
			Msg("api rate limiting enabled")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(server, cfg)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// listenAndServe starts the server with or without TLS based on configuration.
func listenAndServe(server *http.Server, cfg *config.Config) error {
	logger := logging.L()

	if cfg.Server.TLS.Enabled {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			logger.Fatal().Msg("TLS is enabled, but cert_file or key_file is not specified in the configuration")
		}
		if _, err := os.Stat(cfg.Server.TLS.CertFile); os.IsNotExist(err) {
			logger.Fatal().Str("cert_file", cfg.Server.TLS.CertFile).Msg("TLS certificate file not found")
		}
		if _, err := os.Stat(cfg.Server.TLS.KeyFile); os.IsNotExist(err) {
			logger.Fatal().Str("key_file", cfg.Server.TLS.KeyFile).Msg("TLS key file not found")
		}

		logger.Info().Int("port", cfg.Server.Port).Msg("listening for HTTPS")
		return server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
	}

	logger.Info().Int("port", cfg.Server.Port).Msg("listening for HTTP")
	return server.ListenAndServe()
}
