package main

import (
	"net/http"

	"github.com/orderlyhq/orderly-starter/internal/api"
	"github.com/orderlyhq/orderly-starter/internal/config"
	"github.com/orderlyhq/orderly-starter/internal/logging"
	"github.com/orderlyhq/orderly-starter/internal/metrics"
	"github.com/orderlyhq/orderly-starter/internal/settings"
	"github.com/orderlyhq/orderly-starter/internal/stream"
)

// buildHandler wires the settings store, metrics collector and stream
// hub into the HTTP handler chain.
func buildHandler(cfg *config.Config) http.Handler {
	store := settings.NewStore(settings.Defaults{
		BrandName: cfg.Defaults.BrandName,
		Accent:    cfg.Defaults.Accent,
	})
	collector := metrics.NewCollector(store)
	hub := stream.NewHub()

	handler := api.NewMux(store, cfg, collector, hub)
	return logging.RequestMiddleware(cfg.Logging)(handler)
}
