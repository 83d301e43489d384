package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/orderlyhq/orderly-starter/internal/config"
	"github.com/orderlyhq/orderly-starter/internal/logging"
	"github.com/orderlyhq/orderly-starter/internal/metrics"
	"github.com/orderlyhq/orderly-starter/internal/ratelimiter"
	"github.com/orderlyhq/orderly-starter/internal/settings"
	"github.com/orderlyhq/orderly-starter/internal/stream"
	"github.com/orderlyhq/orderly-starter/internal/utils"
)

// ServiceName identifies the service in the health envelope.
const ServiceName = "orderly-starter"

const maxBodySize = 1 << 20

type settingsEnvelope struct {
	OK       bool            `json:"ok"`
	Settings settings.Record `json:"settings"`
}

type errorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type server struct {
	store     *settings.Store
	collector *metrics.Collector
	hub       *stream.Hub
	upgrader  websocket.Upgrader
}

// NewMux creates the HTTP handler for the embedded app: dashboard page,
// settings API, auth placeholder, health and metrics endpoints. The CSP
// and rate-limit middleware wrap every route.
func NewMux(store *settings.Store, cfg *config.Config, collector *metrics.Collector, hub *stream.Hub) http.Handler {
	s := &server{
		store:     store,
		collector: collector,
		hub:       hub,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.page)
	mux.HandleFunc("/api/settings", s.settings)
	mux.HandleFunc("/api/settings/stream", s.stream)
	mux.HandleFunc("/auth/callback", s.authCallback)
	mux.HandleFunc("/health", s.health)
	mux.Handle("/metrics", bearerAuth(cfg.Security.MetricsToken, collector.Handler()))

	var handler http.Handler = mux
	handler = s.countRequests(handler)
	if cfg.RateLimit.Enabled {
		limiter := ratelimiter.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		handler = s.rateLimit(limiter, handler)
	}
	handler = cspMiddleware(cfg.Security.ExtraFrameAncestors)(handler)

	logger := logging.L()
	logger.Info().Msg("app mux initialized")
	return handler
}

func (s *server) page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderPage(w, r.URL.Query().Get("shop"))
}

func (s *server) settings(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeError(w, http.StatusBadRequest, "missing shop parameter")
		return
	}

	switch r.Method {
	case http.MethodGet:
		record := s.store.GetOrCreate(shop)
		s.collector.RecordSettingsRead()
		writeSettings(w, record)

	case http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		update, err := settings.ParseUpdate(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		record := s.store.Apply(shop, update)
		s.collector.RecordSettingsWrite()
		s.hub.Broadcast(shop, record)
		reqLogger := logging.WithContext(r.Context())
		reqLogger.Info().Msg("settings updated")
		writeSettings(w, record)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *server) stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeError(w, http.StatusBadRequest, "missing shop parameter")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		reqLogger := logging.WithContext(r.Context())
		reqLogger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// Seed the new subscriber with the current record before it starts
	// receiving pushes.
	record := s.store.GetOrCreate(shop)
	if err := conn.WriteJSON(record); err != nil {
		_ = conn.Close()
		return
	}
	s.hub.Subscribe(shop, conn)
}

func (s *server) authCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OAuth callback placeholder - token exchange is not implemented in the starter."))
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"service": ServiceName,
	})
}

func (s *server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.collector.RecordRequest()
		next.ServeHTTP(w, r)
	})
}

func (s *server) rateLimit(limiter ratelimiter.RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(utils.GetClientIP(r)) {
			s.collector.RecordRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerAuth(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") || strings.TrimPrefix(authz, "Bearer ") != token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeSettings(w http.ResponseWriter, record settings.Record) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(settingsEnvelope{OK: true, Settings: record})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{OK: false, Error: message})
}
