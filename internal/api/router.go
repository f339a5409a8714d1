package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/handler"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/api/middleware"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/match"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/session"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/services/status"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	StatusController  *status.Controller
	MatchService      *match.Service
	HubManager        *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	statusHandler := handler.NewStatusHandler(cfg.StatusController)
	matchHandler := handler.NewMatchHandler(cfg.MatchService)
	eventsHandler := handler.NewEventsHandler(cfg.SessionController, cfg.HubManager)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Share links live outside the API prefix so a plain scanned QR code
	// resolves without a client
	r.HandleFunc("/join/{shareCode}", sessionHandler.JoinRedirect).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{shareCode}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{shareCode}/join", sessionHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{shareCode}/events", eventsHandler.Subscribe).Methods(http.MethodGet)

	// Status workflow routes. The pending/approve/expire-rest paths are
	// registered before the generic {playerId} pattern would be ambiguous,
	// so "pending", "approve" and "expire-rest" never parse as player ids
	api.HandleFunc("/players/pending/{shareCode}", statusHandler.Pending).Methods(http.MethodGet)
	api.HandleFunc("/players/approve/{requestId}", statusHandler.Resolve).Methods(http.MethodPut)
	api.HandleFunc("/players/expire-rest/{playerId}", statusHandler.ExpireRest).Methods(http.MethodPost)
	api.HandleFunc("/players/{playerId}/status", statusHandler.Submit).Methods(http.MethodPost)

	// Match routes
	api.HandleFunc("/sessions/{shareCode}/matches", matchHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/matches/{matchId}/complete", matchHandler.Complete).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
