package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/minebase/playerstats/internal/api/handler"
	apimiddleware "github.com/minebase/playerstats/internal/api/middleware"
	"github.com/minebase/playerstats/internal/middleware"
	"github.com/minebase/playerstats/internal/services/auth"
	"github.com/minebase/playerstats/internal/services/profile"
	"github.com/minebase/playerstats/internal/services/stats"
	"github.com/minebase/playerstats/internal/services/upload"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	ProfileService *profile.Service
	StatsService   *stats.Service
	UploadService  *upload.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.ProfileService, cfg.StatsService)
	statsHandler := handler.NewStatsHandler(cfg.UploadService, cfg.StatsService)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes; reads are open, profile mutation needs a server token
	api.HandleFunc("/players/{uuid}", playerHandler.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/players/{uuid}/stats", playerHandler.GetAllStats).Methods(http.MethodGet)
	api.HandleFunc("/players/{uuid}/stats/{namespace}", playerHandler.GetNamespaceStats).Methods(http.MethodGet)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/{uuid}", playerHandler.UpdateProfile).Methods(http.MethodPut)

	// Stats routes; uploads need a server token, global reads are open
	api.HandleFunc("/stats/global/{namespace}", statsHandler.GetGlobalStats).Methods(http.MethodGet)

	statsProtected := api.PathPrefix("/stats").Subrouter()
	statsProtected.Use(authMiddleware)
	statsProtected.HandleFunc("/upload", statsHandler.Upload).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
