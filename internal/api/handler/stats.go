package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/minebase/playerstats/internal/api/response"
	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/services/stats"
	"github.com/minebase/playerstats/internal/services/upload"
)

// StatsHandler handles stats upload and global stat endpoints
type StatsHandler struct {
	uploadService *upload.Service
	statsService  *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(uploadService *upload.Service, statsService *stats.Service) *StatsHandler {
	return &StatsHandler{
		uploadService: uploadService,
		statsService:  statsService,
	}
}

// Upload handles POST /api/v1/stats/upload
func (h *StatsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var bundle model.StatsBundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		WriteError(w, NewInvalidRequestError("invalid stats bundle"))
		return
	}

	if err := h.uploadService.Upload(r.Context(), &bundle); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetGlobalStats handles GET /api/v1/stats/global/{namespace}
func (h *StatsHandler) GetGlobalStats(w http.ResponseWriter, r *http.Request) {
	namespace := mux.Vars(r)["namespace"]

	projected, err := h.statsService.GlobalStats(r.Context(), namespace)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, projected)
}
