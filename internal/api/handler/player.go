package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/minebase/playerstats/internal/api/request"
	"github.com/minebase/playerstats/internal/api/response"
	"github.com/minebase/playerstats/internal/services/profile"
	"github.com/minebase/playerstats/internal/services/stats"
)

// PlayerHandler handles player profile and player stat endpoints
type PlayerHandler struct {
	profileService *profile.Service
	statsService   *stats.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(profileService *profile.Service, statsService *stats.Service) *PlayerHandler {
	return &PlayerHandler{
		profileService: profileService,
		statsService:   statsService,
	}
}

// GetProfile handles GET /api/v1/players/{uuid}
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.profileService.GetProfile(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}

// UpdateProfile handles PUT /api/v1/players/{uuid}
func (h *PlayerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}

	if _, err := h.profileService.UpdateProfile(r.Context(), id, req.Username); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetAllStats handles GET /api/v1/players/{uuid}/stats
func (h *PlayerHandler) GetAllStats(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	projected, err := h.statsService.AllPlayerStats(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, projected)
}

// GetNamespaceStats handles GET /api/v1/players/{uuid}/stats/{namespace}
func (h *PlayerHandler) GetNamespaceStats(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	namespace := mux.Vars(r)["namespace"]

	projected, err := h.statsService.PlayerStats(r.Context(), id, namespace)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, projected)
}

// playerID parses the player UUID path variable
func playerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["uuid"])
	if err != nil {
		return uuid.Nil, NewInvalidRequestError("invalid player uuid")
	}
	return id, nil
}
