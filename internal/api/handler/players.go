package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/caps-edge/internal/api/respond"
	"github.com/albapepper/caps-edge/internal/cache"
	"github.com/albapepper/caps-edge/internal/scoring"
	"github.com/albapepper/caps-edge/internal/store"
)

// PlayersResponse is the roster listing.
type PlayersResponse struct {
	Players     []store.PlayerRecord `json:"players"`
	LastUpdated *time.Time           `json:"last_updated"`
	Count       int                  `json:"count"`
}

// PlayerResponse is a single player.
type PlayerResponse struct {
	Player      store.PlayerRecord `json:"player"`
	LastUpdated *time.Time         `json:"last_updated"`
}

// AveragesResponse is the current reference table.
type AveragesResponse struct {
	Averages    scoring.PositionAverages `json:"averages"`
	LastUpdated *time.Time               `json:"last_updated"`
}

// ListPlayers returns every stored skater with stats, Edge data and scores.
// @Summary List roster skaters
// @Description Returns all roster skaters ordered by points, with traditional stats, NHL Edge stats, Motor Index, Hustle Score and percentiles. Goalies are excluded.
// @Tags players
// @Produce json
// @Success 200 {object} PlayersResponse
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "players", cache.TTLPlayers, func() (interface{}, bool) {
		players, err := h.store.ListPlayers(r.Context())
		if err != nil {
			h.logger.Error("List players", "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to list players")
			return nil, false
		}
		if players == nil {
			players = []store.PlayerRecord{}
		}
		return PlayersResponse{
			Players:     players,
			LastUpdated: h.lastUpdated(r.Context()),
			Count:       len(players),
		}, true
	})
}

// GetPlayer returns one skater.
// @Summary Get a player
// @Description Returns one skater with stats, Edge data, scores and percentiles.
// @Tags players
// @Produce json
// @Param playerID path int true "NHL player id"
// @Success 200 {object} PlayerResponse
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PLAYER_ID", "playerID must be a positive integer")
		return
	}

	h.serveCached(w, r, fmt.Sprintf("player:%d", id), cache.TTLPlayers, func() (interface{}, bool) {
		p, err := h.store.GetPlayer(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Player %d not found", id))
			return nil, false
		}
		if err != nil {
			h.logger.Error("Get player", "player_id", id, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to load player")
			return nil, false
		}
		return PlayerResponse{Player: *p, LastUpdated: h.lastUpdated(r.Context())}, true
	})
}

// GetPositionAverages returns the reference table the last cycle built.
// @Summary Position averages
// @Description Returns the per-position league averages (bursts/60, distance/game, hits/60, shots/60, offensive-zone %) and sample sizes used to normalize the Motor Index.
// @Tags reference
// @Produce json
// @Success 200 {object} AveragesResponse
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/position-averages [get]
func (h *Handler) GetPositionAverages(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "position-averages", cache.TTLAverages, func() (interface{}, bool) {
		avgs, err := h.store.PositionAverages(r.Context())
		if err != nil {
			h.logger.Error("Position averages", "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to load position averages")
			return nil, false
		}
		return AveragesResponse{Averages: avgs, LastUpdated: h.lastUpdated(r.Context())}, true
	})
}
