package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/albapepper/caps-edge/internal/api/respond"
	"github.com/albapepper/caps-edge/internal/refresh"
)

// refreshTimeout bounds a cycle started over HTTP. The cycle is detached
// from the request, so a dropped client does not abort a half-written pass.
const refreshTimeout = 15 * time.Minute

// RefreshResponse reports a finished refresh cycle.
type RefreshResponse struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	PlayersUpdated int      `json:"players_updated"`
	LeagueSampled  int      `json:"league_sampled"`
	DurationMS     int64    `json:"duration_ms"`
	Errors         []string `json:"errors,omitempty"`
}

// TriggerRefresh runs a refresh cycle synchronously.
// @Summary Trigger a data refresh
// @Description Fetches the roster, traditional stats and NHL Edge data, rebuilds the league reference tables and rescores every player. Runs synchronously; only one cycle runs at a time. The cycle runs to completion even if the client disconnects.
// @Tags refresh
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/refresh [post]
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "REFRESH_DISABLED", "Refresh is not available on this instance")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), refreshTimeout)
	defer cancel()

	result, err := h.runner.TryRun(ctx)
	if errors.Is(err, refresh.ErrRunning) {
		respond.WriteError(w, http.StatusConflict, "REFRESH_RUNNING", "A refresh is already in progress")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "REFRESH_FAILED", "Refresh failed", err.Error())
		return
	}

	if !result.OK() {
		respond.WriteError(w, http.StatusBadGateway, "REFRESH_FAILED", "Refresh aborted", strings.Join(result.Errors, "; "))
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, RefreshResponse{
		Status:         "success",
		Message:        "Refreshed " + result.Season,
		PlayersUpdated: result.EdgeRowsUpserted,
		LeagueSampled:  result.LeagueSampled,
		DurationMS:     result.Duration.Milliseconds(),
		Errors:         result.Errors,
	})
}
