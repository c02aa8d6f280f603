package api

import (
	"net/http"

	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/store"
)

// PossessionRoutes reads back a game's persisted possessions.
type PossessionRoutes struct {
	possessions *store.PossessionStore
}

func NewPossessionRoutes(possessions *store.PossessionStore) *PossessionRoutes {
	return &PossessionRoutes{possessions: possessions}
}

func (rt *PossessionRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/games/{game_id}/possessions", rt.handleList)
}

// handleList godoc
// @Summary List a game's possessions
// @Description Reads back the possessions split out by a prior ingest call, ordered by period then number
// @Tags possessions
// @Produce json
// @Param game_id path string true "Game ID"
// @Success 200 {array} store.PossessionRow
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /games/{game_id}/possessions [get]
func (rt *PossessionRoutes) handleList(w http.ResponseWriter, r *http.Request) {
	gameID := core.GameID(r.PathValue("game_id"))
	if gameID == "" {
		writeBadRequest(w, "game_id is required")
		return
	}

	rows, err := rt.possessions.Possessions(r.Context(), gameID)
	if err != nil {
		writeInternalServerError(w, err)
		return
	}
	if len(rows) == 0 {
		writeNotFound(w, "game "+string(gameID))
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
