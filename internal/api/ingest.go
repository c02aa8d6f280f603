package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/engine"
	"nbapbp.dev/enginepbp/internal/enrich"
	"nbapbp.dev/enginepbp/internal/normalize"
	"nbapbp.dev/enginepbp/internal/starters"
	"nbapbp.dev/enginepbp/internal/store"
)

// IngestRoutes runs the full engine pipeline over a game's raw rows and
// persists the resulting events/possessions.
type IngestRoutes struct {
	possessions *store.PossessionStore
}

func NewIngestRoutes(possessions *store.PossessionStore) *IngestRoutes {
	return &IngestRoutes{possessions: possessions}
}

func (rt *IngestRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/games/{game_id}/ingest", rt.handleIngest)
}

// ingestRequest is the body of POST /v1/games/{game_id}/ingest, matching
// the shape named in §4.11.
type ingestRequest struct {
	Rows       []normalize.RawRow        `json:"rows"`
	Boxscore   []starters.BoxscorePlayer `json:"boxscore"`
	League     core.League               `json:"league"`
	SeasonYear int                       `json:"season_year"`
}

type ingestResponse struct {
	EventCount      int `json:"event_count"`
	PossessionCount int `json:"possession_count"`
	RepairCount     int `json:"repair_count"`
}

// handleIngest godoc
// @Summary Ingest a game's raw play-by-play rows
// @Description Runs Normalize through Possession Split over the posted rows and persists the result
// @Tags ingest
// @Accept json
// @Produce json
// @Param game_id path string true "Game ID"
// @Success 200 {object} ingestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /games/{game_id}/ingest [post]
func (rt *IngestRoutes) handleIngest(w http.ResponseWriter, r *http.Request) {
	gameID := core.GameID(r.PathValue("game_id"))
	if gameID == "" {
		writeBadRequest(w, "game_id is required")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body: "+err.Error())
		return
	}
	if len(req.Rows) == 0 {
		writeBadRequest(w, "rows must not be empty")
		return
	}

	out, err := engine.Run(engine.Input{
		GameID:     gameID,
		Rows:       req.Rows,
		Boxscore:   req.Boxscore,
		Overrides:  enrich.Overrides{},
		League:     req.League,
		SeasonYear: req.SeasonYear,
		Config: engine.Config{
			Logger: log.Default(),
		},
	})
	if err != nil {
		writeInternalServerError(w, err)
		return
	}

	if err := rt.possessions.SaveGame(r.Context(), gameID, out.Events, out.Possessions); err != nil {
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		EventCount:      len(out.Events),
		PossessionCount: len(out.Possessions),
		RepairCount:     len(out.RepairLog),
	})
}
