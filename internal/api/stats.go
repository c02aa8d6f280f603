package api

import (
	"net/http"
	"strings"

	"nbapbp.dev/enginepbp/internal/aggregate"
	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/store"
)

// StatsRoutes serves grouped, cached aggregate statistics over a game's
// persisted events.
type StatsRoutes struct {
	possessions *store.PossessionStore
	cache       *store.AggregateCache
}

func NewStatsRoutes(possessions *store.PossessionStore, cache *store.AggregateCache) *StatsRoutes {
	return &StatsRoutes{possessions: possessions, cache: cache}
}

func (rt *StatsRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/games/{game_id}/stats", rt.handleStats)
}

// handleStats godoc
// @Summary Aggregate a game's event-level stats
// @Description Groups the persisted per-event stat contributions by the requested keys, applying the divide-by-5 rule for team/lineup rollups
// @Tags stats
// @Produce json
// @Param game_id path string true "Game ID"
// @Param group_by query string true "comma-separated group-by keys, e.g. player_id,stat_key"
// @Success 200 {array} aggregate.Row
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /games/{game_id}/stats [get]
func (rt *StatsRoutes) handleStats(w http.ResponseWriter, r *http.Request) {
	gameID := core.GameID(r.PathValue("game_id"))
	if gameID == "" {
		writeBadRequest(w, "game_id is required")
		return
	}

	keys, err := parseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rows, err := rt.cache.GetOrCompute(r.Context(), gameID, keys, func() ([]aggregate.Row, error) {
		stats, err := rt.possessions.EventStatsByGame(r.Context(), gameID)
		if err != nil {
			return nil, err
		}
		return aggregate.GroupRecords(stats, keys), nil
	})
	if err != nil {
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

var validGroupByKeys = map[aggregate.Key]bool{
	aggregate.ByPlayer:         true,
	aggregate.ByTeam:           true,
	aggregate.ByOpponentTeam:   true,
	aggregate.ByLineup:         true,
	aggregate.ByOpponentLineup: true,
	aggregate.ByStatKey:        true,
}

func parseGroupBy(raw string) ([]aggregate.Key, error) {
	if raw == "" {
		return nil, &badRequestError{"group_by is required"}
	}

	var keys []aggregate.Key
	for _, part := range strings.Split(raw, ",") {
		key := aggregate.Key(strings.TrimSpace(part))
		if !validGroupByKeys[key] {
			return nil, &badRequestError{"unknown group_by key: " + string(key)}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }
