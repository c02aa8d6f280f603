// Package aggregate implements C9: grouping event-level stat records by a
// configurable key subset and summing, grounded on resources/enhanced_pbp/
// possessions.py's Possessions._aggregate_event_stats.
package aggregate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"nbapbp.dev/enginepbp/internal/core"
)

// Key names the fields a caller can group by. Order is insignificant;
// Group canonicalizes it for map lookups.
type Key string

const (
	ByPlayer         Key = "player_id"
	ByTeam           Key = "team_id"
	ByOpponentTeam   Key = "opponent_team_id"
	ByLineup         Key = "lineup_id"
	ByOpponentLineup Key = "opponent_lineup_id"
	ByStatKey        Key = "stat_key"
)

// Row is one output row of an aggregation: the group's key field values
// plus the summed stat_value.
type Row struct {
	Fields    map[Key]string
	StatValue float64
}

// Aggregate computes event_stats for every event, skipping (and logging)
// any event whose computation fails, then groups by keys and sums
// stat_value. When keys include ByTeam or ByLineup but not ByPlayer, the
// divide-by-5 rule in core.KeysDivideByFiveForTeamAndLineup is applied
// per §4.8.
func Aggregate(events []*core.Event, keys []Key, logger *log.Logger) []Row {
	var records []core.StatRecord

	for _, e := range events {
		stats, err := e.EventStats()
		if err != nil {
			if logger != nil {
				logger.Warn("skipping event in aggregation", "game_id", e.GameID, "event_num", e.EventNum, "err", err)
			}
			continue
		}
		records = append(records, stats...)
	}

	return GroupRecords(records, keys)
}

// GroupRecords groups already-computed stat records by keys and sums
// stat_value, applying the divide-by-5 rule for team/lineup rollups. It is
// the half of C9 that runs independent of event_stats computation, so
// callers reading back persisted records (rather than live events) can
// reuse it directly.
func GroupRecords(records []core.StatRecord, keys []Key) []Row {
	sums := map[string]*Row{}
	order := []string{}

	isTeamOrLineupRollup := !containsKey(keys, ByPlayer) &&
		(containsKey(keys, ByTeam) || containsKey(keys, ByLineup) || containsKey(keys, ByOpponentTeam) || containsKey(keys, ByOpponentLineup))

	for _, s := range records {
		fields := fieldsFor(s, keys)
		groupKey := groupKeyFor(fields, keys)

		row, ok := sums[groupKey]
		if !ok {
			row = &Row{Fields: fields}
			sums[groupKey] = row
			order = append(order, groupKey)
		}

		value := s.StatValue
		if isTeamOrLineupRollup && core.KeysDivideByFiveForTeamAndLineup[s.StatKey] {
			value /= 5
		}
		row.StatValue += value
	}

	out := make([]Row, 0, len(order))
	for _, k := range order {
		out = append(out, *sums[k])
	}
	return out
}

func containsKey(keys []Key, k Key) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

func fieldsFor(s core.StatRecord, keys []Key) map[Key]string {
	fields := make(map[Key]string, len(keys))
	for _, k := range keys {
		switch k {
		case ByPlayer:
			fields[k] = strconv.FormatInt(int64(s.PlayerID), 10)
		case ByTeam:
			fields[k] = strconv.FormatInt(int64(s.TeamID), 10)
		case ByOpponentTeam:
			fields[k] = strconv.FormatInt(int64(s.OpponentTeamID), 10)
		case ByLineup:
			fields[k] = string(s.LineupID)
		case ByOpponentLineup:
			fields[k] = string(s.OpponentLineupID)
		case ByStatKey:
			fields[k] = s.StatKey
		}
	}
	return fields
}

func groupKeyFor(fields map[Key]string, keys []Key) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	return strings.Join(parts, "|")
}
