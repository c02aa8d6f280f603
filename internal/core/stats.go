package core

import (
	"sort"
	"strconv"
	"strings"
)

// Stat key vocabulary emitted by Event.EventStats, grouped by C9.
const (
	StatFGM           = "fgm"
	StatFGA           = "fga"
	StatFG3M          = "fg3m"
	StatFG3A          = "fg3a"
	StatFTM           = "ftm"
	StatFTA           = "fta"
	StatOREB          = "oreb"
	StatDREB          = "dreb"
	StatREB           = "reb"
	StatAST           = "ast"
	StatSTL           = "stl"
	StatBLK           = "blk"
	StatTOV           = "tov"
	StatPF            = "pf"
	StatPTS           = "pts"
	StatPossessions   = "poss"
	StatSecondsPlayed = "secondsPlayed"
)

// KeysDivideByFiveForTeamAndLineup names the stat keys that were emitted
// once per player on the floor rather than once per event, so team and
// lineup rollups (which sum across all five players) must divide the sum
// by 5 to recover the event-level count (§4.8, grounded on
// Possessions.KEYS_OFF_BY_FACTOR_OF_5_WHEN_AGGREGATING_FOR_TEAM_AND_LINEUPS).
var KeysDivideByFiveForTeamAndLineup = map[string]bool{
	StatPossessions:   true,
	StatSecondsPlayed: true,
}

// StatRecord is one event-level stat contribution, the unit C9 groups and
// sums.
type StatRecord struct {
	PlayerID         PlayerID
	TeamID           TeamID
	OpponentTeamID   TeamID
	LineupID         LineupID
	OpponentLineupID LineupID
	StatKey          string
	StatValue        float64
}

// LineupIDFor canonicalizes a five-player on-court set into the sorted,
// "-"-joined string key used to group lineup rollups (§4.5).
func LineupIDFor(players []PlayerID) LineupID {
	strs := make([]string, 0, len(players))
	for _, p := range players {
		strs = append(strs, strconv.FormatInt(int64(p), 10))
	}
	sort.Strings(strs)
	return LineupID(strings.Join(strs, "-"))
}

// opponentTeamID returns the other team present in a two-team
// CurrentPlayers snapshot, or 0 if it cannot be determined.
func (e *Event) opponentTeamID(forTeam TeamID) TeamID {
	for teamID := range e.CurrentPlayers {
		if teamID != forTeam && teamID != 0 {
			return teamID
		}
	}
	return 0
}

func (e *Event) lineupFor(teamID TeamID) LineupID {
	players, ok := e.CurrentPlayers[teamID]
	if !ok {
		return ""
	}
	return LineupIDFor(players)
}

func (e *Event) record(playerID PlayerID, teamID TeamID, key string, value float64) StatRecord {
	opp := e.opponentTeamID(teamID)
	return StatRecord{
		PlayerID:         playerID,
		TeamID:           teamID,
		OpponentTeamID:   opp,
		LineupID:         e.lineupFor(teamID),
		OpponentLineupID: e.lineupFor(opp),
		StatKey:          key,
		StatValue:        value,
	}
}

// EventStats computes the event-level stat tuples for this event. Errors
// returned here are always recovered by C9: the event is skipped with a
// warning (§7 EventStatsComputationError).
func (e *Event) EventStats() ([]StatRecord, error) {
	var out []StatRecord
	switch e.Type {
	case FieldGoal, FieldGoalMissed:
		out = append(out, e.record(e.Player1ID, e.TeamID, StatFGA, 1))
		if e.ShotValue == 3 {
			out = append(out, e.record(e.Player1ID, e.TeamID, StatFG3A, 1))
		}
		if e.Type == FieldGoal {
			out = append(out, e.record(e.Player1ID, e.TeamID, StatFGM, 1))
			out = append(out, e.record(e.Player1ID, e.TeamID, StatPTS, float64(e.ShotValue)))
			if e.ShotValue == 3 {
				out = append(out, e.record(e.Player1ID, e.TeamID, StatFG3M, 1))
			}
			if e.Player2ID != 0 {
				out = append(out, e.record(e.Player2ID, e.TeamID, StatAST, 1))
			}
		} else if e.IsBlocked && e.BlockPlayerID != 0 {
			opp := e.opponentTeamID(e.TeamID)
			out = append(out, e.record(e.BlockPlayerID, opp, StatBLK, 1))
		}
	case FreeThrow:
		out = append(out, e.record(e.Player1ID, e.TeamID, StatFTA, 1))
		if e.IsMade() {
			out = append(out, e.record(e.Player1ID, e.TeamID, StatFTM, 1))
			out = append(out, e.record(e.Player1ID, e.TeamID, StatPTS, 1))
		}
	case Rebound:
		if e.IsRealRebound() {
			key := StatDREB
			if e.IsOffensiveRebound() {
				key = StatOREB
			}
			out = append(out, e.record(e.Player1ID, e.TeamID, key, 1))
			out = append(out, e.record(e.Player1ID, e.TeamID, StatREB, 1))
		}
	case Turnover:
		out = append(out, e.record(e.Player1ID, e.TeamID, StatTOV, 1))
		if e.StealPlayerID != 0 {
			opp := e.opponentTeamID(e.TeamID)
			out = append(out, e.record(e.StealPlayerID, opp, StatSTL, 1))
		}
	case Foul:
		if e.Player1ID != 0 {
			out = append(out, e.record(e.Player1ID, e.TeamID, StatPF, 1))
		}
	}
	return out, nil
}
