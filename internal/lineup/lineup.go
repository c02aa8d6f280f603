// Package lineup implements C6: maintaining the on-court five players per
// team across substitutions, and computing the canonical lineup_id keys
// C9 groups by.
package lineup

import "nbapbp.dev/enginepbp/internal/core"

// Track runs the lineup tracker over events in order. starters maps each
// StartOfPeriod event's index (as produced by C4's Result.StartOfPeriodIndex)
// to the resolved five-per-team starting lineup for that period (C5's
// output). current_players snapshots are written onto each event; the
// exactly-five-per-active-team invariant is enforced after every event,
// failing with LineupInvariantError on violation (§4.5).
func Track(gameID core.GameID, events []*core.Event, starters map[int]map[core.TeamID][]core.PlayerID) error {
	current := map[core.TeamID][]core.PlayerID{}

	for i, e := range events {
		if e.Type == core.StartOfPeriod {
			if s, ok := starters[i]; ok {
				current = deepCopy(s)
			}
		}

		if e.Type == core.Substitution && e.TeamID != 0 {
			players := current[e.TeamID]
			for idx, p := range players {
				if p == e.SubOutPlayerID {
					players[idx] = e.SubInPlayerID
					break
				}
			}
			current[e.TeamID] = players
		}

		e.CurrentPlayers = deepCopy(current)

		for team, players := range e.CurrentPlayers {
			if team == 0 {
				continue
			}
			if len(players) != 5 {
				return core.NewLineupInvariantError(gameID, team, e.EventNum, len(players))
			}
		}
	}
	return nil
}

func deepCopy(m map[core.TeamID][]core.PlayerID) map[core.TeamID][]core.PlayerID {
	out := make(map[core.TeamID][]core.PlayerID, len(m))
	for team, players := range m {
		cp := make([]core.PlayerID, len(players))
		copy(cp, players)
		out[team] = cp
	}
	return out
}

// LineupID is a thin re-export of core.LineupIDFor for callers that only
// import this package.
func LineupID(players []core.PlayerID) core.LineupID {
	return core.LineupIDFor(players)
}
