// Package starters implements C5: inferring the five on-court players per
// team at the start of each period, via the fallback chain in §4.4.
package starters

import "nbapbp.dev/enginepbp/internal/core"

// BoxscorePlayer is one row of the optional boxscore input (§6).
type BoxscorePlayer struct {
	TeamID        core.TeamID   `json:"team_id"`
	PlayerID      core.PlayerID `json:"player_id"`
	StartPosition string        `json:"start_position"`
}

// Resolve determines the five starters per team for a single period,
// trying PBP inference, then (period 1 only) the boxscore, then carrying
// over from the previous period's ending lineup, per §4.4. strict selects
// whether PBP inference must land on exactly five players (online mode)
// or accepts a partial result (offline best-effort mode, step 4).
func Resolve(gameID core.GameID, period int, periodEvents []*core.Event, boxscore []BoxscorePlayer, priorEnding map[core.TeamID][]core.PlayerID, strict bool) (map[core.TeamID][]core.PlayerID, error) {
	inferred := inferFromPBP(periodEvents)

	if allHaveFive(inferred) {
		return inferred, nil
	}

	if period == 1 && len(boxscore) > 0 {
		fromBox := fromBoxscore(boxscore)
		if allHaveFive(fromBox) {
			return fromBox, nil
		}
	}

	if priorEnding != nil {
		filled := fillFromPrior(inferred, priorEnding)
		if allHaveFive(filled) {
			return filled, nil
		}
		inferred = filled
	}

	if !strict {
		return inferred, nil
	}

	return nil, core.NewInvalidNumberOfStartersError(gameID, period)
}

// inferFromPBP walks the period forward: every substitution reveals an
// outgoing player who must have been on the floor; every other actor also
// counts as a starter candidate unless an earlier substitution in the
// period brought them in (§4.4 step 1).
func inferFromPBP(periodEvents []*core.Event) map[core.TeamID][]core.PlayerID {
	starters := map[core.TeamID]map[core.PlayerID]bool{}
	order := map[core.TeamID][]core.PlayerID{}
	subbedIn := map[core.PlayerID]bool{}

	add := func(team core.TeamID, player core.PlayerID) {
		if team == 0 || player == 0 || subbedIn[player] {
			return
		}
		if starters[team] == nil {
			starters[team] = map[core.PlayerID]bool{}
		}
		if !starters[team][player] && len(starters[team]) < 5 {
			starters[team][player] = true
			order[team] = append(order[team], player)
		}
	}

	for _, e := range periodEvents {
		switch e.Type {
		case core.Substitution:
			add(e.TeamID, e.SubOutPlayerID)
			subbedIn[e.SubInPlayerID] = true
		default:
			add(e.TeamID, e.Player1ID)
			add(e.TeamID, e.Player2ID)
			add(e.TeamID, e.Player3ID)
		}
	}

	out := map[core.TeamID][]core.PlayerID{}
	for team, players := range order {
		out[team] = players
	}
	return out
}

func fromBoxscore(rows []BoxscorePlayer) map[core.TeamID][]core.PlayerID {
	out := map[core.TeamID][]core.PlayerID{}
	for _, r := range rows {
		if r.StartPosition == "" {
			continue
		}
		out[r.TeamID] = append(out[r.TeamID], r.PlayerID)
	}
	return out
}

func fillFromPrior(inferred, prior map[core.TeamID][]core.PlayerID) map[core.TeamID][]core.PlayerID {
	out := map[core.TeamID][]core.PlayerID{}
	for team, players := range inferred {
		out[team] = append([]core.PlayerID{}, players...)
	}
	for team, priorPlayers := range prior {
		cur := out[team]
		if !isSubsetOf(cur, priorPlayers) {
			continue
		}
		have := map[core.PlayerID]bool{}
		for _, p := range cur {
			have[p] = true
		}
		for _, p := range priorPlayers {
			if len(cur) >= 5 {
				break
			}
			if !have[p] {
				cur = append(cur, p)
				have[p] = true
			}
		}
		out[team] = cur
	}
	return out
}

func isSubsetOf(small, big []core.PlayerID) bool {
	set := map[core.PlayerID]bool{}
	for _, p := range big {
		set[p] = true
	}
	for _, p := range small {
		if !set[p] {
			return false
		}
	}
	return true
}

func allHaveFive(m map[core.TeamID][]core.PlayerID) bool {
	if len(m) == 0 {
		return false
	}
	for _, players := range m {
		if len(players) != 5 {
			return false
		}
	}
	return true
}
