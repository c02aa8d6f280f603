// Package enrich implements C4: a single forward sweep over the repaired
// event stream that links prev/next, tracks score, fouls-to-give, and
// per-player fouls, resolves ambiguous free-throw/and-one fields, and
// applies externally supplied possession-change overrides.
package enrich

import (
	"strings"

	"nbapbp.dev/enginepbp/internal/core"
)

// Overrides are process-wide, read-only mappings from game_id to the set
// of event_nums known to (not) change possession, used to patch known
// upstream defects (§9 "Override tables").
type Overrides struct {
	PossessionChanging    map[core.GameID]map[int]bool
	NonPossessionChanging map[core.GameID]map[int]bool
}

// Result is the output of a single enrichment sweep.
type Result struct {
	Events             []*core.Event
	StartOfPeriodIndex []int // indices of StartOfPeriod events, for C5
}

// Enrich runs the forward sweep described in §4.3 over events, which must
// already be in final, repaired order. Events are mutated in place.
func Enrich(events []*core.Event, overrides Overrides) Result {
	score := map[core.TeamID]int{}
	foulsToGive := map[core.TeamID]int{}
	playerFouls := map[core.PlayerID]int{}
	teamsSeen := map[core.TeamID]bool{}

	var startIdx []int
	period := 0

	for i, e := range events {
		if i > 0 {
			e.PreviousEvent = events[i-1]
		}
		if i+1 < len(events) {
			e.NextEvent = events[i+1]
		}

		if e.TeamID != 0 {
			teamsSeen[e.TeamID] = true
		}

		if e.Type == core.StartOfPeriod {
			startIdx = append(startIdx, i)
			period = e.Period
			reset := 4
			if period > 4 {
				reset = 3
			}
			for team := range teamsSeen {
				foulsToGive[team] = reset
			}
		}

		if e.SecondsRemaining <= 120 && period > 0 {
			for team := range teamsSeen {
				if foulsToGive[team] > 1 {
					foulsToGive[team] = 1
				}
			}
			for team := range teamsSeen {
				if _, ok := foulsToGive[team]; !ok {
					foulsToGive[team] = 1
				}
			}
		}

		switch e.Type {
		case core.Foul:
			if e.TeamID != 0 && countsTowardsPenalty(e) {
				foulsToGive[e.TeamID]--
			}
			if e.Player1ID != 0 && isPersonalFoul(e) {
				playerFouls[e.Player1ID]++
			}
		case core.FreeThrow:
			resolveFTMade(e)
			if e.IsMade() {
				score[e.TeamID]++
			}
		case core.FieldGoal:
			resolveAndOne(e)
			value := e.ShotValue
			if value == 0 {
				if strings.Contains(e.Description, "3PT") {
					value = 3
				} else {
					value = 2
				}
			}
			score[e.TeamID] += value
		}

		e.Score = cloneIntMap(score)
		e.FoulsToGive = cloneIntMap(foulsToGive)
		e.PlayerGameFouls = clonePlayerMap(playerFouls)

		applyOverrides(e, overrides)
	}

	return Result{Events: events, StartOfPeriodIndex: startIdx}
}

func countsTowardsPenalty(e *core.Event) bool {
	switch e.FoulType {
	case "offensive", "technical", "flagranttype1", "flagranttype2":
		return false
	default:
		return true
	}
}

func isPersonalFoul(e *core.Event) bool {
	return e.FoulType != "technical"
}

// resolveFTMade resolves the FreeThrow.is_made ambiguity (Open Question
// decided in DESIGN.md), grounded on resources/enhanced_pbp/stats_nba/
// free_throw.py's is_made property: explicit miss/make markers in the
// description take precedence; otherwise a terminal/technical FT
// immediately followed by a defensive rebound is inferred missed;
// default made.
func resolveFTMade(e *core.Event) {
	desc := strings.ToUpper(e.Description)
	if strings.Contains(desc, "MISS") {
		e.SetFTMade(false)
		return
	}
	if strings.Contains(desc, "PTS)") {
		e.SetFTMade(true)
		return
	}
	if e.IsTerminalFT || e.IsTechnicalFT {
		if next := e.NextEvent; next != nil && next.Type == core.Rebound &&
			next.TeamID != 0 && e.TeamID != 0 && next.TeamID != e.TeamID {
			e.SetFTMade(false)
			return
		}
	}
	e.SetFTMade(true)
}

// resolveAndOne decides Open Question #2's and-one extension point: a
// made field goal does not end the possession when immediately followed
// (ignoring neutral Substitution/Timeout events) by a free throw awarded
// to the same team, indicating a shooting foul drawn on the make.
func resolveAndOne(e *core.Event) {
	n := e.NextEvent
	for n != nil && (n.Type == core.Substitution || n.Type == core.Timeout) {
		n = n.NextEvent
	}
	e.SetAndOne(n != nil && n.Type == core.FreeThrow && n.TeamID == e.TeamID)
}

func applyOverrides(e *core.Event, overrides Overrides) {
	if overrides.PossessionChanging != nil {
		if set, ok := overrides.PossessionChanging[e.GameID]; ok && set[e.EventNum] {
			e.PossessionChangingOverride = true
		}
	}
	if overrides.NonPossessionChanging != nil {
		if set, ok := overrides.NonPossessionChanging[e.GameID]; ok && set[e.EventNum] {
			e.NonPossessionChangingOverride = true
		}
	}
}

func cloneIntMap(m map[core.TeamID]int) map[core.TeamID]int {
	out := make(map[core.TeamID]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePlayerMap(m map[core.PlayerID]int) map[core.PlayerID]int {
	out := make(map[core.PlayerID]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
