// Package shotclock implements C7: a per-period state machine producing
// an approximate shot_clock value for every event, ported near-verbatim
// from resources/enhanced_pbp/shot_clock.py's branch logic.
package shotclock

import (
	"math"
	"strings"

	"nbapbp.dev/enginepbp/internal/core"
)

const fullReset = 24.0

// ShortReset returns the short shot-clock reset value for a league and
// season: 14 seconds for the NBA from the 2018-19 season onward and for
// WNBA/G-League at all seasons; 24 otherwise (§4.6).
func ShortReset(league core.League, seasonYear int) float64 {
	switch league {
	case core.WNBA, core.GLeague:
		return 14.0
	case core.NBA:
		if seasonYear >= 2018 {
			return 14.0
		}
		return 24.0
	default:
		return 24.0
	}
}

// Annotate runs the shot-clock state machine over events, which must
// already be enriched (prev/next linked) and sorted by period then order.
func Annotate(events []*core.Event, league core.League, seasonYear int) {
	shortReset := ShortReset(league, seasonYear)

	start := 0
	for start < len(events) {
		end := start + 1
		for end < len(events) && events[end].Period == events[start].Period {
			end++
		}
		annotatePeriod(events[start:end], shortReset)
		start = end
	}
}

func annotatePeriod(period []*core.Event, shortReset float64) {
	if len(period) == 0 {
		return
	}
	state := fullReset
	lastShotHitRim := true

	for i, e := range period {
		if i == 0 || e.Type == core.StartOfPeriod {
			state = fullReset
		} else {
			dt := period[i-1].SecondsRemaining - e.SecondsRemaining
			if dt < 0 {
				dt = 0
			}
			state = math.Max(0, state-dt)
		}

		display := math.Min(state, math.Min(fullReset, e.SecondsRemaining))
		display = round1(display)
		if e.IsShotClockViolation() {
			display = 0.0
		}
		e.ShotClock = display

		if e.Type == core.FieldGoalMissed || (e.Type == core.FreeThrow && !e.IsMade()) {
			lastShotHitRim = !strings.Contains(strings.ToLower(e.Description), "airball") && !e.IsBlocked
		}

		state = nextState(e, state, shortReset, lastShotHitRim)
	}
}

func nextState(e *core.Event, state, shortReset float64, lastShotHitRim bool) float64 {
	if e.Type == core.Violation && e.ViolationType == "defensivegoaltending" {
		return fullReset
	}

	switch e.Type {
	case core.Rebound:
		if !e.IsRealRebound() {
			return state
		}
		if e.IsOffensiveRebound() {
			if lastShotHitRim {
				return shortReset
			}
			return state
		}
		return fullReset

	case core.FieldGoal:
		if e.IsAndOne() {
			return state
		}
		return fullReset

	case core.Turnover:
		if !e.IsRealTurnover() {
			return state
		}
		if e.TurnoverType == "kickedball" && !possessionChangedViaNext(e) {
			return retainedStop(state, shortReset, lastShotHitRim)
		}
		return fullReset

	case core.FreeThrow:
		if !e.IsTerminalFT {
			return state
		}
		if possessionChangedViaNext(e) {
			return fullReset
		}
		return state

	case core.JumpBall:
		if possessionChangedViaNext(e) {
			return fullReset
		}
		return state

	case core.Foul:
		if possessionChangedViaNext(e) {
			return fullReset
		}
		switch e.FoulType {
		case "technical", "flagranttype1", "flagranttype2", "shooting":
			return state
		case "looseball":
			return retainedStop(state, shortReset, lastShotHitRim)
		default:
			return retainedStop(state, shortReset, lastShotHitRim)
		}

	case core.Violation:
		if possessionChangedViaNext(e) {
			return fullReset
		}
		return retainedStop(state, shortReset, lastShotHitRim)

	default:
		if possessionChangedViaNext(e) {
			return fullReset
		}
		return state
	}
}

// retainedStop implements §4.6's retained-stop rule: rim-hit context uses
// the short reset outright; otherwise the clock can only improve (max) to
// the short reset from wherever it already was.
func retainedStop(state, shortReset float64, rim bool) float64 {
	if rim {
		return shortReset
	}
	return math.Max(shortReset, state)
}

// possessionChangedViaNext approximates whether ball control passed to
// the other team across this event, by comparing team ids with the next
// non-neutral event. Used for FreeThrow/JumpBall/Foul/Violation/fallback
// branches and the kicked-ball Turnover case, where the event's own
// TeamID doesn't already encode the change (unlike Rebound, FieldGoal and
// other Turnovers, which do).
func possessionChangedViaNext(e *core.Event) bool {
	n := e.NextEvent
	for n != nil && (n.Type == core.Substitution || n.Type == core.Timeout) {
		n = n.NextEvent
	}
	if n == nil || n.TeamID == 0 || e.TeamID == 0 {
		return true
	}
	return n.TeamID != e.TeamID
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
