package core

// IsAndOne marks a made FieldGoal that does not end the possession because
// the next event past any Substitution/Timeout rows is a free throw by the
// same team (Open Question #2, decided in DESIGN.md); the foul type is not
// checked. Set by the enrichment pass (enrich.resolveAndOne), read by both
// C7 (shot clock retained-stop) and C8 (possession-ending classification).
func (e *Event) IsAndOne() bool { return e.isAndOne }

// SetAndOne records the and-one flag resolved by enrichment.
func (e *Event) SetAndOne(v bool) { e.isAndOne = v }

// IsPossessionEndingEvent reports whether this event is the last event of
// its possession (§4.7). An override patched onto the event by C4 from the
// process-wide override tables (§3/§4.3/§6/§9) always wins over the
// type-based classification below, since it exists specifically to correct
// known upstream defects the classification can't see.
func (e *Event) IsPossessionEndingEvent() bool {
	if e.PossessionChangingOverride {
		return true
	}
	if e.NonPossessionChangingOverride {
		return false
	}

	switch e.Type {
	case FieldGoal:
		return !e.IsAndOne()
	case FreeThrow:
		return e.IsTerminalFT && e.IsMade()
	case Rebound:
		return e.IsRealRebound() && !e.IsOffensiveRebound()
	case Turnover:
		return e.IsRealTurnover()
	case JumpBall:
		return true
	case EndOfPeriod:
		return true
	case Violation:
		return true
	default:
		return false
	}
}

// IsRealTurnover reports whether a Turnover event resolves to an actual
// subtype rather than being a placeholder row with an unresolved
// (action-type 0) subtype, mirroring IsRealRebound and the original's
// is_no_turnover guard (stats_nba/rebound.py, shot_clock.py:244).
func (e *Event) IsRealTurnover() bool {
	return e.Type == Turnover && e.TurnoverType != ""
}

// GetOffenseTeamID returns the team with the ball at the instant of this
// event. Events with no intrinsic offense identity (administrative kinds)
// delegate to the previous event, matching resources/enhanced_pbp/
// stoppage.py and live/game_end.py's delegation pattern.
func (e *Event) GetOffenseTeamID() TeamID {
	switch e.Type {
	case Turnover:
		if !e.IsRealTurnover() {
			if e.PreviousEvent != nil {
				return e.PreviousEvent.GetOffenseTeamID()
			}
			return e.TeamID
		}
		return e.TeamID
	case FieldGoal, FieldGoalMissed, FreeThrow, Rebound:
		return e.TeamID
	case Foul, Violation:
		if e.TeamID != 0 {
			if prev := e.PreviousEvent; prev != nil {
				if off := prev.GetOffenseTeamID(); off != 0 && off != e.TeamID {
					return off
				}
			}
			return e.TeamID
		}
		fallthrough
	default:
		if e.PreviousEvent != nil {
			return e.PreviousEvent.GetOffenseTeamID()
		}
		return e.TeamID
	}
}
