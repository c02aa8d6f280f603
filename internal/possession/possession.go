// Package possession implements C8: splitting an enriched event stream
// into possessions and classifying how each one began (§4.7).
package possession

import "nbapbp.dev/enginepbp/internal/core"

// Split walks events, which must already be enriched (prev/next linked,
// scores/fouls populated, shot clock annotated), and returns the ordered
// possessions with previous/next links set.
func Split(gameID core.GameID, events []*core.Event) []*core.Possession {
	var possessions []*core.Possession
	var current []*core.Event
	number := map[int]int{}

	flush := func(period int) {
		if len(current) == 0 {
			return
		}
		number[period]++
		p := &core.Possession{
			GameID:           gameID,
			Period:           period,
			Number:           number[period],
			Events:           current,
			StartTime:        current[0].Clock,
			EndTime:          current[len(current)-1].Clock,
			StartScoreMargin: margin(current[0]),
			OffenseTeamID:    offenseTeamID(current),
		}
		possessions = append(possessions, p)
		current = nil
	}

	lastPeriod := 0
	for _, e := range events {
		if e.Type == core.StartOfPeriod {
			flush(lastPeriod)
			lastPeriod = e.Period
			continue
		}
		lastPeriod = e.Period
		current = append(current, e)
		if e.IsPossessionEndingEvent() {
			flush(e.Period)
		}
	}
	flush(lastPeriod)

	for i, p := range possessions {
		if i > 0 {
			p.PreviousPossession = possessions[i-1]
			possessions[i-1].NextPossession = p
		}
	}

	assignStartTypes(possessions)
	return possessions
}

func margin(e *core.Event) int {
	if e.Score == nil {
		return 0
	}
	var a, b int
	first := true
	for _, v := range e.Score {
		if first {
			a = v
			first = false
		} else {
			b = v
		}
	}
	return a - b
}

func offenseTeamID(events []*core.Event) core.TeamID {
	if len(events) == 0 {
		return 0
	}
	return events[0].GetOffenseTeamID()
}

// lastNonSub returns the final non-Substitution event of a possession,
// which §4.7 uses to classify the NEXT possession's start type.
func lastNonSub(p *core.Possession) *core.Event {
	for i := len(p.Events) - 1; i >= 0; i-- {
		if p.Events[i].Type != core.Substitution {
			return p.Events[i]
		}
	}
	return nil
}

// assignStartTypes computes possession_start_type for every possession
// from the last non-Substitution event of the prior possession, per the
// rules in §4.7. It also applies the single-JumpBall-possession offense
// special case.
func assignStartTypes(possessions []*core.Possession) {
	for _, p := range possessions {
		prev := p.PreviousPossession

		if prev == nil || p.Number == 1 {
			p.PossessionStartType = core.OffDeadball
			continue
		}

		if boundaryHasTimeout(p, prev) {
			p.PossessionStartType = core.OffTimeout
			continue
		}

		last := lastNonSub(prev)
		if last == nil {
			p.PossessionStartType = core.OffDeadball
			continue
		}

		p.PossessionStartType = classify(last)

		if len(p.Events) == 1 && p.Events[0].Type == core.JumpBall {
			p.OffenseTeamID = opponentOf(prev.OffenseTeamID, prev)
		}
	}
}

func boundaryHasTimeout(p, prev *core.Possession) bool {
	if prev.HasTimeout() {
		return true
	}
	for _, e := range p.Events {
		if e.Type == core.Timeout {
			return true
		}
		if e.Type != core.Substitution {
			break
		}
	}
	return false
}

func classify(last *core.Event) core.PossessionStartType {
	switch last.Type {
	case core.FieldGoal:
		if last.ShotValue == 3 {
			return core.OffMade3
		}
		return core.OffMade2
	case core.FreeThrow:
		return core.OffMadeFT
	case core.Turnover:
		if last.StealPlayerID != 0 {
			return core.OffLiveBallTurnover
		}
		return core.OffDeadball
	case core.Rebound:
		if !last.IsRealRebound() {
			return core.OffDeadball
		}
		shot, ok := last.MissedShot()
		if !ok || shot == nil {
			return core.OffDeadball
		}
		return classifyByMissedShot(shot)
	case core.JumpBall:
		if last.Player2ID == 0 {
			return core.OffLiveBallTurnover
		}
		return core.OffDeadball
	default:
		return core.OffDeadball
	}
}

func classifyByMissedShot(shot *core.Event) core.PossessionStartType {
	if shot.Type == core.FreeThrow {
		return core.OffMissFT
	}
	if shot.IsBlocked {
		if shot.ShotValue == 3 {
			return core.OffBlock3
		}
		return core.OffBlock2
	}
	if shot.ShotValue == 3 {
		return core.OffMiss3
	}
	return core.OffMiss2
}

func opponentOf(team core.TeamID, p *core.Possession) core.TeamID {
	for _, e := range p.Events {
		if e.TeamID != 0 && e.TeamID != team {
			return e.TeamID
		}
	}
	return team
}
