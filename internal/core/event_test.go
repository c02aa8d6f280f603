package core

import "testing"

func TestEventTypeString(t *testing.T) {
	cases := map[EventType]string{
		FieldGoal:     "FieldGoal",
		Rebound:       "Rebound",
		Substitution:  "Substitution",
		StartOfPeriod: "StartOfPeriod",
		EventType(99): "Unknown",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Errorf("EventType(%d).String() = %q, want %q", in, got, want)
		}
	}
}

func TestIsRealRebound(t *testing.T) {
	real := &Event{Type: Rebound, Player1ID: 7}
	if !real.IsRealRebound() {
		t.Error("expected rebound with a player to be real")
	}

	placeholder := &Event{Type: Rebound, EventActionType: 1, Player1ID: 0}
	if placeholder.IsRealRebound() {
		t.Error("expected placeholder rebound (no player, nonzero action type) to be unreal")
	}

	notARebound := &Event{Type: Turnover}
	if notARebound.IsRealRebound() {
		t.Error("non-rebound event must never be a real rebound")
	}
}

func TestIsOffensiveRebound(t *testing.T) {
	shot := &Event{Type: FieldGoalMissed, TeamID: 100}
	rebound := &Event{Type: Rebound, TeamID: 100, Player1ID: 7}
	rebound.SetMissedShot(shot)

	if !rebound.IsOffensiveRebound() {
		t.Error("expected same-team rebound to be offensive")
	}

	defRebound := &Event{Type: Rebound, TeamID: 200, Player1ID: 9}
	defRebound.SetMissedShot(shot)
	if defRebound.IsOffensiveRebound() {
		t.Error("expected other-team rebound to not be offensive")
	}
}

func TestIsMade(t *testing.T) {
	made := &Event{Type: FieldGoal}
	if !made.IsMade() {
		t.Error("FieldGoal must always report made")
	}

	missed := &Event{Type: FieldGoalMissed}
	if missed.IsMade() {
		t.Error("FieldGoalMissed must never report made")
	}

	ft := &Event{Type: FreeThrow}
	if ft.IsMade() {
		t.Error("FreeThrow defaults to not made until SetFTMade runs")
	}
	ft.SetFTMade(true)
	if !ft.IsMade() {
		t.Error("FreeThrow must report made after SetFTMade(true)")
	}
}

func TestIsShotClockViolation(t *testing.T) {
	tov := &Event{Type: Turnover, TurnoverType: "shotclock"}
	if !tov.IsShotClockViolation() {
		t.Error("expected shotclock turnover to be detected")
	}

	other := &Event{Type: Turnover, TurnoverType: "badpass"}
	if other.IsShotClockViolation() {
		t.Error("badpass turnover must not be a shot-clock violation")
	}
}

func TestIsDefensiveFoul(t *testing.T) {
	foul := &Event{Type: Foul, TeamID: 200}
	if !foul.IsDefensiveFoul(100) {
		t.Error("foul by team 200 against offense 100 must be defensive")
	}
	if foul.IsDefensiveFoul(200) {
		t.Error("foul by the offensive team itself must not be defensive")
	}
}

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewNotFoundError("game", "xyz"), IsNotFound},
		{"malformed row", NewMalformedRowError("0022300001", "missing clock"), IsMalformedRow},
		{"event order", NewEventOrderError("0022300001", 12, "out of sequence"), IsEventOrderError},
		{"invalid starters", NewInvalidNumberOfStartersError("0022300001", 1), IsInvalidNumberOfStarters},
		{"lineup invariant", NewLineupInvariantError("0022300001", 100, 50, 4), IsLineupInvariant},
		{"event stats computation", NewEventStatsComputationError("0022300001", 9, "unknown stat key"), IsEventStatsComputation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(tc.err) {
				t.Errorf("expected predicate to recognize its own error: %v", tc.err)
			}
			if tc.check(nil) {
				t.Error("predicate must return false for nil")
			}
		})
	}
}
