package starters

import (
	"testing"

	"nbapbp.dev/enginepbp/internal/core"
)

func fivePlayers(base core.PlayerID) []core.PlayerID {
	return []core.PlayerID{base, base + 1, base + 2, base + 3, base + 4}
}

func TestResolveInfersFromPBPWhenFiveDistinctPlayersAppear(t *testing.T) {
	var events []*core.Event
	for _, pid := range fivePlayers(1) {
		events = append(events, &core.Event{Type: core.FieldGoal, TeamID: 100, Player1ID: pid})
	}

	got, err := Resolve("g1", 1, events, nil, nil, true)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(got[100]) != 5 {
		t.Fatalf("expected 5 starters inferred for team 100, got %d", len(got[100]))
	}
}

func TestResolveFallsBackToBoxscoreInPeriodOne(t *testing.T) {
	// only 2 distinct players appear in play-by-play, so inference alone
	// cannot land on 5; the boxscore must supply the period 1 starters.
	events := []*core.Event{
		{Type: core.FieldGoal, TeamID: 100, Player1ID: 1},
		{Type: core.FieldGoal, TeamID: 100, Player1ID: 2},
	}
	box := []BoxscorePlayer{
		{TeamID: 100, PlayerID: 1, StartPosition: "G"},
		{TeamID: 100, PlayerID: 2, StartPosition: "G"},
		{TeamID: 100, PlayerID: 3, StartPosition: "F"},
		{TeamID: 100, PlayerID: 4, StartPosition: "F"},
		{TeamID: 100, PlayerID: 5, StartPosition: "C"},
	}

	got, err := Resolve("g1", 1, events, box, nil, true)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(got[100]) != 5 {
		t.Fatalf("expected boxscore fallback to supply 5 starters, got %d", len(got[100]))
	}
}

func TestResolveCarriesOverFromPriorPeriodEnding(t *testing.T) {
	events := []*core.Event{
		{Type: core.FieldGoal, TeamID: 100, Player1ID: 1},
	}
	prior := map[core.TeamID][]core.PlayerID{
		100: fivePlayers(1),
	}

	got, err := Resolve("g1", 2, events, nil, prior, true)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(got[100]) != 5 {
		t.Fatalf("expected prior-period carryover to supply 5 starters, got %d", len(got[100]))
	}
}

func TestResolveStrictModeErrorsWhenNoStrategyLandsOnFive(t *testing.T) {
	events := []*core.Event{
		{Type: core.FieldGoal, TeamID: 100, Player1ID: 1},
	}

	_, err := Resolve("g1", 2, events, nil, nil, true)
	if err == nil {
		t.Fatal("expected strict mode to error when no strategy resolves 5 starters")
	}
	if !core.IsInvalidNumberOfStarters(err) {
		t.Errorf("expected InvalidNumberOfStartersError, got %v", err)
	}
}

func TestResolveNonStrictModeReturnsPartialResult(t *testing.T) {
	events := []*core.Event{
		{Type: core.FieldGoal, TeamID: 100, Player1ID: 1},
	}

	got, err := Resolve("g1", 2, events, nil, nil, false)
	if err != nil {
		t.Fatalf("expected non-strict mode to accept a partial result, got error: %v", err)
	}
	if len(got[100]) != 1 {
		t.Errorf("expected partial result to carry the one inferred player, got %d", len(got[100]))
	}
}

func TestInferFromPBPTreatsSubstitutionOutAsStarterEvidence(t *testing.T) {
	events := []*core.Event{
		{Type: core.Substitution, TeamID: 100, SubOutPlayerID: 9, SubInPlayerID: 20},
	}
	got := inferFromPBP(events)
	if len(got[100]) != 1 || got[100][0] != 9 {
		t.Errorf("expected the substituted-out player to be recorded as a starter, got %v", got[100])
	}
}
