package aggregate

import (
	"testing"

	"nbapbp.dev/enginepbp/internal/core"
)

func TestGroupRecordsSumsByPlayerAndStatKey(t *testing.T) {
	records := []core.StatRecord{
		{PlayerID: 1, TeamID: 100, StatKey: core.StatFGM, StatValue: 1},
		{PlayerID: 1, TeamID: 100, StatKey: core.StatFGA, StatValue: 1},
		{PlayerID: 1, TeamID: 100, StatKey: core.StatFGM, StatValue: 1},
		{PlayerID: 2, TeamID: 100, StatKey: core.StatFGM, StatValue: 1},
	}

	rows := GroupRecords(records, []Key{ByPlayer, ByStatKey})

	var player1FGM, player2FGM float64
	for _, r := range rows {
		if r.Fields[ByPlayer] == "1" && r.Fields[ByStatKey] == core.StatFGM {
			player1FGM = r.StatValue
		}
		if r.Fields[ByPlayer] == "2" && r.Fields[ByStatKey] == core.StatFGM {
			player2FGM = r.StatValue
		}
	}
	if player1FGM != 2 {
		t.Errorf("expected player 1's fgm to sum to 2, got %v", player1FGM)
	}
	if player2FGM != 1 {
		t.Errorf("expected player 2's fgm to sum to 1, got %v", player2FGM)
	}
}

func TestGroupRecordsAppliesDivideByFiveForTeamRollupWithoutPlayer(t *testing.T) {
	records := []core.StatRecord{
		{PlayerID: 1, TeamID: 100, StatKey: core.StatSecondsPlayed, StatValue: 24},
		{PlayerID: 2, TeamID: 100, StatKey: core.StatSecondsPlayed, StatValue: 24},
	}

	rows := GroupRecords(records, []Key{ByTeam, ByStatKey})
	if len(rows) != 1 {
		t.Fatalf("expected one team/statkey row, got %d", len(rows))
	}
	if got, want := rows[0].StatValue, 48.0/5; got != want {
		t.Errorf("expected team rollup of seconds_played to be divided by 5, got %v want %v", got, want)
	}
}

func TestGroupRecordsDoesNotDivideWhenGroupedByPlayer(t *testing.T) {
	records := []core.StatRecord{
		{PlayerID: 1, TeamID: 100, StatKey: core.StatSecondsPlayed, StatValue: 24},
	}

	rows := GroupRecords(records, []Key{ByPlayer, ByTeam, ByStatKey})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].StatValue != 24 {
		t.Errorf("expected per-player rollup to not divide by 5, got %v", rows[0].StatValue)
	}
}

func TestAggregateOverRawEvents(t *testing.T) {
	made := &core.Event{GameID: "g1", Type: core.FieldGoal, TeamID: 100, Player1ID: 1, ShotValue: 2}
	placeholder := &core.Event{GameID: "g1", Type: core.Rebound, TeamID: 100, Player1ID: 0, EventActionType: 1}

	rows := Aggregate([]*core.Event{made, placeholder}, []Key{ByPlayer, ByStatKey}, nil)

	found := false
	for _, r := range rows {
		if r.Fields[ByStatKey] == core.StatFGM {
			found = true
		}
	}
	if !found {
		t.Error("expected the made field goal's stats to be aggregated")
	}
	for _, r := range rows {
		if r.Fields[ByStatKey] == core.StatDREB || r.Fields[ByStatKey] == core.StatOREB {
			t.Error("expected the placeholder (no player, nonzero action type) rebound to contribute no rebound stat")
		}
	}
}
