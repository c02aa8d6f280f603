package engine

import (
	"testing"

	"nbapbp.dev/enginepbp/internal/aggregate"
	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/enrich"
	"nbapbp.dev/enginepbp/internal/normalize"
	"nbapbp.dev/enginepbp/internal/starters"
)

func miniGameRows() []normalize.RawRow {
	return []normalize.RawRow{
		{"event_num": 1, "period": 1, "clock": "12:00", "event_type": 12, "team_id": 0},
		{"event_num": 2, "period": 1, "clock": "11:40", "event_type": 1, "team_id": 100, "player1_id": 1, "shot_value": 2, "shot_type": "jumpshot", "description": "1 MAKES 2PT"},
		{"event_num": 3, "period": 1, "clock": "11:10", "event_type": 2, "team_id": 200, "player1_id": 6, "shot_value": 2, "shot_type": "layup", "description": "6 MISSES 2PT"},
		{"event_num": 4, "period": 1, "clock": "11:08", "event_type": 4, "team_id": 100, "player1_id": 2, "description": "1 REBOUND (Off:0 Def:1)"},
		{"event_num": 5, "period": 1, "clock": "10:40", "event_type": 5, "team_id": 100, "player1_id": 2, "turnover_type": "badpass", "description": "2 BAD PASS TURNOVER"},
		{"event_num": 6, "period": 1, "clock": "0:00", "event_type": 13, "team_id": 0},
	}
}

func miniGameBoxscore() []starters.BoxscorePlayer {
	var rows []starters.BoxscorePlayer
	for _, pid := range []core.PlayerID{1, 2, 3, 4, 5} {
		rows = append(rows, starters.BoxscorePlayer{TeamID: 100, PlayerID: pid, StartPosition: "G"})
		rows = append(rows, starters.BoxscorePlayer{TeamID: 200, PlayerID: pid + 5, StartPosition: "G"})
	}
	return rows
}

func TestRunProducesEventsAndPossessions(t *testing.T) {
	out, err := Run(Input{
		GameID:     "0022300001",
		Rows:       miniGameRows(),
		Boxscore:   miniGameBoxscore(),
		Overrides:  enrich.Overrides{},
		League:     core.NBA,
		SeasonYear: 2023,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(out.Events) != 6 {
		t.Fatalf("expected 6 canonical events, got %d", len(out.Events))
	}
	if len(out.Possessions) == 0 {
		t.Fatal("expected at least one possession")
	}

	for i := 1; i < len(out.Events); i++ {
		if out.Events[i].PreviousEvent != out.Events[i-1] {
			t.Errorf("event %d: PreviousEvent not linked to event %d", i, i-1)
		}
		if out.Events[i-1].NextEvent != out.Events[i] {
			t.Errorf("event %d: NextEvent not linked to event %d", i-1, i)
		}
	}

	rebound := out.Events[3]
	if rebound.Type != core.Rebound {
		t.Fatalf("expected event index 3 to be a rebound, got %v", rebound.Type)
	}
	shot, ok := rebound.MissedShot()
	if !ok || shot == nil {
		t.Fatal("expected rebound's missed shot to be resolved by enrichment")
	}
	if shot.Type != core.FieldGoalMissed {
		t.Errorf("rebound's resolved predecessor should be the missed shot, got %v", shot.Type)
	}
}

func TestAggregateOverRunOutput(t *testing.T) {
	out, err := Run(Input{
		GameID:     "0022300001",
		Rows:       miniGameRows(),
		Boxscore:   miniGameBoxscore(),
		League:     core.NBA,
		SeasonYear: 2023,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	rows := Aggregate(out, []aggregate.Key{aggregate.ByPlayer, aggregate.ByStatKey}, nil)
	if len(rows) == 0 {
		t.Fatal("expected at least one aggregated stat row")
	}

	foundMadeFG := false
	for _, r := range rows {
		if r.Fields[aggregate.ByPlayer] == "1" && r.Fields[aggregate.ByStatKey] == "fgm" {
			foundMadeFG = true
		}
	}
	if !foundMadeFG {
		t.Error("expected player 1's made field goal to be reflected in aggregated stats")
	}
}
