package normalize

import (
	"testing"

	"nbapbp.dev/enginepbp/internal/core"
)

func samplePrenormalizedRows() []RawRow {
	return []RawRow{
		{"event_num": 1, "period": 1, "clock": "12:00", "event_type": 12, "team_id": 0},
		{"event_num": 2, "period": 1, "clock": "11:40", "event_type": 1, "team_id": 100, "player1_id": 1, "shot_value": 2, "shot_type": "jumpshot"},
		{"event_num": 3, "period": 1, "clock": "11:10", "event_type": 2, "team_id": 200, "player1_id": 6, "shot_value": 2, "shot_type": "layup"},
		{"event_num": 4, "period": 1, "clock": "11:08", "event_type": 4, "team_id": 100, "player1_id": 2},
		{"event_num": 5, "period": 1, "clock": "0:00", "event_type": 13, "team_id": 0},
	}
}

func TestNormalizePrenormalizedRows(t *testing.T) {
	events, err := Normalize("0022300001", samplePrenormalizedRows(), Options{League: core.NBA, SeasonYear: 2023})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}

	if events[0].Type != core.StartOfPeriod {
		t.Errorf("expected first event to be StartOfPeriod, got %v", events[0].Type)
	}
	if events[len(events)-1].Type != core.EndOfPeriod {
		t.Errorf("expected last event to be EndOfPeriod, got %v", events[len(events)-1].Type)
	}

	made := events[1]
	if made.Type != core.FieldGoal || made.ShotValue != 2 || made.Player1ID != 1 {
		t.Errorf("unexpected made-shot event: %+v", made)
	}

	for i, e := range events {
		if e.Order != i {
			t.Errorf("event at index %d has Order %d, want %d", i, e.Order, i)
		}
	}
}

func TestNormalizeIsOrderedByEventNum(t *testing.T) {
	// feed rows out of order; Normalize must still sort by event_num.
	rows := []RawRow{
		{"event_num": 3, "period": 1, "clock": "11:10", "event_type": 2, "team_id": 200, "player1_id": 6},
		{"event_num": 1, "period": 1, "clock": "12:00", "event_type": 12, "team_id": 0},
		{"event_num": 2, "period": 1, "clock": "11:40", "event_type": 1, "team_id": 100, "player1_id": 1, "shot_value": 2},
	}

	events, err := Normalize("0022300001", rows, Options{League: core.NBA, SeasonYear: 2023})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if events[0].Type != core.StartOfPeriod {
		t.Fatalf("expected StartOfPeriod first after sort, got %v", events[0].Type)
	}
	if events[1].Type != core.FieldGoal {
		t.Fatalf("expected FieldGoal second after sort, got %v", events[1].Type)
	}
	if events[2].Type != core.FieldGoalMissed {
		t.Fatalf("expected FieldGoalMissed third after sort, got %v", events[2].Type)
	}
}
