package repair

import (
	"testing"

	"nbapbp.dev/enginepbp/internal/core"
)

const gid core.GameID = "0022300001"

func TestProbeAcceptsValidSequence(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.FieldGoalMissed, Period: 1, TeamID: 100},
		{GameID: gid, EventNum: 2, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}
	if violation := probe(gid, events); violation != nil {
		t.Errorf("expected valid sequence to pass probe, got %v", violation)
	}
}

func TestProbeRejectsReboundWithoutValidPredecessor(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.Substitution, Period: 1},
		{GameID: gid, EventNum: 2, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}
	if violation := probe(gid, events); violation == nil {
		t.Error("expected rebound with no valid predecessor to violate the invariant")
	}
}

func TestProbeAcceptsJumpBallPrecededByMissedShot(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.FieldGoalMissed, Period: 1, TeamID: 100},
		{GameID: gid, EventNum: 2, Type: core.JumpBall, Period: 1},
		{GameID: gid, EventNum: 3, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}
	if violation := probe(gid, events); violation != nil {
		t.Errorf("expected a rebound after a jump ball that followed a missed shot to pass probe, got %v", violation)
	}
}

func TestProbeRejectsJumpBallNotPrecededByMissedShot(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.Foul, Period: 1, TeamID: 100},
		{GameID: gid, EventNum: 2, Type: core.JumpBall, Period: 1},
		{GameID: gid, EventNum: 3, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}
	if violation := probe(gid, events); violation == nil {
		t.Error("expected a rebound after a jump ball with no preceding missed shot to violate the invariant")
	}
}

func TestProbeRejectsReboundAfterStartOfPeriod(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.StartOfPeriod, Period: 1},
		{GameID: gid, EventNum: 2, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}
	if violation := probe(gid, events); violation == nil {
		t.Error("expected a rebound directly after start-of-period to violate the invariant")
	}
}

func TestRepairMovesFreeThrowPastInterveningSubstitution(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.FreeThrow, Period: 1, TeamID: 100, IsTerminalFT: true},
		{GameID: gid, EventNum: 2, Type: core.Substitution, Period: 1},
		{GameID: gid, EventNum: 3, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}

	fixed, err := Repair(gid, events, Options{})
	if err != nil {
		t.Fatalf("Repair returned error: %v", err)
	}
	if fixed[len(fixed)-2].Type != core.FreeThrow {
		t.Fatalf("expected free throw moved to sit directly before the rebound, got sequence %+v", fixed)
	}
	if probe(gid, fixed) != nil {
		t.Error("expected repaired sequence to pass probe")
	}
}

func TestRepairDeletesDuplicateAdjacentPlaceholderRebound(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.FieldGoalMissed, Period: 1, TeamID: 100},
		{GameID: gid, EventNum: 2, Type: core.Rebound, Period: 1, TeamID: 100, Player1ID: 0, EventActionType: 1},
		{GameID: gid, EventNum: 3, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}

	fixed, err := Repair(gid, events, Options{})
	if err != nil {
		t.Fatalf("Repair returned error: %v", err)
	}
	if len(fixed) != 2 {
		t.Fatalf("expected the placeholder rebound to be deleted, got %d events", len(fixed))
	}
	if fixed[1].Type != core.Rebound || fixed[1].Player1ID != 9 {
		t.Errorf("expected surviving rebound to be the player rebound, got %+v", fixed[1])
	}
}

func TestRepairRecordsLogEntries(t *testing.T) {
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.FreeThrow, Period: 1, TeamID: 100, IsTerminalFT: true},
		{GameID: gid, EventNum: 2, Type: core.Substitution, Period: 1},
		{GameID: gid, EventNum: 3, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9},
	}

	var sink []LogEntry
	_, err := Repair(gid, events, Options{Sink: &sink})
	if err != nil {
		t.Fatalf("Repair returned error: %v", err)
	}
	if len(sink) == 0 {
		t.Error("expected at least one repair-log entry")
	}
}

func TestResolveMissedShotsMemoizesPredecessor(t *testing.T) {
	miss := &core.Event{GameID: gid, EventNum: 1, Type: core.FieldGoalMissed, Period: 1, TeamID: 100}
	rebound := &core.Event{GameID: gid, EventNum: 2, Type: core.Rebound, Period: 1, TeamID: 200, Player1ID: 9}
	events := []*core.Event{miss, rebound}

	ResolveMissedShots(events)

	shot, ok := rebound.MissedShot()
	if !ok || shot != miss {
		t.Errorf("expected rebound's missed shot to resolve to the preceding miss, got %+v, %v", shot, ok)
	}
}

func TestOrphanDeleteFallsBackWhenNoPatternApplies(t *testing.T) {
	// A lone team rebound (no player credited, action type 0, so the probe
	// checks it) with no valid predecessor and no pattern match within its
	// window; it is the only team/placeholder rebound in range and gets
	// dropped by the orphan-delete last resort.
	events := []*core.Event{
		{GameID: gid, EventNum: 1, Type: core.Timeout, Period: 1},
		{GameID: gid, EventNum: 2, Type: core.Rebound, Period: 1, TeamID: 100, Player1ID: 0},
		{GameID: gid, EventNum: 3, Type: core.Turnover, Period: 1, TeamID: 200},
	}

	fixed, err := Repair(gid, events, Options{})
	if err != nil {
		t.Fatalf("Repair returned error: %v", err)
	}
	if probe(gid, fixed) != nil {
		t.Error("expected orphan deletion to leave a valid sequence")
	}
}
