package core

// EventType is the small integer tag identifying an event's kind, matching
// the upstream stats.nba.com EVENTMSGTYPE vocabulary.
type EventType int

const (
	FieldGoal       EventType = 1
	FieldGoalMissed EventType = 2
	FreeThrow       EventType = 3
	Rebound         EventType = 4
	Turnover        EventType = 5
	Foul            EventType = 6
	Violation       EventType = 7
	Substitution    EventType = 8
	Timeout         EventType = 9
	JumpBall        EventType = 10
	Ejection        EventType = 11
	StartOfPeriod   EventType = 12
	EndOfPeriod     EventType = 13
	Replay          EventType = 18
	Stoppage        EventType = 20
)

// String renders the human name of an event type, used in error messages
// and repair-log reasons.
func (t EventType) String() string {
	switch t {
	case FieldGoal:
		return "FieldGoal"
	case FieldGoalMissed:
		return "FieldGoalMissed"
	case FreeThrow:
		return "FreeThrow"
	case Rebound:
		return "Rebound"
	case Turnover:
		return "Turnover"
	case Foul:
		return "Foul"
	case Violation:
		return "Violation"
	case Substitution:
		return "Substitution"
	case Timeout:
		return "Timeout"
	case JumpBall:
		return "JumpBall"
	case Ejection:
		return "Ejection"
	case StartOfPeriod:
		return "StartOfPeriod"
	case EndOfPeriod:
		return "EndOfPeriod"
	case Replay:
		return "Replay"
	case Stoppage:
		return "Stoppage"
	default:
		return "Unknown"
	}
}

// Event is a tagged-variant record: one struct shared by every kind, with
// behavior dispatched on Type rather than through an interface hierarchy.
// Subtype-specific fields are populated only for the kinds that use them;
// zero values elsewhere are never read.
type Event struct {
	GameID          GameID
	EventNum        int
	Order           int
	Type            EventType
	EventActionType int
	Period          int
	Clock           string
	SecondsRemaining float64
	Description     string
	TeamID          TeamID
	Player1ID       PlayerID
	Player2ID       PlayerID
	Player3ID       PlayerID

	// Subtype attributes, populated by the normalizer from the five
	// mapping tables (§4.1).
	ShotType     string // jumpshot|layup|dunk|hook|tipin, FieldGoal only
	ShotValue    int    // 2 or 3, FieldGoal only
	FTTripIndex  int    // 1-of-1=10 style action-type code, FreeThrow only
	IsTerminalFT bool
	IsTechnicalFT bool
	IsFlagrantFT  bool
	TurnoverType  string
	StealPlayerID PlayerID // Player2ID duplicate, named for clarity
	FoulType      string
	FoulDrawnBy   PlayerID // Player2ID duplicate
	ViolationType string
	SubOutPlayerID PlayerID
	SubInPlayerID  PlayerID
	IsBlocked      bool
	BlockPlayerID  PlayerID

	// Mutable enrichments attached by C3-C7. PreviousEvent/NextEvent are
	// weak references into the single owning slice held by the engine
	// run; never separately allocated or freed.
	PreviousEvent *Event
	NextEvent     *Event

	Score                          map[TeamID]int
	FoulsToGive                    map[TeamID]int
	PlayerGameFouls                map[PlayerID]int
	CurrentPlayers                 map[TeamID][]PlayerID
	ShotClock                      float64
	PossessionChangingOverride     bool
	NonPossessionChangingOverride  bool

	// Memoized derived data, resolved once during enrichment/repair and
	// read thereafter rather than recomputed (§9 Design Notes).
	missedShot      *Event
	missedShotValid bool
	ftMade          bool
	isAndOne        bool
}

// IsRealRebound reports whether a Rebound event is a real rebound rather
// than a placeholder row. A placeholder has no player credited
// (Player1ID 0) and a nonzero EventActionType; a Rebound with no player
// and action type 0 counts as real.
func (e *Event) IsRealRebound() bool {
	if e.Type != Rebound {
		return false
	}
	return !e.isPlaceholderRebound()
}

func (e *Event) isPlaceholderRebound() bool {
	return e.EventActionType != 0 && e.Player1ID == 0
}

// SetMissedShot memoizes the resolved missed-shot back-reference for a
// Rebound event (C3's invariant probe / C4's enrichment sweep).
func (e *Event) SetMissedShot(shot *Event) {
	e.missedShot = shot
	e.missedShotValid = true
}

// MissedShot returns the memoized missed-shot back-reference and whether
// it has been resolved yet.
func (e *Event) MissedShot() (*Event, bool) {
	return e.missedShot, e.missedShotValid
}

// IsOffensiveRebound reports whether a real Rebound was grabbed by the
// missed shot's own team.
func (e *Event) IsOffensiveRebound() bool {
	if !e.IsRealRebound() {
		return false
	}
	shot, ok := e.MissedShot()
	if !ok || shot == nil {
		return false
	}
	return e.TeamID == shot.TeamID
}

// IsMade reports whether a FieldGoal or FreeThrow event represents a made
// shot. FieldGoal vs FieldGoalMissed is determined at normalization time
// by the upstream shotResult/EVENTMSGTYPE; FreeThrow's "is_made" can be
// ambiguous and is resolved by C4 (see the enrich package's free-throw
// inference, grounded on
// resources/enhanced_pbp/stats_nba/free_throw.py's is_made property).
func (e *Event) IsMade() bool {
	switch e.Type {
	case FieldGoal:
		return true
	case FieldGoalMissed:
		return false
	case FreeThrow:
		return e.ftMade
	default:
		return false
	}
}

// ftMade is set by the enrichment pass for FreeThrow events only.
func (e *Event) SetFTMade(made bool) { e.ftMade = made }

// IsShotClockViolation reports whether a Turnover event is a shot-clock
// violation (subtype "shotclock" in the original TOV_MAP, action code 9).
func (e *Event) IsShotClockViolation() bool {
	return e.Type == Turnover && e.TurnoverType == "shotclock"
}

// IsDefensiveFoul reports whether a Foul was committed by the team NOT on
// offense at the time (i.e. against the current ball-handler's team).
// The offense team is passed in by the caller, since a Foul carries the
// fouling team's id in TeamID.
func (e *Event) IsDefensiveFoul(offenseTeamID TeamID) bool {
	return e.Type == Foul && e.TeamID != 0 && e.TeamID != offenseTeamID
}
