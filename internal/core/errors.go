package core

import "fmt"

// NotFoundError represents a resource that could not be found, used by the
// storage layer (internal/store) for possession/event/game lookups.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*NotFoundError)
	return ok
}

// MalformedRowError is raised by the normalizer when a raw row cannot be
// mapped into a canonical Event at all. It fails the whole game (§7).
type MalformedRowError struct {
	GameID GameID
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row in game %s: %s", e.GameID, e.Reason)
}

func NewMalformedRowError(gameID GameID, reason string) error {
	return &MalformedRowError{GameID: gameID, Reason: reason}
}

func IsMalformedRow(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*MalformedRowError)
	return ok
}

// EventOrderError is raised by C3's invariant probe when a Rebound's
// mandatory predecessor cannot be resolved. It carries the offending
// event_num so repair strategies can locate the row.
type EventOrderError struct {
	GameID   GameID
	EventNum int
	Reason   string
}

func (e *EventOrderError) Error() string {
	return fmt.Sprintf("event order error in game %s at event_num %d: %s", e.GameID, e.EventNum, e.Reason)
}

func NewEventOrderError(gameID GameID, eventNum int, reason string) error {
	return &EventOrderError{GameID: gameID, EventNum: eventNum, Reason: reason}
}

func IsEventOrderError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*EventOrderError)
	return ok
}

// InvalidNumberOfStartersError is raised by C5 when no fallback in the
// chain resolves exactly five starters per active team.
type InvalidNumberOfStartersError struct {
	GameID GameID
	Period int
}

func (e *InvalidNumberOfStartersError) Error() string {
	return fmt.Sprintf("invalid number of starters for game %s, period %d", e.GameID, e.Period)
}

func NewInvalidNumberOfStartersError(gameID GameID, period int) error {
	return &InvalidNumberOfStartersError{GameID: gameID, Period: period}
}

func IsInvalidNumberOfStarters(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*InvalidNumberOfStartersError)
	return ok
}

// LineupInvariantError is raised by C6 when a team's on-court set does not
// have exactly five distinct players after applying a substitution delta.
// Never recovered locally — it indicates upstream corruption or a failed
// repair pass.
type LineupInvariantError struct {
	GameID  GameID
	TeamID  TeamID
	AtEvent int
	Count   int
}

func (e *LineupInvariantError) Error() string {
	return fmt.Sprintf("lineup invariant violated for game %s team %d at event_num %d: have %d players, want 5",
		e.GameID, e.TeamID, e.AtEvent, e.Count)
}

func NewLineupInvariantError(gameID GameID, teamID TeamID, atEvent, count int) error {
	return &LineupInvariantError{GameID: gameID, TeamID: teamID, AtEvent: atEvent, Count: count}
}

func IsLineupInvariant(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*LineupInvariantError)
	return ok
}

// EventStatsComputationError is raised per-event by C9 when a single
// event's stat tuples cannot be computed. It is always recovered: the
// event is skipped with a warning and aggregation continues.
type EventStatsComputationError struct {
	GameID   GameID
	EventNum int
	Reason   string
}

func (e *EventStatsComputationError) Error() string {
	return fmt.Sprintf("event stats computation error in game %s at event_num %d: %s", e.GameID, e.EventNum, e.Reason)
}

func NewEventStatsComputationError(gameID GameID, eventNum int, reason string) error {
	return &EventStatsComputationError{GameID: gameID, EventNum: eventNum, Reason: reason}
}

func IsEventStatsComputation(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*EventStatsComputationError)
	return ok
}

// ErrOracleUnavailable is returned by an injected OrderingOracle (or
// treated as the default when none was configured) to signal that C3
// should fall back to strict pattern-based repair rather than oracle
// reordering.
var ErrOracleUnavailable = fmt.Errorf("ordering oracle unavailable")

func IsOracleUnavailable(err error) bool {
	return err == ErrOracleUnavailable
}
