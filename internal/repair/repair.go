// Package repair implements C3: detecting and fixing known event-ordering
// defects (rebound/shot/FT/sub ordering) in the normalized event stream,
// with an optional Ordering Oracle and a bounded, idempotent retry loop.
package repair

import (
	"sort"

	"github.com/charmbracelet/log"
	"nbapbp.dev/enginepbp/internal/core"
)

// OrderingOracle maps a game id to a canonical event_num -> rank mapping,
// treated as an opaque external dependency so the core stays offline-
// capable and testable (§9 "Oracle injection").
type OrderingOracle func(gameID core.GameID) (map[int]int, error)

// LogEntry is one append-only repair-log record (§9 "Repair-log sink").
// It never affects control flow.
type LogEntry struct {
	GameID   core.GameID
	EventNum int
	Reason   string
}

// Options configures a Repair run.
type Options struct {
	MaxRetries int // default 6 single-game, 20 offline bulk (§4.2)
	Strict     bool
	Oracle     OrderingOracle
	Logger     *log.Logger
	Sink       *[]LogEntry
}

// DefaultMaxRetriesSingleGame and DefaultMaxRetriesOfflineBulk are the
// two MAX_RETRIES presets named in §4.2.
const (
	DefaultMaxRetriesSingleGame  = 6
	DefaultMaxRetriesOfflineBulk = 20
)

func (o *Options) log(gameID core.GameID, eventNum int, reason string) {
	if o.Sink != nil {
		*o.Sink = append(*o.Sink, LogEntry{GameID: gameID, EventNum: eventNum, Reason: reason})
	}
	if o.Logger != nil {
		o.Logger.Warnf("repair: game=%s event_num=%d reason=%s", gameID, eventNum, reason)
	}
}

// Repair runs C3 to completion: repeatedly probe the invariant, apply the
// first matching pattern strategy, and retry, up to MaxRetries. If no
// pattern applies it falls back to the Ordering Oracle, then to
// last-resort orphan-rebound deletion.
func Repair(gameID core.GameID, events []*core.Event, opts Options) ([]*core.Event, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetriesSingleGame
	}

	current := events
	for attempt := 0; attempt <= maxRetries; attempt++ {
		violation := probe(gameID, current)
		if violation == nil {
			return current, nil
		}

		fixed, ok := applyPatterns(current, violation.EventNum, &opts)
		if ok {
			current = fixed
			continue
		}

		if opts.Oracle != nil {
			order, err := opts.Oracle(gameID)
			if err == nil {
				reordered := reorderByOracle(current, order)
				if probe(gameID, reordered) == nil {
					return reordered, nil
				}
				current = reordered
				continue
			}
		}

		fixed, ok = orphanDelete(current, violation.EventNum, opts.Strict, &opts, gameID)
		if ok {
			current = fixed
			continue
		}

		return nil, violation
	}

	if violation := probe(gameID, current); violation != nil {
		return nil, violation
	}
	return current, nil
}

// probe checks the Rebound-predecessor invariant (§3) across the whole
// event sequence and returns the first violation found, or nil. A
// violation carries the rebound's own event_num, except when the
// predecessor is a free throw separated from the rebound by
// subs/timeouts: then it carries the event_num of the row directly
// before the rebound, where pattern 1 starts its walk back to the FT.
func probe(gameID core.GameID, events []*core.Event) *core.EventOrderError {
	for i, e := range events {
		if e.Type != core.Rebound || !e.IsRealRebound() {
			continue
		}
		predIdx := precedingNonNeutralIndex(events, i)
		if predIdx < 0 || !isValidReboundPredecessor(events, predIdx) {
			err := core.NewEventOrderError(gameID, e.EventNum, "rebound predecessor invariant violated")
			return err.(*core.EventOrderError)
		}
		if predIdx != i-1 && events[predIdx].Type == core.FreeThrow {
			err := core.NewEventOrderError(gameID, events[i-1].EventNum, "free throw separated from its rebound by subs/timeouts")
			return err.(*core.EventOrderError)
		}
	}
	return nil
}

// precedingNonNeutral walks backward from index i, skipping Substitution
// and Timeout rows (possession-neutral), returning the first other event.
func precedingNonNeutral(events []*core.Event, i int) *core.Event {
	j := precedingNonNeutralIndex(events, i)
	if j < 0 {
		return nil
	}
	return events[j]
}

// precedingNonNeutralIndex is precedingNonNeutral, returning the index
// instead of the event so callers can keep walking further back.
func precedingNonNeutralIndex(events []*core.Event, i int) int {
	for j := i - 1; j >= 0; j-- {
		t := events[j].Type
		if t == core.Substitution || t == core.Timeout {
			continue
		}
		return j
	}
	return -1
}

// isValidReboundPredecessor checks the event at idx against the rebound
// predecessor invariant (§3). A JumpBall is only valid when the event
// further back (past subs/timeouts) is itself a missed shot, matching
// the original's missed_shot property: a jump ball that didn't follow a
// missed attempt can't be what a rebound is rebounding off of.
func isValidReboundPredecessor(events []*core.Event, idx int) bool {
	e := events[idx]
	switch e.Type {
	case core.FieldGoalMissed:
		return true
	case core.FreeThrow:
		return e.IsTerminalFT && !e.IsMade()
	case core.Turnover:
		return e.IsShotClockViolation()
	case core.JumpBall:
		further := precedingNonNeutralIndex(events, idx)
		if further < 0 {
			return false
		}
		fe := events[further]
		switch fe.Type {
		case core.FieldGoalMissed:
			return true
		case core.FreeThrow:
			return fe.IsTerminalFT && !fe.IsMade()
		default:
			return false
		}
	default:
		return false
	}
}

// ResolveMissedShots walks the fully repaired event sequence once and
// memoizes each real Rebound's missed-shot back-reference, so later
// passes (C4 scoring, C7 shot clock, C9 oreb/dreb stats) read a stable
// value instead of recomputing the adjacency walk (§9 "Derived data
// memoization").
func ResolveMissedShots(events []*core.Event) {
	for i, e := range events {
		if e.Type != core.Rebound || !e.IsRealRebound() {
			continue
		}
		if pred := precedingNonNeutral(events, i); pred != nil {
			e.SetMissedShot(pred)
		}
	}
}

func indexOfEventNum(events []*core.Event, eventNum int) int {
	for i, e := range events {
		if e.EventNum == eventNum {
			return i
		}
	}
	return -1
}

func isPlaceholderOrTeamRebound(e *core.Event) bool {
	return e.Type == core.Rebound && (e.Player1ID == 0 || int64(e.Player1ID) >= 1_610_000_000)
}

// applyPatterns tries the seven numbered strategies from §4.2 in order
// against the row whose event_num is offendingNum, returning the repaired
// slice and true on the first one that applies.
func applyPatterns(events []*core.Event, offendingNum int, opts *Options) ([]*core.Event, bool) {
	i := indexOfEventNum(events, offendingNum)
	if i < 0 {
		return events, false
	}

	if out, ok := patternSubBeforeFT(events, i, opts); ok {
		return out, true
	}
	if out, ok := patternReplayBeforeRebound(events, i, opts); ok {
		return out, true
	}
	if out, ok := patternSwappedShotRebound(events, i, opts); ok {
		return out, true
	}
	if out, ok := patternTripletFirstOutOfPlace(events, i, opts); ok {
		return out, true
	}
	if out, ok := patternTripletSecondOutOfPlace(events, i, opts); ok {
		return out, true
	}
	if out, ok := patternDuplicateAdjacentRebounds(events, i, opts); ok {
		return out, true
	}
	if out, ok := patternReboundStampedEarly(events, i, opts); ok {
		return out, true
	}
	return events, false
}

// pattern 1: substitution/timeout sits between the free throw and the
// rebound; walk backward past contiguous subs/timeouts to find the FT and
// move it to just before the offending rebound.
func patternSubBeforeFT(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	e := events[i]
	if e.Type != core.Substitution && e.Type != core.Timeout {
		return nil, false
	}
	j := i
	for j >= 0 && (events[j].Type == core.Substitution || events[j].Type == core.Timeout) {
		j--
	}
	if j < 0 || events[j].Type != core.FreeThrow {
		return nil, false
	}
	out := make([]*core.Event, 0, len(events))
	out = append(out, events[:j]...)
	out = append(out, events[j+1:i+1]...)
	out = append(out, events[j])
	out = append(out, events[i+1:]...)
	opts.log(e.GameID, e.EventNum, "moved free throw past intervening subs/timeouts")
	return out, true
}

// pattern 2: a Replay row immediately precedes the rebound; swap them.
func patternReplayBeforeRebound(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	if events[i].Type != core.Replay {
		return nil, false
	}
	if i+1 >= len(events) || events[i+1].Type != core.Rebound {
		return nil, false
	}
	out := swap(events, i, i+1)
	opts.log(events[i].GameID, events[i].EventNum, "swapped replay and rebound")
	return out, true
}

// pattern 3: the next row is a rebound whose event_num is exactly one
// less than the offending row's; swap the adjacent pair.
func patternSwappedShotRebound(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	if i+1 >= len(events) {
		return nil, false
	}
	next := events[i+1]
	if next.Type != core.Rebound || next.EventNum != events[i].EventNum-1 {
		return nil, false
	}
	out := swap(events, i, i+1)
	opts.log(events[i].GameID, events[i].EventNum, "swapped adjacent shot/rebound pair")
	return out, true
}

// pattern 4: triplet (shot, rebound, rebound) where the offending row is
// the first, misplaced rebound; move it ahead of the shot.
func patternTripletFirstOutOfPlace(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	if i-1 < 0 || i+1 >= len(events) {
		return nil, false
	}
	prev := events[i-1]
	next := events[i+1]
	if prev.Type != core.FieldGoalMissed || prev.EventNum != events[i].EventNum+1 {
		return nil, false
	}
	if next.Type != core.Rebound || next.EventNum != events[i].EventNum+2 {
		return nil, false
	}
	out := swap(events, i-1, i)
	opts.log(events[i].GameID, events[i].EventNum, "moved misplaced first rebound ahead of shot")
	return out, true
}

// pattern 5: triplet (shot, rebound, rebound) where the offending row's
// window reorders to first_rebound, shot, second_rebound.
func patternTripletSecondOutOfPlace(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	if i-1 < 0 || i+1 >= len(events) {
		return nil, false
	}
	prev := events[i-1]
	next := events[i+1]
	if prev.Type != core.FieldGoalMissed || prev.EventNum != events[i].EventNum-1 {
		return nil, false
	}
	if next.Type != core.Rebound || next.EventNum != events[i].EventNum-2 {
		return nil, false
	}
	out := make([]*core.Event, 0, len(events))
	out = append(out, events[:i-1]...)
	out = append(out, next, prev, events[i])
	out = append(out, events[i+2:]...)
	opts.log(events[i].GameID, events[i].EventNum, "reordered triplet to first_rebound, shot, second_rebound")
	return out, true
}

// pattern 6: two consecutive Rebound rows; delete the team/placeholder
// one, or the later one if both look like player rebounds.
func patternDuplicateAdjacentRebounds(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	if events[i].Type != core.Rebound {
		return nil, false
	}
	var other int
	if i+1 < len(events) && events[i+1].Type == core.Rebound {
		other = i + 1
	} else if i-1 >= 0 && events[i-1].Type == core.Rebound {
		other = i - 1
	} else {
		return nil, false
	}

	del := other
	if isPlaceholderOrTeamRebound(events[i]) {
		del = i
	} else if isPlaceholderOrTeamRebound(events[other]) {
		del = other
	} else if other < i {
		del = i
	}
	opts.log(events[del].GameID, events[del].EventNum, "deleted duplicate adjacent rebound")
	return deleteAt(events, del), true
}

// pattern 7: the rebound is stamped at the same clock as a later shot/FT;
// scan up to five rows forward in the same (period, clock) for a missed
// shot or FT and move the rebound to immediately after it.
func patternReboundStampedEarly(events []*core.Event, i int, opts *Options) ([]*core.Event, bool) {
	e := events[i]
	if e.Type != core.Rebound {
		return nil, false
	}
	limit := i + 5
	if limit >= len(events) {
		limit = len(events) - 1
	}
	for j := i + 1; j <= limit; j++ {
		cand := events[j]
		if cand.Period != e.Period || cand.Clock != e.Clock {
			continue
		}
		if cand.Type == core.FieldGoalMissed || (cand.Type == core.FreeThrow && !cand.IsMade()) {
			out := make([]*core.Event, 0, len(events))
			out = append(out, events[:i]...)
			out = append(out, events[i+1:j+1]...)
			out = append(out, e)
			out = append(out, events[j+1:]...)
			opts.log(e.GameID, e.EventNum, "moved rebound stamped early to after its shot/FT")
			return out, true
		}
	}
	return nil, false
}

func swap(events []*core.Event, i, j int) []*core.Event {
	out := make([]*core.Event, len(events))
	copy(out, events)
	out[i], out[j] = out[j], out[i]
	return out
}

func deleteAt(events []*core.Event, i int) []*core.Event {
	out := make([]*core.Event, 0, len(events)-1)
	out = append(out, events[:i]...)
	out = append(out, events[i+1:]...)
	return out
}

// reorderByOracle re-sorts events by the oracle's canonical rank, ties
// broken by event_num, matching offline/ordering.py's reorder_with_v3.
func reorderByOracle(events []*core.Event, order map[int]int) []*core.Event {
	out := make([]*core.Event, len(events))
	copy(out, events)
	maxIdx := len(order) + 1000
	rank := func(e *core.Event) int {
		if e.Type == core.StartOfPeriod && e.Period == 1 {
			return -1
		}
		if r, ok := order[e.EventNum]; ok {
			return r
		}
		return maxIdx
	}
	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := rank(out[a]), rank(out[b])
		if ra != rb {
			return ra < rb
		}
		return out[a].EventNum < out[b].EventNum
	})
	return out
}

// orphanDelete is the last-resort strategy: within the next ten rows of
// the same period, delete the earliest team/placeholder rebound. Under
// strict mode, a player rebound is never deleted — the caller re-raises
// instead.
func orphanDelete(events []*core.Event, offendingNum int, strict bool, opts *Options, gameID core.GameID) ([]*core.Event, bool) {
	i := indexOfEventNum(events, offendingNum)
	if i < 0 {
		return events, false
	}
	limit := i + 10
	if limit >= len(events) {
		limit = len(events) - 1
	}

	period := events[i].Period
	var placeholderIdx = -1
	var playerIdx = -1
	for j := i; j <= limit; j++ {
		if events[j].Type != core.Rebound || events[j].Period != period {
			continue
		}
		if isPlaceholderOrTeamRebound(events[j]) {
			placeholderIdx = j
			break
		}
		if playerIdx < 0 {
			playerIdx = j
		}
	}

	if placeholderIdx >= 0 {
		opts.log(gameID, events[placeholderIdx].EventNum, "orphan rebound deletion: team/placeholder rebound")
		return deleteAt(events, placeholderIdx), true
	}
	if playerIdx >= 0 && !strict {
		opts.log(gameID, events[playerIdx].EventNum, "orphan rebound deletion: player rebound (non-strict mode)")
		return deleteAt(events, playerIdx), true
	}
	return events, false
}
