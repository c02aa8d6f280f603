// Package engine orchestrates the full pipeline: Normalize -> Repair ->
// Enrich -> Starters -> Lineup -> ShotClock -> Possession -> Aggregate,
// implementing the external interface named in spec §6 and the bounded
// C3<->C5 retry/widen loop named in §2.
package engine

import (
	"github.com/charmbracelet/log"

	"nbapbp.dev/enginepbp/internal/aggregate"
	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/enrich"
	"nbapbp.dev/enginepbp/internal/lineup"
	"nbapbp.dev/enginepbp/internal/normalize"
	"nbapbp.dev/enginepbp/internal/possession"
	"nbapbp.dev/enginepbp/internal/repair"
	"nbapbp.dev/enginepbp/internal/shotclock"
	"nbapbp.dev/enginepbp/internal/starters"
)

// Input bundles everything the engine needs to process one game, matching
// the inputs enumerated in §6.
type Input struct {
	GameID     core.GameID
	Rows       []normalize.RawRow
	Boxscore   []starters.BoxscorePlayer
	Overrides  enrich.Overrides
	Oracle     repair.OrderingOracle
	League     core.League
	SeasonYear int
	Config     Config
}

// Config is the subset of process-wide configuration the engine consults
// directly (subtype overlays are applied by the caller before Tables is
// passed in here; see internal/config for the loader).
type Config struct {
	Tables             *normalize.Tables
	ReboundStrictMode  bool
	MaxRetries         int
	StartersStrictMode bool
	Logger             *log.Logger
}

// Output is the result of a successful run: the canonical events, the
// split possessions, and the repair-log sink accumulated along the way.
type Output struct {
	Events      []*core.Event
	Possessions []*core.Possession
	RepairLog   []repair.LogEntry
}

// Run executes the full pipeline for one game (§2, §6). Failures in the
// starters stage (C5) re-invoke the repair stage (C3) with a widened
// retry budget, up to one extra attempt, before surfacing the error.
func Run(in Input) (*Output, error) {
	tables := in.Config.Tables
	if tables == nil {
		tables = normalize.DefaultTables()
	}

	events, err := normalize.Normalize(in.GameID, in.Rows, normalize.Options{
		Tables:     tables,
		League:     in.League,
		SeasonYear: in.SeasonYear,
		Logger:     in.Config.Logger,
	})
	if err != nil {
		return nil, err
	}

	var repairLog []repair.LogEntry
	maxRetries := in.Config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = repair.DefaultMaxRetriesSingleGame
	}

	out, err := runFromRepair(in, events, maxRetries, &repairLog)
	if err != nil && maxRetries < repair.DefaultMaxRetriesOfflineBulk {
		out, err = runFromRepair(in, events, repair.DefaultMaxRetriesOfflineBulk, &repairLog)
	}
	if err != nil {
		return nil, err
	}

	return &Output{
		Events:      out.events,
		Possessions: out.possessions,
		RepairLog:   repairLog,
	}, nil
}

type stageResult struct {
	events      []*core.Event
	possessions []*core.Possession
}

func runFromRepair(in Input, events []*core.Event, maxRetries int, repairLog *[]repair.LogEntry) (*stageResult, error) {
	repaired, err := repair.Repair(in.GameID, events, repair.Options{
		MaxRetries: maxRetries,
		Strict:     in.Config.ReboundStrictMode,
		Oracle:     in.Oracle,
		Logger:     in.Config.Logger,
		Sink:       repairLog,
	})
	if err != nil {
		return nil, err
	}
	repair.ResolveMissedShots(repaired)

	result := enrich.Enrich(repaired, in.Overrides)

	startersByIndex := map[int]map[core.TeamID][]core.PlayerID{}
	var priorEnding map[core.TeamID][]core.PlayerID

	periods := splitByPeriodStart(result.Events, result.StartOfPeriodIndex)
	for _, pr := range periods {
		resolved, err := starters.Resolve(in.GameID, pr.period, pr.events, in.Boxscore, priorEnding, in.Config.StartersStrictMode)
		if err != nil {
			return nil, err
		}
		startersByIndex[pr.startIdx] = resolved
		priorEnding = endingLineup(resolved, pr.events)
	}

	if err := lineup.Track(in.GameID, result.Events, startersByIndex); err != nil {
		return nil, err
	}

	shotclock.Annotate(result.Events, in.League, in.SeasonYear)

	possessions := possession.Split(in.GameID, result.Events)

	return &stageResult{events: result.Events, possessions: possessions}, nil
}

type periodRange struct {
	period   int
	startIdx int
	events   []*core.Event
}

// splitByPeriodStart groups events into per-period slices keyed by each
// StartOfPeriod marker's index, for feeding C5 and for tracking the
// ending lineup carried into the next period (§4.4 step 3).
func splitByPeriodStart(events []*core.Event, startIdx []int) []periodRange {
	var out []periodRange
	for i, idx := range startIdx {
		end := len(events)
		if i+1 < len(startIdx) {
			end = startIdx[i+1]
		}
		out = append(out, periodRange{
			period:   events[idx].Period,
			startIdx: idx,
			events:   events[idx:end],
		})
	}
	return out
}

func endingLineup(resolved map[core.TeamID][]core.PlayerID, periodEvents []*core.Event) map[core.TeamID][]core.PlayerID {
	current := map[core.TeamID][]core.PlayerID{}
	for team, players := range resolved {
		current[team] = append([]core.PlayerID{}, players...)
	}
	for _, e := range periodEvents {
		if e.Type == core.Substitution && e.TeamID != 0 {
			players := current[e.TeamID]
			for i, p := range players {
				if p == e.SubOutPlayerID {
					players[i] = e.SubInPlayerID
					break
				}
			}
			current[e.TeamID] = players
		}
	}
	return current
}

// Aggregate exposes C9 as a post-run callable over the engine's output,
// matching the "aggregation callables" output named in §6.
func Aggregate(out *Output, keys []aggregate.Key, logger *log.Logger) []aggregate.Row {
	return aggregate.Aggregate(out.Events, keys, logger)
}
