package normalize

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"nbapbp.dev/enginepbp/internal/core"
)

// Options configures a Normalize run.
type Options struct {
	Tables     *Tables
	League     core.League
	SeasonYear int
	Logger     *log.Logger
}

// subGroupKey groups CDN substitution halves for pairing (§4.1).
type subGroupKey struct {
	period int
	clock  string
	teamID core.TeamID
}

// Normalize converts a sequence of raw upstream rows into the canonical,
// ordered event slice: shape detection, CDN substitution pairing,
// deduplication, and final sort (§4.1). It never mutates rows.
func Normalize(gameID core.GameID, rows []RawRow, opts Options) ([]*core.Event, error) {
	tables := opts.Tables
	if tables == nil {
		tables = DefaultTables()
	}

	drafts := make([]*draft, 0, len(rows))
	warned := map[string]bool{}

	for _, row := range rows {
		switch shapeOf(row) {
		case "statsv2":
			d, err := fromStatsV2(gameID, row)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, d)
		case "cdn":
			d, dropped, err := fromCDN(gameID, tables, row, opts.League, opts.SeasonYear)
			if err != nil {
				return nil, err
			}
			if dropped {
				continue
			}
			if d == nil {
				key := fmt.Sprintf("%v|%v", row["actionType"], row["subType"])
				if !warned[key] && opts.Logger != nil {
					opts.Logger.Warnf("unknown CDN subtype mapping: %s", key)
					warned[key] = true
				}
				continue
			}
			drafts = append(drafts, d)
		default:
			d, err := fromPrenormalized(gameID, row)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, d)
		}
	}

	drafts = pairSubstitutions(drafts)
	drafts = dedup(drafts)

	sort.SliceStable(drafts, func(i, j int) bool {
		if drafts[i].orderNumber != drafts[j].orderNumber {
			return drafts[i].orderNumber < drafts[j].orderNumber
		}
		return drafts[i].actionNumber < drafts[j].actionNumber
	})

	events := make([]*core.Event, 0, len(drafts))
	for i, d := range drafts {
		e := d.event
		e.Order = i
		events = append(events, &e)
	}
	return events, nil
}

// pairSubstitutions merges CDN "out"/"in" substitution halves that share
// a (period, clock, team) group, matching each outgoing half with the
// next incoming half in arrival order. Unpaired halves pass through.
func pairSubstitutions(drafts []*draft) []*draft {
	groups := map[subGroupKey][]*draft{}
	var order []*draft
	for _, d := range drafts {
		if d.event.Type == core.Substitution && d.subRole != "" {
			key := subGroupKey{period: d.event.Period, clock: d.event.Clock, teamID: d.event.TeamID}
			groups[key] = append(groups[key], d)
			continue
		}
		order = append(order, d)
	}

	out := make([]*draft, 0, len(drafts))
	copy1 := make([]*draft, len(order))
	copy(copy1, order)
	out = copy1

	for _, group := range groups {
		var outs, ins []*draft
		for _, d := range group {
			if d.subRole == "out" {
				outs = append(outs, d)
			} else {
				ins = append(ins, d)
			}
		}
		n := len(outs)
		if len(ins) < n {
			n = len(ins)
		}
		for i := 0; i < n; i++ {
			merged := outs[i]
			merged.event.SubInPlayerID = ins[i].event.SubInPlayerID
			out = append(out, merged)
		}
		for i := n; i < len(outs); i++ {
			out = append(out, outs[i])
		}
		for i := n; i < len(ins); i++ {
			out = append(out, ins[i])
		}
	}
	return out
}

// dedup drops duplicates keyed on (actionNumber, timeActual, orderNumber);
// an incoming duplicate with the edited flag set replaces an incumbent
// that lacks it, otherwise the first seen wins (§4.1).
func dedup(drafts []*draft) []*draft {
	type key struct {
		actionNumber int
		timeActual   string
		orderNumber  int
	}
	seen := map[key]int{}
	out := make([]*draft, 0, len(drafts))
	for _, d := range drafts {
		k := key{d.actionNumber, d.timeActual, d.orderNumber}
		if idx, ok := seen[k]; ok {
			if d.edited && !out[idx].edited {
				out[idx] = d
			}
			continue
		}
		seen[k] = len(out)
		out = append(out, d)
	}
	return out
}
