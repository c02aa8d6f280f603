package normalize

import (
	"fmt"
	"strings"

	"nbapbp.dev/enginepbp/internal/core"
)

// RawRow is one upstream row in any of the three accepted shapes. It is a
// loosely-typed map because the three shapes disagree on field casing and
// presence; shape detection and field extraction happen in this package.
type RawRow map[string]any

// draft is the intermediate, not-yet-finalized representation of a row
// during normalization: enough of a core.Event to participate in
// substitution pairing, dedup, and sort, plus the bookkeeping fields those
// steps need that don't belong on the canonical Event.
type draft struct {
	event        core.Event
	actionNumber int
	orderNumber  int
	timeActual   string
	edited       bool
	subRole      string // "out" | "in" | "" for CDN substitution halves
	isSupplemental bool
	periodStartMarker bool
}

func shapeOf(row RawRow) string {
	if _, ok := row["actionType"]; ok {
		return "cdn"
	}
	if _, ok := row["EVENTMSGTYPE"]; ok {
		return "statsv2"
	}
	return "prenormalized"
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt(v any) int {
	if v == nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		return atoiOr0(t)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		var f float64
		fmt.Sscanf(t, "%f", &f)
		return f
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	default:
		return false
	}
}

// fromStatsV2 converts a Stats v2 flat row (uppercase field names) into a
// draft event.
func fromStatsV2(gameID core.GameID, row RawRow) (*draft, error) {
	period := asInt(row["PERIOD"])
	clock := asString(row["PCTIMESTRING"])
	if clock == "" {
		return nil, core.NewMalformedRowError(gameID, "stats v2 row missing PCTIMESTRING")
	}
	evType := core.EventType(asInt(row["EVENTMSGTYPE"]))
	if evType == 0 {
		return nil, core.NewMalformedRowError(gameID, "stats v2 row missing EVENTMSGTYPE")
	}
	eventNum := asInt(row["EVENTNUM"])
	d := &draft{
		actionNumber: eventNum,
		orderNumber:  eventNum,
		timeActual:   asString(row["timeActual"]),
		event: core.Event{
			GameID:           gameID,
			EventNum:         eventNum,
			Type:             evType,
			EventActionType:  asInt(row["EVENTMSGACTIONTYPE"]),
			Period:           period,
			Clock:            clock,
			SecondsRemaining: SecondsRemaining(clock),
			Description:      firstNonEmpty(asString(row["HOMEDESCRIPTION"]), asString(row["VISITORDESCRIPTION"]), asString(row["NEUTRALDESCRIPTION"])),
			TeamID:           core.TeamID(asInt(row["PLAYER1_TEAM_ID"])),
			Player1ID:        core.PlayerID(asInt(row["PLAYER1_ID"])),
			Player2ID:        core.PlayerID(asInt(row["PLAYER2_ID"])),
			Player3ID:        core.PlayerID(asInt(row["PLAYER3_ID"])),
		},
	}
	applySubtypeLabels(d, nil)
	return d, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// fromPrenormalized converts an already-canonical dict (lower snake_case
// field names matching core.Event) into a draft event.
func fromPrenormalized(gameID core.GameID, row RawRow) (*draft, error) {
	period := asInt(row["period"])
	clock := asString(row["clock"])
	evType := core.EventType(asInt(row["event_type"]))
	if evType == 0 {
		return nil, core.NewMalformedRowError(gameID, "pre-normalized row missing event_type")
	}
	eventNum := asInt(row["event_num"])
	order := eventNum
	if v, ok := row["order"]; ok {
		order = asInt(v)
	}
	d := &draft{
		actionNumber: eventNum,
		orderNumber:  order,
		timeActual:   asString(row["time_actual"]),
		event: core.Event{
			GameID:           gameID,
			EventNum:         eventNum,
			Type:             evType,
			EventActionType:  asInt(row["event_action_type"]),
			Period:           period,
			Clock:            clock,
			SecondsRemaining: SecondsRemaining(clock),
			Description:      asString(row["description"]),
			TeamID:           core.TeamID(asInt(row["team_id"])),
			Player1ID:        core.PlayerID(asInt(row["player1_id"])),
			Player2ID:        core.PlayerID(asInt(row["player2_id"])),
			Player3ID:        core.PlayerID(asInt(row["player3_id"])),
			ShotType:         asString(row["shot_type"]),
			ShotValue:        asInt(row["shot_value"]),
			TurnoverType:     asString(row["turnover_type"]),
			FoulType:         asString(row["foul_type"]),
			ViolationType:    asString(row["violation_type"]),
		},
	}
	return d, nil
}

// fromCDN converts a single CDN live-data action into a draft event.
// Substitution halves and period-start markers are flagged for later
// pairing/merging by the caller.
func fromCDN(gameID core.GameID, tables *Tables, row RawRow, league core.League, seasonYear int) (*draft, bool, error) {
	actionType := strings.ToLower(asString(row["actionType"]))
	subType := asString(row["subType"])

	if IsSupplementalCDNAction(actionType) {
		return nil, true, nil
	}

	if actionType == "period" {
		if strings.EqualFold(subType, "start") {
			d := cdnBaseDraft(gameID, row)
			d.event.Type = core.StartOfPeriod
			d.periodStartMarker = true
			return d, false, nil
		}
		if strings.EqualFold(subType, "end") {
			d := cdnBaseDraft(gameID, row)
			d.event.Type = core.EndOfPeriod
			return d, false, nil
		}
		return nil, true, nil
	}

	shotResult := asString(row["shotResult"])
	evType, ok := MapEventMsgType(actionType, shotResult)
	if !ok {
		return nil, false, nil // unknown: caller emits one-shot warning, code 0 event dropped from strict flow
	}

	d := cdnBaseDraft(gameID, row)
	d.event.Type = evType

	switch evType {
	case core.FieldGoal, core.FieldGoalMissed:
		d.event.ShotType = ShotTypeLabel(tables, subType)
		if v, ok := row["shotValue"]; ok {
			d.event.ShotValue = asInt(v)
		} else if actionType == "3pt" || actionType == "heave" {
			d.event.ShotValue = 3
		} else {
			d.event.ShotValue = 2
		}
		if v, ok := row["assistPersonId"]; ok {
			d.event.Player2ID = core.PlayerID(asInt(v))
		}
		if v, ok := row["blockPersonId"]; ok && asInt(v) != 0 {
			d.event.IsBlocked = true
			d.event.BlockPlayerID = core.PlayerID(asInt(v))
		}
	case core.FreeThrow:
		idx, _ := FreeThrowTripIndex(tables, subType)
		d.event.FTTripIndex = idx
		d.event.IsTerminalFT = idx == 10 || idx == 12 || idx == 15
		desc := strings.ToLower(asString(row["descriptor"]))
		d.event.IsTechnicalFT = strings.Contains(desc, "technical")
		d.event.IsFlagrantFT = strings.Contains(desc, "flagrant")
		if d.event.IsTechnicalFT || d.event.IsFlagrantFT {
			d.event.IsTerminalFT = true
		}
	case core.Turnover:
		d.event.TurnoverType = TurnoverTypeLabel(tables, subType)
		if v, ok := row["stealPersonId"]; ok {
			d.event.StealPlayerID = core.PlayerID(asInt(v))
		}
	case core.Foul:
		d.event.FoulType = FoulTypeLabel(tables, subType)
		if v, ok := row["foulDrawnPersonId"]; ok {
			d.event.FoulDrawnBy = core.PlayerID(asInt(v))
			d.event.Player2ID = d.event.FoulDrawnBy
		}
	case core.Violation:
		d.event.ViolationType = ViolationTypeLabel(tables, subType)
	case core.JumpBall:
		if v, ok := row["jumpBallRecoveredPersonId"]; ok {
			d.event.Player3ID = core.PlayerID(asInt(v))
		}
	case core.Substitution:
		d.subRole = strings.ToLower(subType) // "out" | "in"
		if d.subRole == "out" {
			d.event.SubOutPlayerID = core.PlayerID(asInt(row["personId"]))
		} else {
			d.event.SubInPlayerID = core.PlayerID(asInt(row["personId"]))
		}
	}

	return d, false, nil
}

func cdnBaseDraft(gameID core.GameID, row RawRow) *draft {
	clock := ISOToClock(asString(row["clock"]))
	actionNumber := asInt(row["actionNumber"])
	orderNumber := asInt(row["orderNumber"])
	if orderNumber == 0 {
		orderNumber = actionNumber
	}
	return &draft{
		actionNumber: actionNumber,
		orderNumber:  orderNumber,
		timeActual:   asString(row["timeActual"]),
		edited:       asBool(row["edited"]),
		event: core.Event{
			GameID:           gameID,
			EventNum:         actionNumber,
			Period:           asInt(row["period"]),
			Clock:            clock,
			SecondsRemaining: SecondsRemaining(clock),
			Description:      asString(row["description"]),
			TeamID:           core.TeamID(asInt(row["teamId"])),
			Player1ID:        core.PlayerID(asInt(row["personId"])),
		},
	}
}

// applySubtypeLabels is a no-op extension point for stats-v2-specific
// subtype decoding (stats v2 rows already ship EVENTMSGACTIONTYPE as the
// canonical code, so no table lookup is required).
func applySubtypeLabels(d *draft, tables *Tables) {}
