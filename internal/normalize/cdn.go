package normalize

import (
	"strconv"
	"strings"

	"nbapbp.dev/enginepbp/internal/core"
)

// cdnEventTypeMap mirrors the CDN adapter's map_eventmsgtype: actionType
// (lowercased) to the canonical EVENTMSGTYPE code. 2pt/3pt/heave are
// handled separately since they additionally depend on shotResult.
var cdnEventTypeMap = map[string]core.EventType{
	"freethrow":     core.FreeThrow,
	"rebound":       core.Rebound,
	"turnover":      core.Turnover,
	"foul":          core.Foul,
	"violation":     core.Violation,
	"substitution":  core.Substitution,
	"timeout":       core.Timeout,
	"jumpball":      core.JumpBall,
	"instantreplay": core.Replay,
	"stoppage":      core.Stoppage,
	"ejection":      core.Ejection,
}

// cdnSupplementalActionTypes names CDN rows that are attribute-only
// duplicates of another action and are dropped entirely (§4.1 Filtering).
var cdnSupplementalActionTypes = map[string]bool{
	"steal":         true,
	"block":         true,
	"game":          true,
	"edit":          true,
	"stoppage_meta": true,
}

// IsSupplementalCDNAction reports whether a CDN actionType is a
// supplemental row that should be dropped before conversion.
func IsSupplementalCDNAction(actionType string) bool {
	return cdnSupplementalActionTypes[strings.ToLower(actionType)]
}

// MapEventMsgType maps a CDN actionType + shotResult pair to the
// canonical event_type code. Returns (0, false) for unmapped types so the
// caller can emit the one-shot unknown-mapping warning.
func MapEventMsgType(actionType, shotResult string) (core.EventType, bool) {
	at := strings.ToLower(actionType)
	switch at {
	case "2pt", "3pt", "heave":
		if strings.EqualFold(shotResult, "made") {
			return core.FieldGoal, true
		}
		return core.FieldGoalMissed, true
	case "period":
		return 0, false // handled by the caller via subType start/end
	}
	if t, ok := cdnEventTypeMap[at]; ok {
		return t, true
	}
	return 0, false
}

// MapEventMsgActionType resolves the EVENTMSGACTIONTYPE subtype code for a
// CDN action, dispatching to the correct table by event type (§4.1).
func MapEventMsgActionType(tables *Tables, eventType core.EventType, subType, descriptor string) (int, bool) {
	key := Canon(subType)
	switch eventType {
	case core.FreeThrow:
		if idx, ok := tables.FreeThrowTripIndex[key]; ok {
			return idx, true
		}
		d := strings.ToLower(descriptor)
		if strings.Contains(d, "technical") || strings.Contains(d, "flagrant") {
			return 0, true
		}
		return 0, false
	case core.FieldGoal, core.FieldGoalMissed:
		if _, ok := tables.ShotType[key]; ok {
			return 0, true
		}
		return 0, false
	case core.Turnover:
		if _, ok := tables.TurnoverType[key]; ok {
			return 0, true
		}
		return 0, false
	case core.Foul:
		if _, ok := tables.FoulType[key]; ok {
			return 0, true
		}
		return 0, false
	case core.Violation:
		if _, ok := tables.ViolationType[key]; ok {
			return 0, true
		}
		return 0, false
	default:
		return 0, true
	}
}

// ShotTypeLabel resolves the canonical shot-type label (jumpshot, layup,
// dunk, hook, tipin) for a CDN shot subType, or "" if unmapped.
func ShotTypeLabel(tables *Tables, subType string) string {
	return tables.ShotType[Canon(subType)]
}

// TurnoverTypeLabel resolves the canonical turnover subtype label.
func TurnoverTypeLabel(tables *Tables, subType string) string {
	return tables.TurnoverType[Canon(subType)]
}

// FoulTypeLabel resolves the canonical foul subtype label.
func FoulTypeLabel(tables *Tables, subType string) string {
	return tables.FoulType[Canon(subType)]
}

// ViolationTypeLabel resolves the canonical violation subtype label.
func ViolationTypeLabel(tables *Tables, subType string) string {
	return tables.ViolationType[Canon(subType)]
}

// FreeThrowTripIndex resolves the FT trip-index action-type code for a
// CDN subType (e.g. "1of2" -> 11).
func FreeThrowTripIndex(tables *Tables, subType string) (int, bool) {
	idx, ok := tables.FreeThrowTripIndex[Canon(subType)]
	return idx, ok
}

// atoiOr0 parses s as an int, returning 0 on failure. Used for CDN fields
// that are sometimes absent or non-numeric strings.
func atoiOr0(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
