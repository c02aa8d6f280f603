package normalize

import "strings"

// Canon canonicalizes a subtype key by lowercasing and stripping spaces,
// hyphens, and underscores, so "Double Dribble" and "doubledribble" and
// "double-dribble" all resolve to the same table entry (§4.1, §8).
func Canon(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch r {
		case ' ', '-', '_':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tables holds the five configurable subtype mapping tables from §4.1.
// Packaged defaults are loaded first; overlay files extend or override
// entries, later overlays winning (§9 "Configuration overlays"). All keys
// are stored canonicalized.
type Tables struct {
	FreeThrowTripIndex map[string]int
	ShotType           map[string]string
	TurnoverType       map[string]string
	FoulType           map[string]string
	ViolationType      map[string]string
}

// DefaultTables returns the packaged subtype tables, ported value-for-
// value from the CDN adapter's FT_MAP/SHOT_MAP/TOV_MAP/FOUL_MAP plus a
// violation table in the same idiom.
func DefaultTables() *Tables {
	t := &Tables{
		FreeThrowTripIndex: map[string]int{
			"1of1": 10,
			"1of2": 11,
			"2of2": 12,
			"1of3": 13,
			"2of3": 14,
			"3of3": 15,
		},
		ShotType: map[string]string{
			"jumpshot": "jumpshot",
			"layup":    "layup",
			"dunk":     "dunk",
			"hook":     "hook",
			"tipin":    "tipin",
		},
		TurnoverType: map[string]string{
			"badpass":          "badpass",
			"lostball":         "lostball",
			"traveling":        "traveling",
			"shotclock":        "shotclock",
			"3secondviolation": "3secondviolation",
			"outofbounds":      "outofbounds",
			"offensivefoul":    "offensivefoul",
			"palming":          "palming",
			"kickedball":       "kickedball",
		},
		FoulType: map[string]string{
			"shooting":       "shooting",
			"looseball":      "looseball",
			"offensive":      "offensive",
			"charge":         "charge",
			"technical":      "technical",
			"flagranttype1":  "flagranttype1",
			"flagranttype2":  "flagranttype2",
			"awayfromplay":   "awayfromplay",
			"defensive3second": "defensive3second",
			"take":           "take",
		},
		ViolationType: map[string]string{
			"goaltending":       "goaltending",
			"kickball":          "kickball",
			"doubledribble":     "doubledribble",
			"jumpball":          "jumpball",
			"defensivegoaltending": "defensivegoaltending",
		},
	}
	return t.canonicalized()
}

func (t *Tables) canonicalized() *Tables {
	out := &Tables{
		FreeThrowTripIndex: map[string]int{},
		ShotType:           map[string]string{},
		TurnoverType:       map[string]string{},
		FoulType:           map[string]string{},
		ViolationType:      map[string]string{},
	}
	for k, v := range t.FreeThrowTripIndex {
		out.FreeThrowTripIndex[Canon(k)] = v
	}
	for k, v := range t.ShotType {
		out.ShotType[Canon(k)] = v
	}
	for k, v := range t.TurnoverType {
		out.TurnoverType[Canon(k)] = v
	}
	for k, v := range t.FoulType {
		out.FoulType[Canon(k)] = v
	}
	for k, v := range t.ViolationType {
		out.ViolationType[Canon(k)] = v
	}
	return out
}

// Overlay is a partial table, loaded from a JSON overlay file or supplied
// in-memory, merged onto the running tables with "later overlay wins"
// semantics.
type Overlay struct {
	FreeThrowTripIndex map[string]int    `json:"free_throw_trip_index"`
	ShotType           map[string]string `json:"shot_type"`
	TurnoverType       map[string]string `json:"turnover_type"`
	FoulType           map[string]string `json:"foul_type"`
	ViolationType      map[string]string `json:"violation_type"`
}

// Apply merges an overlay onto t in place, canonicalizing overlay keys.
func (t *Tables) Apply(o Overlay) {
	for k, v := range o.FreeThrowTripIndex {
		t.FreeThrowTripIndex[Canon(k)] = v
	}
	for k, v := range o.ShotType {
		t.ShotType[Canon(k)] = v
	}
	for k, v := range o.TurnoverType {
		t.TurnoverType[Canon(k)] = v
	}
	for k, v := range o.FoulType {
		t.FoulType[Canon(k)] = v
	}
	for k, v := range o.ViolationType {
		t.ViolationType[Canon(k)] = v
	}
}
