// Package normalize implements C2: converting raw upstream rows from any
// of the three accepted shapes (Stats v2 flat rows, CDN live-data
// actions, pre-normalized dicts) into canonical core.Event values.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var isoPattern = regexp.MustCompile(`^PT(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ISOToClock converts an ISO8601 duration (e.g. "PT11M38.00S", the CDN
// live-data clock format) into the canonical "m:ss[.s]" display string.
// Fractional seconds are preserved to one decimal; an absent or
// unparseable input yields "0:00".
func ISOToClock(iso string) string {
	m := isoPattern.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}
	mins := 0
	if m[1] != "" {
		mins, _ = strconv.Atoi(m[1])
	}
	secs := 0.0
	if m[2] != "" {
		secs, _ = strconv.ParseFloat(m[2], 64)
	}
	formatted := fmt.Sprintf("%d:%04.1f", mins, secs)
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	if !strings.Contains(formatted, ":") {
		return fmt.Sprintf("%d:00", mins)
	}
	return formatted
}

// ClockToISO is the inverse of ISOToClock for canonical "m:ss[.s]" strings,
// used only by the round-trip invariant test (§8).
func ClockToISO(clock string) string {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return "PT0S"
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return "PT0S"
	}
	return fmt.Sprintf("PT%dM%sS", mins, parts[1])
}

// SecondsRemaining parses a canonical "m:ss[.s]" clock string into the
// float number of seconds remaining in the period.
func SecondsRemaining(clock string) float64 {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	secs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0
	}
	return float64(mins)*60 + secs
}
