// Package dates normalizes the timestamp encodings found in PDF
// metadata into fully resolved instants.
package dates

import (
	"regexp"
	"strconv"
	"time"
)

// Packed PDF date, e.g. D:20200103112201+02'00'. The timezone part is
// either a bare Z or a signed HH'MM' offset.
var (
	packedTZRe = regexp.MustCompile(`^D:(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})(?:([+-])(\d{2})'(\d{2})'|Z)`)
	packedRe   = regexp.MustCompile(`^D:(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})`)
)

// ISO layouts tried after RFC 3339 fails, most specific first.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse converts a raw PDF or ISO-8601 date string into an instant.
// It returns nil for empty, truncated, or otherwise malformed input;
// it never panics and never returns a partially resolved value.
//
// For packed dates carrying a signed offset, a '-' sign adds the
// offset to the naive value and a '+' sign subtracts it. That polarity
// is kept as-is from the system this replaces; changing it would shift
// every timestamp comparison downstream.
func Parse(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	if m := packedTZRe.FindStringSubmatch(raw); m != nil {
		t := buildNaive(m[1:7])
		if t == nil {
			return nil
		}
		if m[7] != "" {
			hours, _ := strconv.Atoi(m[8])
			minutes, _ := strconv.Atoi(m[9])
			offset := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
			var adjusted time.Time
			if m[7] == "-" {
				adjusted = t.Add(offset)
			} else {
				adjusted = t.Add(-offset)
			}
			return &adjusted
		}
		return t
	}

	if m := packedRe.FindStringSubmatch(raw); m != nil {
		return buildNaive(m[1:7])
	}

	return ParseISO(raw)
}

// ParseISO parses an ISO-8601 date string, treating a literal Z suffix
// as UTC. Returns nil if no layout matches.
func ParseISO(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		u := t.UTC()
		return &u
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

// buildNaive assembles an instant from six numeric groups, rejecting
// values outside calendar range so garbage input degrades to nil
// instead of rolling over into a neighboring date.
func buildNaive(groups []string) *time.Time {
	n := make([]int, 6)
	for i, g := range groups {
		v, err := strconv.Atoi(g)
		if err != nil {
			return nil
		}
		n[i] = v
	}

	year, month, day, hour, minute, second := n[0], n[1], n[2], n[3], n[4], n[5]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	if hour > 23 || minute > 59 || second > 59 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes out-of-range days (e.g. Feb 30); reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return nil
	}
	return &t
}
