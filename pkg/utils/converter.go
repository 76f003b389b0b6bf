// Package utils provides small conversion and validation helpers shared across packages.
package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// ================================================================================
// Time Conversion
// ================================================================================

// AcceptedTimestampLayouts lists the layouts ParseTimestamp understands, in order of preference.
var AcceptedTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses an activity timestamp. Date-only values are read as midnight UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range AcceptedTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseOptionalTimestamp parses s when present and returns nil for an empty string.
func ParseOptionalTimestamp(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TimeToISO8601 formats t as RFC3339 in UTC
func TimeToISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// QuarterLabel returns the calendar quarter of t, e.g. "Q3 2024".
func QuarterLabel(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", q, t.Year())
}

// FormatDuration formats a duration in a human-readable way, truncated to seconds.
func FormatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}

// ================================================================================
// Numeric Helpers
// ================================================================================

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ================================================================================
// JSON Helpers
// ================================================================================

// ToJSONPretty converts a value to indented JSON
func ToJSONPretty(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(b), nil
}

// ================================================================================
// String Helpers
// ================================================================================

// Truncate truncates a string to a maximum length
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

//Personal.AI order the ending
