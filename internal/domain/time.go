package domain

import "time"

// Timestamps on the wire are RFC 3339 at second precision, always UTC.
// FormatTime and ParseTime round-trip exactly at that precision.

// FormatTime renders a timestamp in the backend's wire format.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// ParseTime parses a timestamp in the backend's wire format.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
