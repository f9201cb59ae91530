package utils

import "time"

const dateFormat = "2006-01-02"

// ParseTimestamp reads timestamps written either by the application
// (RFC 3339) or by SQLite's datetime('now') default.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// ParseDate reads a date-only column value.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateFormat, s); err == nil {
		return t, nil
	}
	return ParseTimestamp(s)
}

// FormatDate renders a time as a date-only column value.
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}
