package utils

import (
	"errors"
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var ErrBadTimestamp = errors.New("expected an ISO-8601 timestamp")

// ParseTimestamp accepts RFC3339 or a naive ISO form, which is read as UTC.
// The result is always in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}
