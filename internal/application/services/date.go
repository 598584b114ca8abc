package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/kirkegaard/tvtid-go/internal/domain"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"2006-01-02 15:04",
}

// ParseDate parses a user supplied date and returns midnight of that day in loc.
// Only year-first forms are accepted; "03-01-2024" is ambiguous and rejected.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", domain.ErrInvalidQuery)
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return midnight(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return midnight(t.In(loc)), nil
	}

	return time.Time{}, fmt.Errorf("%w: unrecognized date %q (want YYYY-MM-DD)", domain.ErrInvalidQuery, s)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
