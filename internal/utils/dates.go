package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrBadDate is returned when a date string matches none of the accepted
// layouts.
var ErrBadDate = errors.New("invalid date format")

// ParseDueDate normalizes the date strings accepted on fee input. The
// primary form is "DD-MM-YYYY"; RFC 3339 timestamps and plain
// "YYYY-MM-DD" dates are accepted as the "native" date value.
//
// DD-MM-YYYY components are not range checked: out-of-range days and
// months roll over into adjacent months and years, which is exactly what
// time.Date does with out-of-range components. "32-13-2024" therefore
// lands on 2025-02-01.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadDate
	}

	if parts := strings.Split(s, "-"); len(parts) == 3 && len(parts[0]) <= 2 {
		day, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil && err3 == nil {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadDate
}
