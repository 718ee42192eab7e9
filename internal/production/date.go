package production

import (
	"errors"
	"time"
)

// parseDate accepts a full RFC 3339 timestamp or a bare calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("unrecognized date format")
}
