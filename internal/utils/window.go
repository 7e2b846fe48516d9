package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/directory-api/internal/database"
)

const dateOnly = "2006-01-02"

var (
	ErrIncompleteWindow = errors.New("startDate and endDate must be given together")
	ErrInvalidDate      = errors.New("dates must be RFC 3339 or YYYY-MM-DD")
)

// GetWindowParams reads the startDate/endDate query parameters. It returns
// nil when neither is present. A date-only endDate covers that whole day.
func GetWindowParams(c *gin.Context) (*database.Window, error) {
	return ParseWindow(c.Query("startDate"), c.Query("endDate"))
}

// ParseWindow builds a window from the raw bounds. Inverted bounds are the
// caller's concern.
func ParseWindow(start, end string) (*database.Window, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, ErrIncompleteWindow
	}

	from, err := parseBound(start, false)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	to, err := parseBound(end, true)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &database.Window{Start: from, End: to}, nil
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date as UTC.
func ParseDate(value string) (time.Time, error) {
	return parseBound(value, false)
}

func parseBound(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}
