// Package storage defines the Provider interface and the helpers its
// backends share for encoding columns and classifying errors.
package storage

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	apperr "github.com/julianstephens/habitual/internal/errors"
)

// NotFound reports a missing entity.
func NotFound(entity, key string) error {
	return apperr.Wrapf(apperr.ErrNotFound, "%s %q", entity, key)
}

// Failure wraps a backend error from op as a store failure.
func Failure(op string, err error) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(apperr.ErrStore, fmt.Errorf("%s: %w", op, err))
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...interface{}) error {
	return apperr.Wrapf(apperr.ErrConflict, format, args...)
}

// EncodeWeekdays stores a weekday set as "1,3,5".
func EncodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// DecodeWeekdays parses the EncodeWeekdays format.
func DecodeWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday value %q", p)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
