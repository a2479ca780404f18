package normalization

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"uc-timelapse/internal/domain"
)

// ErrInvalidDate is wrapped by every ParseError.
var ErrInvalidDate = errors.New("invalid date")

// ParseError reports a raw date string that could not be normalized.
type ParseError struct {
	Raw    string // input as received
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date %q: %s", e.Raw, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidDate).
func (e *ParseError) Unwrap() error {
	return ErrInvalidDate
}

// NormalizeDate converts a locale "M/D/YYYY" string into a CanonicalDate.
//
// The input must have exactly three '/'-separated numeric components, a
// four-digit year, and name a real calendar day.
func NormalizeDate(raw string) (domain.CanonicalDate, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return "", &ParseError{Raw: raw, Reason: fmt.Sprintf("expected 3 components, got %d", len(parts))}
	}

	month, err := parseComponent(parts[0], 2)
	if err != nil {
		return "", &ParseError{Raw: raw, Reason: "month: " + err.Error()}
	}
	day, err := parseComponent(parts[1], 2)
	if err != nil {
		return "", &ParseError{Raw: raw, Reason: "day: " + err.Error()}
	}
	if len(parts[2]) != 4 {
		return "", &ParseError{Raw: raw, Reason: "year: expected 4 digits"}
	}
	year, err := parseComponent(parts[2], 4)
	if err != nil {
		return "", &ParseError{Raw: raw, Reason: "year: " + err.Error()}
	}

	if month < 1 || month > 12 {
		return "", &ParseError{Raw: raw, Reason: fmt.Sprintf("month %d out of range", month)}
	}

	// time.Date normalizes overflow (2/30 -> 3/1); reject instead.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day || int(t.Month()) != month {
		return "", &ParseError{Raw: raw, Reason: fmt.Sprintf("day %d out of range for %04d-%02d", day, year, month)}
	}

	return domain.CanonicalDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day)), nil
}

// parseComponent parses a non-empty run of ASCII digits of at most maxLen characters.
func parseComponent(s string, maxLen int) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	if len(s) > maxLen {
		return 0, fmt.Errorf("%q too long", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not numeric", s)
		}
	}
	return strconv.Atoi(s)
}

// ParseCanonical parses a YYYY-MM-DD string into a UTC midnight time.
func ParseCanonical(d domain.CanonicalDate) (time.Time, error) {
	t, err := time.Parse(domain.CanonicalDateLayout, string(d))
	if err != nil {
		return time.Time{}, &ParseError{Raw: string(d), Reason: "not a YYYY-MM-DD date"}
	}
	return t, nil
}

// FormatCanonical renders the calendar date of t (in t's own location).
func FormatCanonical(t time.Time) domain.CanonicalDate {
	return domain.CanonicalDate(t.Format(domain.CanonicalDateLayout))
}
