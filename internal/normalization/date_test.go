package normalization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uc-timelapse/internal/domain"
)

func TestNormalizeDate_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.CanonicalDate
	}{
		{"7/4/2024", "2024-07-04"},
		{"12/31/2024", "2024-12-31"},
		{"1/1/2025", "2025-01-01"},
		{"07/04/2024", "2024-07-04"},
		{"2/29/2024", "2024-02-29"}, // leap year
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"2024-07-04",
		"7/4",
		"7/4/2024/1",
		"a/4/2024",
		"7/b/2024",
		"7/4/24",
		"7/4/20x4",
		"-7/4/2024",
		"13/1/2024",
		"0/1/2024",
		"2/30/2024",
		"2/29/2023",
		"4/31/2024",
		"7/0/2024",
		" 7/4/2024",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			_, err := NormalizeDate(raw)
			require.Error(t, err)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.ErrorIs(t, err, ErrInvalidDate)
			assert.Equal(t, raw, pe.Raw)
		})
	}
}

func TestParseCanonical(t *testing.T) {
	ts, err := ParseCanonical("2024-07-04")
	require.NoError(t, err)
	assert.Equal(t, domain.CanonicalDate("2024-07-04"), FormatCanonical(ts))

	_, err = ParseCanonical("7/4/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
