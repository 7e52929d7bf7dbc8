package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"FEB-2026", "FEB-2026"},
		{"2026-02", "FEB-2026"},
		{"2026-12", "DEC-2026"},
		{"Feb 2026", "FEB-2026"},
		{"feb-2026", "FEB-2026"},
		{"February 2026", "FEB-2026"},
		{"SEPTEMBER 2025", "SEP-2025"},
		{"sept 2025", "SEP-2025"},
		{"  Mar   2026  ", "MAR-2026"},
		{"JAN-1999", "JAN-1999"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeFallback(t *testing.T) {
	// Unrecognized shapes are uppercased with whitespace collapsed to hyphens.
	assert.Equal(t, "Q1-2026", Normalize("q1 2026"))
	assert.Equal(t, "WEEK-7-2026", Normalize("week 7 2026"))
	assert.False(t, Valid(Normalize("week 7 2026")))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"FEB-2026", "2026-02", "Feb 2026", "february-2026",
		"q1 2026", "garbage input here", "2026-13",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("FEB-2026"))
	assert.False(t, Valid("XXX-2026"))
	assert.False(t, Valid("FEB-26"))
	assert.False(t, Valid("feb-2026"))
}

func TestParse(t *testing.T) {
	month, year, err := Parse("FEB-2026")
	require.NoError(t, err)
	assert.Equal(t, time.February, month)
	assert.Equal(t, 2026, year)

	_, _, err = Parse("XXX-2026")
	assert.Error(t, err)
}

func TestLastDay(t *testing.T) {
	cases := []struct {
		token string
		want  time.Time
	}{
		{"FEB-2026", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"FEB-2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"DEC-2025", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := LastDay(tc.token)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "token %s", tc.token)
	}

	_, err := LastDay("NOT-A-PERIOD")
	assert.Error(t, err)
}
