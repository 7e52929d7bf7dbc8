package redundancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestServiceYears(t *testing.T) {
	tests := []struct {
		name        string
		join        string
		termination string
		want        int
	}{
		{"full years only", "2015-03-01", "2020-03-01", 5},
		{"day before anniversary rounds down", "2015-03-01", "2020-02-28", 4},
		{"day after anniversary counts", "2015-03-01", "2020-03-02", 5},
		{"less than a year", "2025-01-15", "2025-11-30", 0},
		{"termination before join clamps to zero", "2025-06-01", "2025-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serviceYears(date(tt.join), date(tt.termination)))
		})
	}
}

func TestWeeksAwarded(t *testing.T) {
	tests := []struct {
		years int
		want  int64
	}{
		{2, 4},
		{5, 10},
		{10, 20},
		{11, 23},
		{15, 35},
		{25, 65},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, weeksAwarded(tt.years).IntPart(), "years=%d", tt.years)
	}
}
