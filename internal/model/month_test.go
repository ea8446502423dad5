package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonth_Arithmetic(t *testing.T) {
	m := NewMonth(2024, time.November)
	assert.Equal(t, Month(202411), m)
	assert.Equal(t, Month(202412), m.Next())
	assert.Equal(t, Month(202501), m.AddMonths(2))
	assert.Equal(t, Month(202311), m.AddMonths(-12))
	assert.Equal(t, 4, Month(202503).Sub(Month(202411)))
	assert.Equal(t, "202411", m.String())
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("202503")
	require.NoError(t, err)
	assert.Equal(t, Month(202503), m)

	for _, bad := range []string{"2025-03", "202513", "202500", "abcdef", ""} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), 12, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"jan 31 to feb", time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"leap year", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"across year", time.Date(2022, 8, 31, 0, 0, 0, 0, time.UTC), 6, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"30 day month", time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}

func TestLoanSnapshot_IsNewLoan(t *testing.T) {
	s := LoanSnapshot{
		CutMonth:         202203,
		DisbursementDate: time.Date(2022, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, s.IsNewLoan())
	s.CutMonth = 202204
	assert.False(t, s.IsNewLoan())
}
