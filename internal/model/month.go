package model

import (
	"fmt"
	"strconv"
	"time"
)

// Month is a calendar year-month encoded as YYYYMM.
type Month int

func NewMonth(year int, month time.Month) Month {
	return Month(year*100 + int(month))
}

func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth accepts "YYYYMM".
func ParseMonth(s string) (Month, error) {
	if len(s) != 6 {
		return 0, fmt.Errorf("month %q: want YYYYMM", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("month %q: %w", s, err)
	}
	m := Month(n)
	if !m.Valid() {
		return 0, fmt.Errorf("month %q: out of range", s)
	}
	return m, nil
}

func (m Month) Year() int { return int(m) / 100 }

func (m Month) Month() time.Month { return time.Month(int(m) % 100) }

func (m Month) Valid() bool {
	return m.Year() > 0 && m.Month() >= time.January && m.Month() <= time.December
}

func (m Month) AddMonths(n int) Month {
	idx := m.Year()*12 + int(m.Month()) - 1 + n
	return NewMonth(idx/12, time.Month(idx%12+1))
}

func (m Month) Next() Month { return m.AddMonths(1) }

// Sub returns the number of months from o to m.
func (m Month) Sub(o Month) int {
	return (m.Year()*12 + int(m.Month())) - (o.Year()*12 + int(o.Month()))
}

func (m Month) String() string {
	return fmt.Sprintf("%04d%02d", m.Year(), int(m.Month()))
}

// AddMonths adds n calendar months to t, clamping the day to the last day
// of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
