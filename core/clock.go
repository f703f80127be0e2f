package core

import "time"

// Clock returns the current time. Services take one so "today" can be pinned in tests.
type Clock func() time.Time

const (
	minYear = 2000
	maxYear = 2100
)

// February allows 29 days whatever the year.
var daysInMonth = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DateInt encodes the calendar date of t (in t's own location) as YYYYMMDD, e.g. 20251120.
func DateInt(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// ValidDateInt reports whether n is a YYYYMMDD date between years 2000 and 2100.
func ValidDateInt(n int) bool {
	return validYMD(n/10000, (n/100)%100, n%100)
}

// ValidISODate reports whether s is a real YYYY-MM-DD date between years 2000 and 2100.
func ValidISODate(s string) bool {
	if len(s) != len(isoDateLayout) {
		return false
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return false
	}
	y, m, d := t.Date()
	return validYMD(y, int(m), d)
}

const isoDateLayout = "2006-01-02"

func validYMD(y, m, d int) bool {
	if y < minYear || y > maxYear {
		return false
	}
	if m < 1 || m > 12 {
		return false
	}
	return d >= 1 && d <= daysInMonth[m-1]
}
