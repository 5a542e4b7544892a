// pkg/core/date.go
package core

import "fmt"

const (
	SecondsPerHour = 3600
	SecondsPerDay  = 24 * SecondsPerHour
)

// Date is a campaign timestamp: whole days since campaign epoch plus seconds
// into that day.
type Date struct {
	Day int `json:"day"`
	Sec int `json:"sec"`
}

// NewDate returns a normalised date (0 <= Sec < SecondsPerDay).
func NewDate(day, sec int) Date {
	return Date{Day: day, Sec: sec}.normalize()
}

// Days returns a date spanning n whole days.
func Days(n int) Date {
	return Date{Day: n}
}

func (d Date) normalize() Date {
	d.Day += d.Sec / SecondsPerDay
	d.Sec %= SecondsPerDay
	if d.Sec < 0 {
		d.Sec += SecondsPerDay
		d.Day--
	}
	return d
}

// Add returns d + o.
func (d Date) Add(o Date) Date {
	return Date{Day: d.Day + o.Day, Sec: d.Sec + o.Sec}.normalize()
}

// AddSeconds returns d advanced by s seconds.
func (d Date) AddSeconds(s int) Date {
	return Date{Day: d.Day, Sec: d.Sec + s}.normalize()
}

// Sub returns d - o.
func (d Date) Sub(o Date) Date {
	return Date{Day: d.Day - o.Day, Sec: d.Sec - o.Sec}.normalize()
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	if d.Day != o.Day {
		return d.Day > o.Day
	}
	return d.Sec > o.Sec
}

// Seconds returns the total number of seconds in d.
func (d Date) Seconds() int64 {
	return int64(d.Day)*SecondsPerDay + int64(d.Sec)
}

func (d Date) String() string {
	h := d.Sec / SecondsPerHour
	m := (d.Sec % SecondsPerHour) / 60
	s := d.Sec % 60
	return fmt.Sprintf("day %d %02d:%02d:%02d", d.Day, h, m, s)
}
