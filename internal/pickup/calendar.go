package pickup

import (
	"fmt"
	"time"
)

const (
	defaultOpenHour  = 6
	defaultCloseHour = 15
)

// Hours is an opening window expressed in whole hours of the local day. Close is exclusive.
type Hours struct {
	Open  int
	Close int
}

// Contains reports whether hour falls inside [Open, Close).
func (h Hours) Contains(hour int) bool {
	return hour >= h.Open && hour < h.Close
}

// String renders the window as "06:00-15:00".
func (h Hours) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", h.Open, h.Close)
}

// Calendar is the weekly opening table of the bakery. The zero value is closed every day.
type Calendar struct {
	days [7]*Hours
	loc  *time.Location
}

// DefaultCalendar returns the storefront table: Sunday to Friday 06:00-15:00, Saturday closed.
func DefaultCalendar(loc *time.Location) Calendar {
	table := make(map[time.Weekday]Hours, 6)
	for day := time.Sunday; day <= time.Friday; day++ {
		table[day] = Hours{Open: defaultOpenHour, Close: defaultCloseHour}
	}
	cal, _ := NewCalendar(loc, table)
	return cal
}

// NewCalendar builds a calendar from the provided table. Weekdays missing from the table are closed.
func NewCalendar(loc *time.Location, table map[time.Weekday]Hours) (Calendar, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := Calendar{loc: loc}
	for day, hours := range table {
		if day < time.Sunday || day > time.Saturday {
			return Calendar{}, fmt.Errorf("pickup: invalid weekday %d", day)
		}
		if hours.Open < 0 || hours.Close > 24 || hours.Open >= hours.Close {
			return Calendar{}, fmt.Errorf("pickup: invalid hours %s for %s", hours, day)
		}
		h := hours
		cal.days[day] = &h
	}
	return cal, nil
}

// Location returns the time zone the calendar evaluates instants in.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// HoursFor returns the opening window for day; false means the bakery is closed that day.
func (c Calendar) HoursFor(day time.Weekday) (Hours, bool) {
	if day < time.Sunday || day > time.Saturday || c.days[day] == nil {
		return Hours{}, false
	}
	return *c.days[day], true
}

// IsBusinessDay reports whether the bakery opens on the local day of t.
func (c Calendar) IsBusinessDay(t time.Time) bool {
	_, open := c.HoursFor(t.In(c.Location()).Weekday())
	return open
}

// IsWithinBusinessHours reports whether t falls in the opening window of its local day.
func (c Calendar) IsWithinBusinessHours(t time.Time) bool {
	local := t.In(c.Location())
	hours, open := c.HoursFor(local.Weekday())
	if !open {
		return false
	}
	return hours.Contains(local.Hour())
}

// OpenDays counts weekdays with an opening window.
func (c Calendar) OpenDays() int {
	n := 0
	for _, h := range c.days {
		if h != nil {
			n++
		}
	}
	return n
}
