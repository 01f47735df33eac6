package pickup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoOpenDays is returned when a calendar file closes the bakery every day of the week.
var ErrNoOpenDays = errors.New("pickup: calendar has no open days")

type calendarFile struct {
	Timezone string        `yaml:"timezone"`
	Days     []calendarDay `yaml:"days"`
}

type calendarDay struct {
	Day    string `yaml:"day"`
	Open   int    `yaml:"open"`
	Close  int    `yaml:"close"`
	Closed bool   `yaml:"closed"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadCalendar decodes a YAML opening table:
//
//	timezone: Asia/Jerusalem
//	days:
//	  - {day: sunday, open: 6, close: 15}
//	  - {day: saturday, closed: true}
//
// A timezone in the file overrides fallback. Days that are not listed are closed.
func LoadCalendar(r io.Reader, fallback *time.Location) (Calendar, error) {
	var file calendarFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return Calendar{}, fmt.Errorf("pickup: decode calendar: %w", err)
	}

	loc := fallback
	if tz := strings.TrimSpace(file.Timezone); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return Calendar{}, fmt.Errorf("pickup: calendar timezone %q: %w", tz, err)
		}
		loc = parsed
	}

	table := make(map[time.Weekday]Hours, len(file.Days))
	seen := make(map[time.Weekday]struct{}, len(file.Days))
	for _, entry := range file.Days {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(entry.Day))]
		if !ok {
			return Calendar{}, fmt.Errorf("pickup: unknown weekday %q", entry.Day)
		}
		if _, dup := seen[day]; dup {
			return Calendar{}, fmt.Errorf("pickup: weekday %s listed twice", day)
		}
		seen[day] = struct{}{}
		if entry.Closed {
			continue
		}
		table[day] = Hours{Open: entry.Open, Close: entry.Close}
	}

	cal, err := NewCalendar(loc, table)
	if err != nil {
		return Calendar{}, err
	}
	if cal.OpenDays() == 0 {
		return Calendar{}, ErrNoOpenDays
	}
	return cal, nil
}

// LoadCalendarFile reads the calendar from path.
func LoadCalendarFile(path string, fallback *time.Location) (Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return Calendar{}, fmt.Errorf("pickup: open calendar: %w", err)
	}
	defer f.Close()
	return LoadCalendar(f, fallback)
}
