package statistics

import (
	"strings"
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// RangeKey names a reporting window on the statistics screen.
type RangeKey string

const (
	RangeThisMonth  RangeKey = "this_month"
	RangeLast30Days RangeKey = "last_30_days"
	RangeLast90Days RangeKey = "last_90_days"
	RangeThisYear   RangeKey = "this_year"
	RangeCustom     RangeKey = "custom"
)

// ParseRangeKey normalises a user supplied key. Unknown keys report false.
func ParseRangeKey(raw string) (RangeKey, bool) {
	switch key := RangeKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case RangeThisMonth, RangeLast30Days, RangeLast90Days, RangeThisYear, RangeCustom:
		return key, true
	default:
		return "", false
	}
}

// DateRange is an inclusive window from the start of one local day to the end of another.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days the window touches.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return dayNumber(r.End.In(r.Start.Location())) - dayNumber(r.Start) + 1
}

// Previous returns the window of equal length that ends the day before r starts.
func (r DateRange) Previous() DateRange {
	days := r.Days()
	if days <= 0 {
		days = 1
	}
	return DateRange{
		Start: startOfDay(r.Start.AddDate(0, 0, -days)),
		End:   endOfDay(r.Start.AddDate(0, 0, -1)),
	}
}

// GetDateRange resolves a named window anchored at now. Calendar windows run up to the end of today;
// unknown keys resolve to the current month.
func GetDateRange(key RangeKey, now time.Time) DateRange {
	today := startOfDay(now)
	switch key {
	case RangeLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: endOfDay(now)}
	case RangeLast90Days:
		return DateRange{Start: today.AddDate(0, 0, -89), End: endOfDay(now)}
	case RangeThisYear:
		return DateRange{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), End: endOfDay(now)}
	default:
		return DateRange{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), End: endOfDay(now)}
	}
}

// GetPreviousDateRange returns the comparison window for key. Calendar windows step back one whole
// month or year; rolling windows move back by their own length.
func GetPreviousDateRange(key RangeKey, now time.Time) DateRange {
	switch key {
	case RangeLast30Days, RangeLast90Days:
		return GetDateRange(key, now).Previous()
	case RangeThisYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, now.Location()))}
	default:
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(last)}
	}
}

// CustomRange normalises explicit bounds to whole days, swapping them when given in reverse.
func CustomRange(start, end time.Time) DateRange {
	if end.Before(start) {
		start, end = end, start
	}
	return DateRange{Start: startOfDay(start), End: endOfDay(end.In(start.Location()))}
}

// FilterOrdersByRange keeps orders created inside r. Orders with unusable timestamps are dropped.
func FilterOrdersByRange(orders []domain.Order, r DateRange) []domain.Order {
	loc := r.Start.Location()
	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		created, ok := order.CreatedTime(loc)
		if !ok || !r.Contains(created) {
			continue
		}
		out = append(out, order)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// dayNumber counts civil days since the epoch, independent of DST.
func dayNumber(t time.Time) int {
	civil := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(civil.Unix() / 86400)
}
