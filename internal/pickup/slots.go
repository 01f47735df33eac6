package pickup

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultLeadTime = 24 * time.Hour
	defaultSlotTTL  = 5 * time.Minute
	maxSlotSearch   = 7
)

// SlotCache remembers the last computed slot. A lookup hits when the new reference
// instant lies less than ttl away from the cached one.
type SlotCache struct {
	ttl time.Duration

	mu     sync.Mutex
	filled bool
	from   time.Time
	slot   time.Time
}

// NewSlotCache returns an empty cache. Non-positive ttl falls back to five minutes.
func NewSlotCache(ttl time.Duration) *SlotCache {
	if ttl <= 0 {
		ttl = defaultSlotTTL
	}
	return &SlotCache{ttl: ttl}
}

// Get returns the cached slot when from is inside the cache window.
func (c *SlotCache) Get(from time.Time) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filled {
		return time.Time{}, false
	}
	diff := from.Sub(c.from)
	if diff < 0 {
		diff = -diff
	}
	if diff >= c.ttl {
		return time.Time{}, false
	}
	return c.slot, true
}

// Put overwrites the single entry.
func (c *SlotCache) Put(from, slot time.Time) {
	c.mu.Lock()
	c.filled = true
	c.from = from
	c.slot = slot
	c.mu.Unlock()
}

// Reset drops the cached entry.
func (c *SlotCache) Reset() {
	c.mu.Lock()
	c.filled = false
	c.from = time.Time{}
	c.slot = time.Time{}
	c.mu.Unlock()
}

// SlotFinderDeps configures a SlotFinder. Zero values select the storefront defaults.
type SlotFinderDeps struct {
	Calendar *Calendar
	LeadTime time.Duration
	Cache    *SlotCache
	Logger   *zap.Logger
}

// SlotFinder computes the earliest pickup instant that honours the lead time and the calendar.
type SlotFinder struct {
	calendar Calendar
	leadTime time.Duration
	cache    *SlotCache
	logger   *zap.Logger
}

// NewSlotFinder wires a finder from deps.
func NewSlotFinder(deps SlotFinderDeps) *SlotFinder {
	cal := DefaultCalendar(nil)
	if deps.Calendar != nil {
		cal = *deps.Calendar
	}
	lead := deps.LeadTime
	if lead <= 0 {
		lead = defaultLeadTime
	}
	cache := deps.Cache
	if cache == nil {
		cache = NewSlotCache(defaultSlotTTL)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotFinder{
		calendar: cal,
		leadTime: lead,
		cache:    cache,
		logger:   logger,
	}
}

// Calendar returns the calendar the finder searches.
func (f *SlotFinder) Calendar() Calendar {
	return f.calendar
}

// LeadTime returns the minimum distance between the reference instant and a slot.
func (f *SlotFinder) LeadTime() time.Duration {
	return f.leadTime
}

// Cache exposes the slot cache so callers can reset it.
func (f *SlotFinder) Cache() *SlotCache {
	return f.cache
}

// NextBusinessDateTime returns the earliest instant at least LeadTime after from that falls on
// an open day inside its opening window.
func (f *SlotFinder) NextBusinessDateTime(from time.Time) time.Time {
	if slot, ok := f.cache.Get(from); ok {
		f.logger.Debug("slot cache hit", zap.Time("from", from), zap.Time("slot", slot))
		return slot
	}
	slot := f.search(from)
	f.cache.Put(from, slot)
	f.logger.Debug("slot cache miss", zap.Time("from", from), zap.Time("slot", slot))
	return slot
}

func (f *SlotFinder) search(from time.Time) time.Time {
	loc := f.calendar.Location()
	candidate := from.In(loc).Add(f.leadTime)
	for i := 0; i < maxSlotSearch; i++ {
		hours, open := f.calendar.HoursFor(candidate.Weekday())
		if !open || candidate.Hour() >= hours.Close {
			candidate = startOfNextDay(candidate)
			continue
		}
		if candidate.Hour() < hours.Open {
			candidate = time.Date(candidate.Year(), candidate.Month(), candidate.Day(), hours.Open, 0, 0, 0, loc)
		}
		return candidate
	}
	return f.openingAfter(candidate)
}

// openingAfter finishes a search whose iteration budget ran out on a run of closed days.
func (f *SlotFinder) openingAfter(candidate time.Time) time.Time {
	loc := f.calendar.Location()
	for i := 0; i < maxSlotSearch; i++ {
		if hours, open := f.calendar.HoursFor(candidate.Weekday()); open {
			return time.Date(candidate.Year(), candidate.Month(), candidate.Day(), hours.Open, 0, 0, 0, loc)
		}
		candidate = startOfNextDay(candidate)
	}
	return candidate
}

func startOfNextDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// PickupDateTime combines a YYYY-MM-DD date and an HH:MM time into an instant in the
// calendar's location. The second result is false when either part is empty or malformed.
func (f *SlotFinder) PickupDateTime(date, clock string) (time.Time, bool) {
	return PickupDateTime(date, clock, f.calendar.Location())
}

// PickupDateTime is the location-explicit form of SlotFinder.PickupDateTime.
func PickupDateTime(date, clock string, loc *time.Location) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	dateParts := strings.Split(date, "-")
	clockParts := strings.Split(clock, ":")
	if len(dateParts) != 3 || len(clockParts) < 2 {
		return time.Time{}, false
	}
	year, ok := atoi(dateParts[0])
	if !ok {
		return time.Time{}, false
	}
	month, ok := atoi(dateParts[1])
	if !ok || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, ok := atoi(dateParts[2])
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}
	hour, ok := atoi(clockParts[0])
	if !ok || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute, ok := atoi(clockParts[1])
	if !ok || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
}

func atoi(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}
