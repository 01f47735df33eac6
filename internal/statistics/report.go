package statistics

import (
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// Report is everything the admin statistics page renders for one window.
type Report struct {
	Key             RangeKey       `json:"range"`
	Range           DateRange      `json:"current"`
	Previous        DateRange      `json:"previous"`
	KPIs            KPIs           `json:"kpis"`
	Cards           []Card         `json:"cards"`
	Daily           []DailyPoint   `json:"daily"`
	PopularProducts []ProductShare `json:"popularProducts"`
	PickupHours     []HourBucket   `json:"pickupHours"`
	OrderHours      []HourBucket   `json:"orderHours"`
	Averages        Averages       `json:"averages"`
	Seasonality     []MonthBucket  `json:"seasonality"`
	GeneratedAt     time.Time      `json:"generatedAt"`
}

// ReportOptions tunes the list sizes of a report.
type ReportOptions struct {
	PopularLimit      int
	SeasonalityMonths int
}

const defaultPopularLimit = 5

// Windows resolves the current and comparison windows for key. Custom windows use start and end.
func Windows(key RangeKey, now, start, end time.Time) (DateRange, DateRange) {
	if key == RangeCustom {
		current := CustomRange(start.In(now.Location()), end.In(now.Location()))
		return current, current.Previous()
	}
	return GetDateRange(key, now), GetPreviousDateRange(key, now)
}

// BuildReport assembles the statistics page for the given windows. Seasonality looks at all orders;
// the other sections only at orders created inside current.
func BuildReport(orders []domain.Order, key RangeKey, current, previous DateRange, now time.Time, opts ReportOptions) Report {
	limit := opts.PopularLimit
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	inRange := FilterOrdersByRange(orders, current)
	before := FilterOrdersByRange(orders, previous)
	kpis := ComputeKpis(inRange, before)

	return Report{
		Key:             key,
		Range:           current,
		Previous:        previous,
		KPIs:            kpis,
		Cards:           kpis.Cards(),
		Daily:           BuildDailySeries(inRange, current),
		PopularProducts: ComputePopularProducts(inRange, limit),
		PickupHours:     ComputePickupHourDistribution(inRange),
		OrderHours:      ComputeOrderHourDistribution(inRange, current.Start.Location()),
		Averages:        ComputeAverageOrders(inRange, current),
		Seasonality:     ComputeMonthlySeasonality(orders, now, opts.SeasonalityMonths),
		GeneratedAt:     now,
	}
}
