package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lechem-bakery/storefront/internal/domain"
)

func TestBuildDailySeries(t *testing.T) {
	t.Parallel()

	r := CustomRange(day(2026, time.March, 1), day(2026, time.March, 3))
	orders := []domain.Order{
		{CreatedAt: "2026-03-01T10:00:00Z", Total: amount(100)},
		{CreatedAt: "2026-03-01T12:00:00Z", Total: amount(50)},
		{CreatedAt: "2026-03-03T08:00:00Z", TotalPrice: amount(20)},
		{CreatedAt: "2026-03-05T08:00:00Z", Total: amount(999)},
		{CreatedAt: "broken", Total: amount(999)},
	}

	series := BuildDailySeries(orders, r)
	require.Equal(t, []DailyPoint{
		{Date: "2026-03-01", Label: "01/03", Orders: 2, Revenue: 150},
		{Date: "2026-03-02", Label: "02/03", Orders: 0, Revenue: 0},
		{Date: "2026-03-03", Label: "03/03", Orders: 1, Revenue: 20},
	}, series)
}

func TestBuildDailySeriesUsesRangeZone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("IST", 2*60*60)
	r := CustomRange(time.Date(2026, time.March, 2, 0, 0, 0, 0, loc), time.Date(2026, time.March, 2, 0, 0, 0, 0, loc))
	// 23:30 UTC on March 1 is already March 2 locally.
	series := BuildDailySeries([]domain.Order{{CreatedAt: "2026-03-01T23:30:00Z"}}, r)
	require.Len(t, series, 1)
	require.Equal(t, 1, series[0].Orders)
}

func TestHourDistributions(t *testing.T) {
	t.Parallel()

	orders := []domain.Order{
		{PickupTime: "08:30", CreatedAt: "2026-03-01T13:05:00Z"},
		{PickupTime: "08:00", CreatedAt: "2026-03-01T07:59:00Z"},
		{PickupTime: "13:15", CreatedAt: "2026-03-02T13:45:00Z"},
		{PickupTime: "bad", CreatedAt: "bad"},
		{},
	}

	require.Equal(t, []HourBucket{{Label: "08:00", Count: 2}, {Label: "13:00", Count: 1}}, ComputePickupHourDistribution(orders))
	require.Equal(t, []HourBucket{{Label: "07:00", Count: 1}, {Label: "13:00", Count: 2}}, ComputeOrderHourDistribution(orders, time.UTC))
	require.Empty(t, ComputePickupHourDistribution(nil))
}

func TestComputeAverageOrders(t *testing.T) {
	t.Parallel()

	orders := make([]domain.Order, 15)
	avg := ComputeAverageOrders(orders, GetDateRange(RangeLast30Days, statsNow))
	require.InDelta(t, 0.5, avg.PerDay, 1e-9)
	require.InDelta(t, 3.5, avg.PerWeek, 1e-9)

	require.Equal(t, Averages{}, ComputeAverageOrders(orders, DateRange{Start: statsNow, End: statsNow.Add(-time.Hour)}))
}
