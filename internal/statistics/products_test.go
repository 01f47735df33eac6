package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lechem-bakery/storefront/internal/domain"
)

func TestComputePopularProducts(t *testing.T) {
	t.Parallel()

	orders := []domain.Order{
		{Items: []domain.LineItem{{Title: "חלה", Quantity: 2}, {Title: "עוגה", Quantity: 1}}},
		{Items: []domain.LineItem{{Title: "חלה", Quantity: 1}}},
	}
	got := ComputePopularProducts(orders, 5)
	require.Len(t, got, 2)
	require.Equal(t, "חלה", got[0].Title)
	require.Equal(t, 3.0, got[0].Qty)
	require.Equal(t, 75.0, got[0].Share)
	require.Equal(t, "עוגה", got[1].Title)
	require.Equal(t, 25.0, got[1].Share)
}

func TestComputePopularProductsPrefersRelationalItems(t *testing.T) {
	t.Parallel()

	orders := []domain.Order{
		{
			Items:      []domain.LineItem{{Title: "ignored", Quantity: 50}},
			OrderItems: []domain.LineItem{{ProductTitle: "בורקס", Quantity: 4}},
		},
		{Items: []domain.LineItem{{Title: "רוגלך", Quantity: 2}, {Quantity: 9}}},
	}
	got := ComputePopularProducts(orders, 1)
	require.Len(t, got, 1)
	require.Equal(t, "בורקס", got[0].Title)
	require.Equal(t, 4.0, got[0].Qty)
	require.InDelta(t, 66.666, got[0].Share, 0.001)
}

func TestComputePopularProductsEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, []ProductShare{}, ComputePopularProducts(nil, 5))
}

func TestComputeMonthlySeasonality(t *testing.T) {
	t.Parallel()

	orders := []domain.Order{
		{CreatedAt: "2026-01-20T10:00:00Z"},
		{CreatedAt: "2026-03-01T00:00:00Z"},
		{CreatedAt: "2026-03-14T10:00:00Z"},
		{CreatedAt: "2025-12-31T23:00:00Z"},
		{CreatedAt: "nope"},
	}
	got := ComputeMonthlySeasonality(orders, statsNow, 3)
	require.Equal(t, []MonthBucket{
		{Month: "2026-01", Label: "ינו׳", Count: 1},
		{Month: "2026-02", Label: "פבר׳", Count: 0},
		{Month: "2026-03", Label: "מרץ", Count: 2},
	}, got)

	full := ComputeMonthlySeasonality(nil, statsNow, 0)
	require.Len(t, full, 12)
	require.Equal(t, "2025-04", full[0].Month)
	require.Equal(t, "2026-03", full[11].Month)
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{ID: "a", CreatedAt: "2026-03-02T09:00:00Z", PickupTime: "10:00", Total: amount(100), Paid: true, Items: []domain.LineItem{{Title: "חלה", Quantity: 2}}},
		{ID: "b", CreatedAt: "2026-03-10T14:00:00Z", PickupTime: "12:30", Total: amount(50), Items: []domain.LineItem{{Title: "עוגה", Quantity: 1}}},
		{ID: "c", CreatedAt: "2026-02-10T14:00:00Z", Total: amount(75), Paid: true},
	}
	current, previous := Windows(RangeThisMonth, now, time.Time{}, time.Time{})
	report := BuildReport(orders, RangeThisMonth, current, previous, now, ReportOptions{SeasonalityMonths: 2})

	require.Equal(t, RangeThisMonth, report.Key)
	require.Equal(t, 2, report.KPIs.TotalOrders)
	require.Equal(t, 150.0, report.KPIs.TotalRevenue)
	require.Equal(t, 100.0, report.KPIs.DeltaOrders)
	require.Len(t, report.Daily, 15)
	require.Equal(t, "חלה", report.PopularProducts[0].Title)
	require.Len(t, report.PickupHours, 2)
	require.Len(t, report.OrderHours, 2)
	require.Len(t, report.Cards, 4)
	require.Equal(t, []MonthBucket{
		{Month: "2026-02", Label: "פבר׳", Count: 1},
		{Month: "2026-03", Label: "מרץ", Count: 2},
	}, report.Seasonality)
}

func TestWindowsCustom(t *testing.T) {
	t.Parallel()

	current, previous := Windows(RangeCustom, statsNow, day(2026, time.March, 10), day(2026, time.March, 14))
	require.Equal(t, 5, current.Days())
	require.Equal(t, 5, previous.Days())
	require.True(t, previous.End.Before(current.Start))
}
