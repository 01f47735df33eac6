package statistics

import (
	"math"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// KPIs are the headline numbers of the statistics screen.
type KPIs struct {
	TotalOrders       int     `json:"totalOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	ConversionRate    float64 `json:"conversionRate"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	DeltaOrders       float64 `json:"deltaOrders"`
	DeltaRevenue      float64 `json:"deltaRevenue"`
	DeltaAverageOrder float64 `json:"deltaAverageOrder"`
}

// Trend describes the direction of a KPI delta.
type Trend string

const (
	// TrendFlat indicates no change against the previous window.
	TrendFlat Trend = "flat"
	// TrendUp indicates growth.
	TrendUp Trend = "up"
	// TrendDown indicates a decline.
	TrendDown Trend = "down"
)

// TrendOf classifies a percent delta.
func TrendOf(delta float64) Trend {
	switch {
	case delta > 0:
		return TrendUp
	case delta < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Card is one KPI tile with its comparison against the previous window.
type Card struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Delta float64 `json:"delta"`
	Trend Trend   `json:"trend"`
}

// OrderTotal returns the order amount, falling back to total_price and then to zero.
func OrderTotal(order domain.Order) float64 {
	var v float64
	switch {
	case order.Total != nil:
		v = *order.Total
	case order.TotalPrice != nil:
		v = *order.TotalPrice
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type totals struct {
	count     int
	revenue   float64
	converted int
}

func summarize(orders []domain.Order) totals {
	var t totals
	for _, order := range orders {
		t.count++
		t.revenue += OrderTotal(order)
		if order.Paid && !order.Deleted {
			t.converted++
		}
	}
	return t
}

func (t totals) average() float64 {
	if t.count == 0 {
		return 0
	}
	return t.revenue / float64(t.count)
}

// ComputeKpis summarises the current window and compares it with previous.
func ComputeKpis(current, previous []domain.Order) KPIs {
	cur := summarize(current)
	prev := summarize(previous)

	k := KPIs{
		TotalOrders:       cur.count,
		TotalRevenue:      cur.revenue,
		AverageOrderValue: cur.average(),
		DeltaOrders:       PercentChange(float64(cur.count), float64(prev.count)),
		DeltaRevenue:      PercentChange(cur.revenue, prev.revenue),
		DeltaAverageOrder: PercentChange(cur.average(), prev.average()),
	}
	if cur.count > 0 {
		k.ConversionRate = float64(cur.converted) / float64(cur.count) * 100
	}
	return k
}

// PercentChange returns the change from previous to current in percent. A zero baseline yields 100
// for growth and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// Cards lays the KPIs out as dashboard tiles.
func (k KPIs) Cards() []Card {
	return []Card{
		{ID: "orders", Label: "הזמנות", Value: float64(k.TotalOrders), Delta: k.DeltaOrders, Trend: TrendOf(k.DeltaOrders)},
		{ID: "revenue", Label: "הכנסות", Value: k.TotalRevenue, Delta: k.DeltaRevenue, Trend: TrendOf(k.DeltaRevenue)},
		{ID: "average", Label: "ממוצע להזמנה", Value: k.AverageOrderValue, Delta: k.DeltaAverageOrder, Trend: TrendOf(k.DeltaAverageOrder)},
		{ID: "conversion", Label: "אחוז תשלום", Value: k.ConversionRate, Trend: TrendFlat},
	}
}
