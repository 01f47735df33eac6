package statistics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// DailyPoint aggregates the orders created on one local day.
type DailyPoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

const dayLabelLayout = "02/01"

// BuildDailySeries emits one point per day of r, including days without orders.
func BuildDailySeries(orders []domain.Order, r DateRange) []DailyPoint {
	days := r.Days()
	if days <= 0 {
		return []DailyPoint{}
	}
	loc := r.Start.Location()
	points := make([]DailyPoint, 0, days)
	index := make(map[string]int, days)
	for day := startOfDay(r.Start); !day.After(r.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(domain.DateLayout)
		index[key] = len(points)
		points = append(points, DailyPoint{Date: key, Label: day.Format(dayLabelLayout)})
	}

	for _, order := range orders {
		created, ok := order.CreatedTime(loc)
		if !ok {
			continue
		}
		i, ok := index[created.Format(domain.DateLayout)]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].Revenue += OrderTotal(order)
	}
	return points
}

// HourBucket counts orders per hour of the day.
type HourBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ComputePickupHourDistribution buckets orders by the hour of their pickup time.
func ComputePickupHourDistribution(orders []domain.Order) []HourBucket {
	counts := make(map[int]int)
	for _, order := range orders {
		hour, ok := clockHour(order.PickupTime)
		if !ok {
			continue
		}
		counts[hour]++
	}
	return hourBuckets(counts)
}

// ComputeOrderHourDistribution buckets orders by the local hour they were created at.
func ComputeOrderHourDistribution(orders []domain.Order, loc *time.Location) []HourBucket {
	counts := make(map[int]int)
	for _, order := range orders {
		created, ok := order.CreatedTime(loc)
		if !ok {
			continue
		}
		counts[created.Hour()]++
	}
	return hourBuckets(counts)
}

func hourBuckets(counts map[int]int) []HourBucket {
	out := make([]HourBucket, 0, len(counts))
	for hour, count := range counts {
		out = append(out, HourBucket{Label: fmt.Sprintf("%02d:00", hour), Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func clockHour(raw string) (int, bool) {
	head, _, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// Averages are order rates over a window.
type Averages struct {
	PerDay  float64 `json:"perDay"`
	PerWeek float64 `json:"perWeek"`
}

// ComputeAverageOrders divides the order count by the day span of r.
func ComputeAverageOrders(orders []domain.Order, r DateRange) Averages {
	days := r.Days()
	if days <= 0 {
		return Averages{}
	}
	n := float64(len(orders))
	return Averages{
		PerDay:  n / float64(days),
		PerWeek: n / (float64(days) / 7),
	}
}
