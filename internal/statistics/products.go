package statistics

import (
	"math"
	"sort"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// ProductShare is one row of the popular products table.
type ProductShare struct {
	Title string  `json:"title"`
	Qty   float64 `json:"qty"`
	Share float64 `json:"share"`
}

// ComputePopularProducts sums quantities per product title and returns the top limit entries.
// Share is the percentage of all units sold. A non-positive limit keeps every product.
func ComputePopularProducts(orders []domain.Order, limit int) []ProductShare {
	index := make(map[string]int)
	var rows []ProductShare
	var units float64
	for _, order := range orders {
		for _, item := range order.LineItems() {
			title := item.DisplayTitle()
			if title == "" {
				continue
			}
			qty := item.Quantity
			if math.IsNaN(qty) || math.IsInf(qty, 0) {
				qty = 0
			}
			i, ok := index[title]
			if !ok {
				i = len(rows)
				index[title] = i
				rows = append(rows, ProductShare{Title: title})
			}
			rows[i].Qty += qty
			units += qty
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Qty > rows[j].Qty })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		if units > 0 {
			rows[i].Share = rows[i].Qty / units * 100
		}
	}
	if rows == nil {
		rows = []ProductShare{}
	}
	return rows
}
