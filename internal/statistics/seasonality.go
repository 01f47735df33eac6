package statistics

import (
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// MonthBucket counts orders created in one calendar month.
type MonthBucket struct {
	Month string `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

var hebrewMonths = [...]string{"ינו׳", "פבר׳", "מרץ", "אפר׳", "מאי", "יוני", "יולי", "אוג׳", "ספט׳", "אוק׳", "נוב׳", "דצמ׳"}

const defaultSeasonalityMonths = 12

// ComputeMonthlySeasonality counts orders for each of the trailing months ending with now's month,
// oldest first.
func ComputeMonthlySeasonality(orders []domain.Order, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		months = defaultSeasonalityMonths
	}
	loc := now.Location()
	first := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, loc)
	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := range buckets {
		month := first.AddDate(0, i, 0)
		key := month.Format("2006-01")
		index[key] = i
		buckets[i] = MonthBucket{Month: key, Label: hebrewMonths[month.Month()-1]}
	}

	for _, order := range orders {
		created, ok := order.CreatedTime(loc)
		if !ok {
			continue
		}
		if i, ok := index[created.Format("2006-01")]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
