package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// Source supplies the order collection the admin screens work on.
type Source interface {
	// List returns every order known to the source, soft-deleted ones included.
	List(ctx context.Context) ([]domain.Order, error)
}

// StaticSource provides deterministic bakery orders suitable for local development and tests.
type StaticSource struct {
	orders []domain.Order
}

// NewStaticSource returns a StaticSource whose orders are placed relative to now.
func NewStaticSource(now time.Time) *StaticSource {
	day := func(offset int, hour, minute int) time.Time {
		base := now.AddDate(0, 0, offset)
		return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, now.Location())
	}
	money := func(v float64) *float64 {
		return &v
	}
	note := func(v string) *string {
		return &v
	}
	makeOrder := func(seq int, created time.Time, pickupOffset int, pickupTime string, base domain.Order) domain.Order {
		base.ID = domain.OrderID(fmt.Sprintf("ord-%04d", seq))
		base.CreatedAt = created.Format(time.RFC3339)
		base.PickupDate = created.AddDate(0, 0, pickupOffset).Format(domain.DateLayout)
		base.PickupTime = pickupTime
		return base
	}

	orders := []domain.Order{
		makeOrder(1041, day(-62, 9, 15), 2, "08:30", domain.Order{
			Customer: &domain.Customer{Name: "נועה לוי", Phone: "050-1234567"},
			Total:    money(96),
			Paid:     true,
			Items: []domain.LineItem{
				{Title: "חלה מתוקה", Quantity: 2, UnitPrice: 28, LineTotal: 56},
				{Title: "רוגלך שוקולד", Quantity: 1, UnitPrice: 40, LineTotal: 40},
			},
		}),
		makeOrder(1042, day(-35, 18, 40), 3, "12:00", domain.Order{
			CustomerName:  "אבי כהן",
			CustomerPhone: "052-7654321",
			TotalPrice:    money(180),
			Paid:          true,
			CustomerNotes: note("לחתוך את הלחם לפרוסות"),
			OrderItems: []domain.LineItem{
				{ProductTitle: "לחם מחמצת", Quantity: 3, UnitPrice: 35, LineTotal: 105},
				{ProductTitle: "עוגת שמרים", Quantity: 1, UnitPrice: 75, LineTotal: 75},
			},
		}),
		makeOrder(1043, day(-12, 7, 5), 1, "10:30", domain.Order{
			Customer:   &domain.Customer{Name: "מיכל אברהם", Phone: "054-1112233"},
			Total:      money(150),
			Paid:       false,
			AdminNotes: note("לקוחה ביקשה להתקשר לפני האיסוף"),
			Items: []domain.LineItem{
				{Title: "חלה מתוקה", Quantity: 3, UnitPrice: 28, LineTotal: 84},
				{Title: "בורקס גבינה", Quantity: 6, UnitPrice: 11, LineTotal: 66},
			},
		}),
		makeOrder(1044, day(-6, 11, 20), 2, "13:15", domain.Order{
			Customer: &domain.Customer{Name: "יוסי מזרחי", Phone: "053-9998877"},
			Total:    money(220),
			Paid:     true,
			Items: []domain.LineItem{
				{Title: "עוגת גבינה", Quantity: 1, UnitPrice: 120, LineTotal: 120},
				{Title: "לחם מחמצת", Quantity: 2, UnitPrice: 35, LineTotal: 70},
				{Title: "עוגיות חמאה", Quantity: 1, UnitPrice: 30, LineTotal: 30},
			},
		}),
		makeOrder(1045, day(-3, 20, 10), 2, "09:00", domain.Order{
			Customer:   &domain.Customer{Name: "שרה פרידמן", Phone: "050-4445566"},
			Total:      money(175),
			Paid:       true,
			Deleted:    true,
			AdminNotes: note("בוטלה טלפונית"),
			Items: []domain.LineItem{
				{Title: "חלה מתוקה", Quantity: 4, UnitPrice: 28, LineTotal: 112},
				{Title: "רוגלך שוקולד", Quantity: 1, UnitPrice: 40, LineTotal: 40},
				{Title: "בורקס גבינה", Quantity: 2, UnitPrice: 11.5, LineTotal: 23},
			},
		}),
		makeOrder(1046, day(-1, 8, 45), 2, "11:30", domain.Order{
			Customer:      &domain.Customer{Name: "דניאל ביטון", Phone: "058-3332211"},
			Total:         money(84),
			Paid:          false,
			CustomerNotes: note("ללא שומשום"),
			Items: []domain.LineItem{
				{Title: "חלה מתוקה", Quantity: 3, UnitPrice: 28, LineTotal: 84},
			},
		}),
		makeOrder(1047, day(0, 6, 30), 1, "14:00", domain.Order{
			Customer: &domain.Customer{Name: "רותם שלום", Phone: "052-1212121"},
			Total:    money(300),
			Paid:     true,
			Items: []domain.LineItem{
				{Title: "עוגת יום הולדת", Quantity: 1, UnitPrice: 240, LineTotal: 240},
				{Title: "עוגיות חמאה", Quantity: 2, UnitPrice: 30, LineTotal: 60},
			},
		}),
	}

	return &StaticSource{orders: orders}
}

// List returns a copy of the fixture orders.
func (s *StaticSource) List(_ context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), s.orders...), nil
}
