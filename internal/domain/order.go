package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderID is the order number. The backend stores it as a number while clients often send it as text.
type OrderID string

func (id OrderID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string or number and keeps its textual form.
func (id *OrderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*id = OrderID(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("order id must be a string or number: %w", err)
	}
	*id = OrderID(number.String())
	return nil
}

// Order mirrors an order record as returned by the hosted backend. The engines treat it as read-only.
type Order struct {
	ID            OrderID    `json:"id"`
	Customer      *Customer  `json:"customer,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	CreatedAt     string     `json:"created_at"`
	PickupDate    string     `json:"pickup_date"`
	PickupTime    string     `json:"pickup_time"`
	Total         *float64   `json:"total,omitempty"`
	TotalPrice    *float64   `json:"total_price,omitempty"`
	Paid          bool       `json:"paid"`
	Deleted       bool       `json:"deleted"`
	AdminNotes    *string    `json:"admin_notes,omitempty"`
	CustomerNotes *string    `json:"customer_notes,omitempty"`
	Items         []LineItem `json:"items,omitempty"`
	OrderItems    []LineItem `json:"order_items,omitempty"`
}

// Customer holds the nested customer projection joined by the backend.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LineItem is a single product row of an order.
type LineItem struct {
	Title        string  `json:"title,omitempty"`
	ProductTitle string  `json:"product_title,omitempty"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"price"`
	LineTotal    float64 `json:"total"`
}

// DisplayTitle returns the product title, preferring the denormalised title.
func (i LineItem) DisplayTitle() string {
	if title := strings.TrimSpace(i.Title); title != "" {
		return title
	}
	return strings.TrimSpace(i.ProductTitle)
}

// CustomerDisplayName resolves the nested customer name, falling back to the flat column.
func (o Order) CustomerDisplayName() (string, bool) {
	if o.Customer != nil && o.Customer.Name != "" {
		return o.Customer.Name, true
	}
	if o.CustomerName != "" {
		return o.CustomerName, true
	}
	if o.Customer != nil {
		return "", true
	}
	return "", false
}

// LineItems prefers the relational item list when the backend joined it.
func (o Order) LineItems() []LineItem {
	if len(o.OrderItems) > 0 {
		return o.OrderItems
	}
	return o.Items
}

// CreatedTime parses CreatedAt in loc. The second result is false when the timestamp is unusable.
func (o Order) CreatedTime(loc *time.Location) (time.Time, bool) {
	return ParseTime(o.CreatedAt, loc)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999-07",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DateLayout,
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseTime accepts the timestamp shapes the backend and the admin forms produce.
// Values without an offset are interpreted in loc.
func ParseTime(raw string, loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// IsDateOnly reports whether raw is a bare calendar date.
func IsDateOnly(raw string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	return err == nil
}
