package orders

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
	"github.com/lechem-bakery/storefront/internal/platform/textutil"
)

// FieldValue reads a filterable value off an order. A nil result means the order has no value
// for the field, which never matches.
func FieldValue(order domain.Order, name string) any {
	switch name {
	case "id":
		return order.ID.String()
	case "customer_name":
		if value, ok := order.CustomerDisplayName(); ok {
			return value
		}
		return nil
	case "customer_phone":
		if order.Customer != nil && order.Customer.Phone != "" {
			return order.Customer.Phone
		}
		return stringOrNil(order.CustomerPhone)
	case "created_at":
		return stringOrNil(order.CreatedAt)
	case "pickup_date":
		return stringOrNil(order.PickupDate)
	case "pickup_time":
		return stringOrNil(order.PickupTime)
	case "total":
		return floatOrNil(order.Total)
	case "total_price":
		return floatOrNil(order.TotalPrice)
	case "paid":
		return order.Paid
	case "deleted":
		return order.Deleted
	case "admin_notes":
		return stringPtrOrNil(order.AdminNotes)
	case "customer_notes":
		return stringPtrOrNil(order.CustomerNotes)
	default:
		return nil
	}
}

func stringOrNil(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringPtrOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// Matches evaluates one operator against a field value, interpreting dates in the local zone.
func Matches(fieldValue any, op Operator, filterValue any, kind FieldType) bool {
	return matchIn(fieldValue, op, filterValue, kind, time.Local)
}

func matchIn(fieldValue any, op Operator, filterValue any, kind FieldType, loc *time.Location) bool {
	if fieldValue == nil {
		return false
	}
	switch op {
	case OpIs:
		if kind == FieldBoolean {
			return toBool(fieldValue) == toBool(filterValue)
		}
		return textutil.EqualFold(toString(fieldValue), toString(filterValue))
	case OpIsNot:
		return !textutil.EqualFold(toString(fieldValue), toString(filterValue))
	case OpContains:
		return textutil.ContainsFold(toString(fieldValue), toString(filterValue))
	case OpNotContains:
		return !textutil.ContainsFold(toString(fieldValue), toString(filterValue))
	case OpEquals:
		return toNumber(fieldValue) == toNumber(filterValue)
	case OpNotEquals:
		return toNumber(fieldValue) != toNumber(filterValue)
	case OpGreaterThan:
		return toNumber(fieldValue) > toNumber(filterValue)
	case OpLessThan:
		return toNumber(fieldValue) < toNumber(filterValue)
	case OpBetween:
		if kind == FieldDate {
			return dateBetween(fieldValue, filterValue, loc)
		}
		bounds, ok := rangeValues(filterValue)
		if !ok {
			return false
		}
		n := toNumber(fieldValue)
		return n >= toNumber(bounds[0]) && n <= toNumber(bounds[1])
	case OpBetweenDates:
		return dateBetween(fieldValue, filterValue, loc)
	case OpIsOn:
		field, ok := toTime(fieldValue, loc)
		if !ok {
			return false
		}
		day, ok := toTime(filterValue, loc)
		if !ok {
			return false
		}
		return field.In(loc).Format(domain.DateLayout) == day.In(loc).Format(domain.DateLayout)
	case OpBefore:
		field, ok := toTime(fieldValue, loc)
		if !ok {
			return false
		}
		bound, ok := toTime(filterValue, loc)
		return ok && field.Before(bound)
	case OpAfter:
		field, ok := toTime(fieldValue, loc)
		if !ok {
			return false
		}
		bound, ok := toTime(filterValue, loc)
		if !ok {
			return false
		}
		if isDateOnly(filterValue) {
			bound = endOfDay(bound)
		}
		return field.After(bound)
	default:
		return false
	}
}

func dateBetween(fieldValue, filterValue any, loc *time.Location) bool {
	bounds, ok := rangeValues(filterValue)
	if !ok {
		return false
	}
	field, ok := toTime(fieldValue, loc)
	if !ok {
		return false
	}
	start, ok := toTime(bounds[0], loc)
	if !ok {
		return false
	}
	end, ok := toTime(bounds[1], loc)
	if !ok {
		return false
	}
	if isDateOnly(bounds[1]) {
		end = endOfDay(end)
	}
	return !field.Before(start) && !field.After(end)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// rangeValues accepts the slice shapes a decoded range can take.
func rangeValues(v any) ([2]any, bool) {
	switch r := v.(type) {
	case []any:
		if len(r) == 2 {
			return [2]any{r[0], r[1]}, true
		}
	case [2]any:
		return r, true
	case []string:
		if len(r) == 2 {
			return [2]any{r[0], r[1]}, true
		}
	case []float64:
		if len(r) == 2 {
			return [2]any{r[0], r[1]}, true
		}
	case []int:
		if len(r) == 2 {
			return [2]any{r[0], r[1]}, true
		}
	}
	return [2]any{}, false
}

// toNumber follows the loose numeric conversion of form inputs: blank strings are zero and
// anything unparseable is NaN.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		return toNumber(string(n))
	case *float64:
		if n == nil {
			return math.NaN()
		}
		return *n
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if strings.ContainsAny(s, "_xXpP") {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

var (
	trueTokens  = map[string]bool{"true": true, "1": true, "yes": true}
	falseTokens = map[string]bool{"false": true, "0": true, "no": true}
)

// toBool maps the yes/no tokens first and falls back to truthiness.
func toBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		token := strings.ToLower(strings.TrimSpace(b))
		if trueTokens[token] {
			return true
		}
		if falseTokens[token] {
			return false
		}
		return b != ""
	case json.Number:
		return toBool(string(b))
	default:
		n := toNumber(v)
		return n != 0 && !math.IsNaN(n)
	}
}

// truthy reports whether a value counts as present for range endpoints.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	default:
		n := toNumber(v)
		return n != 0 && !math.IsNaN(n)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		n := toNumber(v)
		if math.IsNaN(n) {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

func toTime(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return domain.ParseTime(t, loc)
	default:
		return time.Time{}, false
	}
}

func isDateOnly(v any) bool {
	s, ok := v.(string)
	return ok && domain.IsDateOnly(s)
}
