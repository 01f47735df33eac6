package orders

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lechem-bakery/storefront/internal/domain"
)

// Filter is a single admin filter row.
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Validation reports whether a filter can be applied.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

const (
	errFieldRequired    = "נא לבחור שדה לסינון"
	errUnknownField     = "שדה הסינון אינו מוכר"
	errOperatorRequired = "נא לבחור תנאי לסינון"
	errOperatorInvalid  = "התנאי שנבחר אינו זמין עבור שדה זה"
	errRangeRequired    = "נא להזין ערך התחלה וערך סיום"
	errNumberInvalid    = "נא להזין ערך מספרי תקין"
	errDateInvalid      = "נא להזין תאריך תקין"
	errValueRequired    = "נא לבחור ערך"

	yesLabel = "כן"
	noLabel  = "לא"
)

// EngineDeps configures an Engine.
type EngineDeps struct {
	Registry *Registry
	Location *time.Location
}

// Engine evaluates admin filters against orders.
type Engine struct {
	registry *Registry
	loc      *time.Location
}

// NewEngine wires an engine; nil deps fall back to the default registry and the local zone.
func NewEngine(deps EngineDeps) *Engine {
	registry := deps.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return &Engine{registry: registry, loc: loc}
}

var defaultEngine = NewEngine(EngineDeps{})

// Registry returns the field table the engine dispatches on.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Matches evaluates one operator against a field value in the engine's zone.
func (e *Engine) Matches(fieldValue any, op Operator, filterValue any, kind FieldType) bool {
	return matchIn(fieldValue, op, filterValue, kind, e.loc)
}

// MatchesOrder reports whether order satisfies f.
func (e *Engine) MatchesOrder(order domain.Order, f Filter) bool {
	var kind FieldType
	if def, ok := e.registry.Field(f.Field); ok {
		kind = def.Type
	}
	return e.Matches(FieldValue(order, f.Field), f.Operator, f.Value, kind)
}

// ApplyFilters keeps the orders that satisfy every filter. An empty filter list returns orders unchanged.
func (e *Engine) ApplyFilters(orders []domain.Order, filters []Filter) []domain.Order {
	if len(filters) == 0 {
		return orders
	}
	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if e.matchesAll(order, filters) {
			out = append(out, order)
		}
	}
	return out
}

func (e *Engine) matchesAll(order domain.Order, filters []Filter) bool {
	for _, f := range filters {
		if !e.MatchesOrder(order, f) {
			return false
		}
	}
	return true
}

// ValidateFilter checks a filter against the registry before it is applied.
func (e *Engine) ValidateFilter(f Filter) Validation {
	if strings.TrimSpace(f.Field) == "" {
		return Validation{Error: errFieldRequired}
	}
	def, ok := e.registry.Field(f.Field)
	if !ok {
		return Validation{Error: errUnknownField}
	}
	if f.Operator == "" {
		return Validation{Error: errOperatorRequired}
	}
	if !def.Allows(f.Operator) {
		return Validation{Error: errOperatorInvalid}
	}

	if f.Operator.IsRange() {
		bounds, ok := rangeValues(f.Value)
		if !ok || !truthy(bounds[0]) || !truthy(bounds[1]) {
			return Validation{Error: errRangeRequired}
		}
		return Validation{Valid: true}
	}

	switch def.Type {
	case FieldNumber:
		if math.IsNaN(toNumber(f.Value)) {
			return Validation{Error: errNumberInvalid}
		}
	case FieldDate:
		if _, ok := toTime(f.Value, e.loc); !ok {
			return Validation{Error: errDateInvalid}
		}
	case FieldBoolean:
		if f.Value == nil {
			return Validation{Error: errValueRequired}
		}
		if s, isString := f.Value.(string); isString && s == "" {
			return Validation{Error: errValueRequired}
		}
	}
	return Validation{Valid: true}
}

// FormatFilterForDisplay renders a filter as "<field> <operator> <value>" for the active filter chips.
func (e *Engine) FormatFilterForDisplay(f Filter) string {
	label := f.Field
	opLabel := operatorLabels[f.Operator]
	var kind FieldType
	if def, ok := e.registry.Field(f.Field); ok {
		label = def.Label
		opLabel = def.OperatorLabel(f.Operator)
		kind = def.Type
	}
	if opLabel == "" {
		opLabel = string(f.Operator)
	}
	return fmt.Sprintf("%s %s %s", label, opLabel, displayValue(f.Value, kind))
}

func displayValue(v any, kind FieldType) string {
	if bounds, ok := rangeValues(v); ok {
		return toString(bounds[0]) + " - " + toString(bounds[1])
	}
	if _, isBool := v.(bool); isBool || kind == FieldBoolean {
		if toBool(v) {
			return yesLabel
		}
		return noLabel
	}
	return toString(v)
}

// ApplyFilters runs filters with the default registry in the local zone.
func ApplyFilters(orders []domain.Order, filters []Filter) []domain.Order {
	return defaultEngine.ApplyFilters(orders, filters)
}

// ValidateFilter validates f against the default registry.
func ValidateFilter(f Filter) Validation {
	return defaultEngine.ValidateFilter(f)
}

// FormatFilterForDisplay renders f with the default registry labels.
func FormatFilterForDisplay(f Filter) string {
	return defaultEngine.FormatFilterForDisplay(f)
}
