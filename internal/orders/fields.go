package orders

// FieldType describes how a filterable field is compared.
type FieldType string

const (
	// FieldText compares case-insensitive strings.
	FieldText FieldType = "text"
	// FieldNumber compares numeric values.
	FieldNumber FieldType = "number"
	// FieldDate compares calendar dates and instants.
	FieldDate FieldType = "date"
	// FieldBoolean compares yes/no flags.
	FieldBoolean FieldType = "boolean"
)

// Operator names a comparison the admin can pick for a field.
type Operator string

const (
	OpIs           Operator = "is"
	OpIsNot        Operator = "isNot"
	OpContains     Operator = "contains"
	OpNotContains  Operator = "notContains"
	OpIsOn         Operator = "isOn"
	OpBefore       Operator = "before"
	OpAfter        Operator = "after"
	OpBetween      Operator = "between"
	OpBetweenDates Operator = "betweenDates"
	OpEquals       Operator = "equals"
	OpNotEquals    Operator = "notEquals"
	OpGreaterThan  Operator = "greaterThan"
	OpLessThan     Operator = "lessThan"
)

// IsRange reports whether the operator expects a two element value.
func (op Operator) IsRange() bool {
	return op == OpBetween || op == OpBetweenDates
}

// OperatorOption pairs an operator with its Hebrew label.
type OperatorOption struct {
	Value Operator `json:"value"`
	Label string   `json:"label"`
}

// FieldDefinition describes one filterable order field.
type FieldDefinition struct {
	Name      string           `json:"name"`
	Label     string           `json:"label"`
	Type      FieldType        `json:"type"`
	Operators []OperatorOption `json:"operators"`
}

// Allows reports whether op is registered for the field.
func (d FieldDefinition) Allows(op Operator) bool {
	for _, opt := range d.Operators {
		if opt.Value == op {
			return true
		}
	}
	return false
}

// OperatorLabel returns the Hebrew label for op, or the raw name when the field does not list it.
func (d FieldDefinition) OperatorLabel(op Operator) string {
	for _, opt := range d.Operators {
		if opt.Value == op {
			return opt.Label
		}
	}
	return string(op)
}

func (d FieldDefinition) clone() FieldDefinition {
	d.Operators = append([]OperatorOption(nil), d.Operators...)
	return d
}

var operatorLabels = map[Operator]string{
	OpIs:           "הוא",
	OpIsNot:        "אינו",
	OpContains:     "מכיל",
	OpNotContains:  "לא מכיל",
	OpIsOn:         "בתאריך",
	OpBefore:       "לפני",
	OpAfter:        "אחרי",
	OpBetween:      "בין",
	OpBetweenDates: "בין התאריכים",
	OpEquals:       "שווה ל",
	OpNotEquals:    "לא שווה ל",
	OpGreaterThan:  "גדול מ",
	OpLessThan:     "קטן מ",
}

var typeOperators = map[FieldType][]Operator{
	FieldText:    {OpIs, OpIsNot, OpContains, OpNotContains},
	FieldNumber:  {OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween},
	FieldDate:    {OpIsOn, OpBefore, OpAfter, OpBetween},
	FieldBoolean: {OpIs},
}

func options(ops ...Operator) []OperatorOption {
	out := make([]OperatorOption, 0, len(ops))
	for _, op := range ops {
		out = append(out, OperatorOption{Value: op, Label: operatorLabels[op]})
	}
	return out
}

func field(name, label string, kind FieldType, ops ...Operator) FieldDefinition {
	if len(ops) == 0 {
		ops = typeOperators[kind]
	}
	return FieldDefinition{Name: name, Label: label, Type: kind, Operators: options(ops...)}
}

// Registry is an immutable table of filterable fields.
type Registry struct {
	fields []FieldDefinition
	byName map[string]int
}

// NewRegistry builds a registry preserving the order of defs.
func NewRegistry(defs ...FieldDefinition) *Registry {
	r := &Registry{
		fields: make([]FieldDefinition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if _, dup := r.byName[def.Name]; dup {
			continue
		}
		r.byName[def.Name] = len(r.fields)
		r.fields = append(r.fields, def.clone())
	}
	return r
}

var defaultRegistry = NewRegistry(
	field("id", "מספר הזמנה", FieldText),
	field("customer_name", "שם לקוח", FieldText),
	field("created_at", "תאריך יצירה", FieldDate),
	field("total", "סכום כולל", FieldNumber),
	field("paid", "שולם", FieldBoolean),
	field("deleted", "נמחק", FieldBoolean),
	field("admin_notes", "הערות מנהל", FieldText, OpContains, OpNotContains),
	field("customer_notes", "הערות לקוח", FieldText, OpContains, OpNotContains),
)

// DefaultRegistry returns the order field table used by the admin panel.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Fields lists every definition in display order.
func (r *Registry) Fields() []FieldDefinition {
	out := make([]FieldDefinition, len(r.fields))
	for i, def := range r.fields {
		out[i] = def.clone()
	}
	return out
}

// Field looks up a definition by name.
func (r *Registry) Field(name string) (FieldDefinition, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return FieldDefinition{}, false
	}
	return r.fields[idx].clone(), true
}

// OperatorsFor returns the operators registered for name, or nil for unknown fields.
func (r *Registry) OperatorsFor(name string) []OperatorOption {
	def, ok := r.Field(name)
	if !ok {
		return nil
	}
	return def.Operators
}
