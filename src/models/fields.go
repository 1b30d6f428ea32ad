package models

import (
	"encoding/json"
	"sort"
)

// Canonical field names. Every source column that is recognised is renamed
// to one of these by the schema normalizer.
const (
	FieldDate             = "date"
	FieldGrossValue       = "gross_value"
	FieldNetValue         = "net_value"
	FieldTotalCost        = "total_cost"
	FieldMarginValue      = "margin_value"
	FieldMarginPercentage = "margin_percentage"
	FieldRepresentative   = "representative"
	FieldCustomer         = "customer"
	FieldDescription      = "description"
	FieldMovementType     = "movement_type"
	FieldQuantity         = "quantity"
	FieldUnitCost         = "unit_cost"
	FieldInvoice          = "invoice"
	FieldProductCode      = "product_code"
	FieldSegment          = "segment"
)

// NumericFields are coerced from locale strings to numbers.
var NumericFields = []string{
	FieldGrossValue,
	FieldNetValue,
	FieldTotalCost,
	FieldMarginValue,
	FieldMarginPercentage,
	FieldQuantity,
	FieldUnitCost,
}

// TextFields are kept as trimmed text on the record.
var TextFields = []string{
	FieldMovementType,
	FieldRepresentative,
	FieldCustomer,
	FieldDescription,
	FieldInvoice,
	FieldProductCode,
	FieldSegment,
}

// RequiredFields are zero-filled when the source does not carry them.
var RequiredFields = []string{
	FieldGrossValue,
	FieldTotalCost,
	FieldMarginValue,
	FieldMarginPercentage,
}

// FieldSet is a set of canonical field names. It marshals as a sorted list.
type FieldSet map[string]bool

func NewFieldSet(fields ...string) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = true
	}
	return s
}

// Sorted returns the members in lexical order.
func (s FieldSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for f, ok := range s {
		if ok {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *FieldSet) UnmarshalJSON(b []byte) error {
	var fields []string
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*s = NewFieldSet(fields...)
	return nil
}

// Capabilities describes which canonical fields a dataset carries. It is
// computed once by the schema normalizer and consulted by every later stage
// instead of re-checking column presence.
type Capabilities struct {
	// Source holds the fields present in the uploaded file after synonym
	// mapping, before any zero-fill.
	Source FieldSet `json:"source_fields"`
	// Present holds Source plus the zero-filled required fields.
	Present FieldSet `json:"fields"`
}

// HasSource reports whether the field came from the uploaded file.
func (c Capabilities) HasSource(field string) bool {
	return c.Source[field]
}

// Has reports whether the field is available downstream.
func (c Capabilities) Has(field string) bool {
	return c.Present[field]
}

// Missing returns the fields that are not available, in argument order.
func (c Capabilities) Missing(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !c.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
