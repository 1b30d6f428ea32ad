package models

import (
	"encoding/json"
	"time"
)

// NullFloat is a number that may be absent. Absent values marshal as null.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// OrZero returns the value, or 0 when absent.
func (n NullFloat) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Record is one ledger row after value coercion.
type Record struct {
	Date           time.Time `json:"date"`
	MovementType   string    `json:"movement_type,omitempty"`
	Representative string    `json:"representative,omitempty"`
	Customer       string    `json:"customer,omitempty"`
	Description    string    `json:"description,omitempty"`
	Invoice        string    `json:"invoice,omitempty"`
	ProductCode    string    `json:"product_code,omitempty"`
	Segment        string    `json:"segment,omitempty"`

	GrossValue       float64   `json:"gross_value"`
	NetValue         NullFloat `json:"net_value"`
	TotalCost        NullFloat `json:"total_cost"`
	MarginValue      NullFloat `json:"margin_value"`
	MarginPercentage NullFloat `json:"margin_percentage"`
	Quantity         NullFloat `json:"quantity"`
	UnitCost         NullFloat `json:"unit_cost"`

	// MarginPercentageText keeps the source cell for the margin engine's
	// second parse attempt.
	MarginPercentageText string `json:"-"`

	// Extra holds columns outside the canonical vocabulary.
	Extra map[string]string `json:"extra,omitempty"`
}

// Text returns the value of a canonical text field.
func (r Record) Text(field string) string {
	switch field {
	case FieldMovementType:
		return r.MovementType
	case FieldRepresentative:
		return r.Representative
	case FieldCustomer:
		return r.Customer
	case FieldDescription:
		return r.Description
	case FieldInvoice:
		return r.Invoice
	case FieldProductCode:
		return r.ProductCode
	case FieldSegment:
		return r.Segment
	}
	return r.Extra[field]
}

// SetText assigns a canonical text field, or an Extra column otherwise.
func (r *Record) SetText(field, value string) {
	switch field {
	case FieldMovementType:
		r.MovementType = value
	case FieldRepresentative:
		r.Representative = value
	case FieldCustomer:
		r.Customer = value
	case FieldDescription:
		r.Description = value
	case FieldInvoice:
		r.Invoice = value
	case FieldProductCode:
		r.ProductCode = value
	case FieldSegment:
		r.Segment = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[field] = value
	}
}

// Number returns the value of a canonical numeric field.
func (r Record) Number(field string) NullFloat {
	switch field {
	case FieldGrossValue:
		return Float(r.GrossValue)
	case FieldNetValue:
		return r.NetValue
	case FieldTotalCost:
		return r.TotalCost
	case FieldMarginValue:
		return r.MarginValue
	case FieldMarginPercentage:
		return r.MarginPercentage
	case FieldQuantity:
		return r.Quantity
	case FieldUnitCost:
		return r.UnitCost
	}
	return NullFloat{}
}

// SetNumber assigns a canonical numeric field. Unknown fields are ignored.
func (r *Record) SetNumber(field string, v NullFloat) {
	switch field {
	case FieldGrossValue:
		r.GrossValue = v.Value
	case FieldNetValue:
		r.NetValue = v
	case FieldTotalCost:
		r.TotalCost = v
	case FieldMarginValue:
		r.MarginValue = v
	case FieldMarginPercentage:
		r.MarginPercentage = v
	case FieldQuantity:
		r.Quantity = v
	case FieldUnitCost:
		r.UnitCost = v
	}
}

// CoercedTable is the output of the value coercer.
type CoercedTable struct {
	Records      []Record
	Capabilities Capabilities
	Stats        IngestStats
}

// Dataset is the immutable, fully processed table of one uploaded file.
// Filtering and aggregation read it but never modify it.
type Dataset struct {
	ID           string
	FileName     string
	UploadedAt   time.Time
	Records      []Record
	Capabilities Capabilities
	Stats        IngestStats
	MarginScaled bool
	Warnings     []string
}

// DatasetInfo describes an upload outcome for the presentation layer.
type DatasetInfo struct {
	ID           string        `json:"id,omitempty"`
	FileName     string        `json:"file_name"`
	UploadedAt   time.Time     `json:"uploaded_at,omitempty"`
	RecordCount  int           `json:"record_count"`
	Capabilities *Capabilities `json:"capabilities,omitempty"`
	Stats        *IngestStats  `json:"stats,omitempty"`
	MarginScaled bool          `json:"margin_scaled"`
	Warnings     []string      `json:"warnings,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Info summarises the dataset.
func (d *Dataset) Info() DatasetInfo {
	caps := d.Capabilities
	stats := d.Stats
	return DatasetInfo{
		ID:           d.ID,
		FileName:     d.FileName,
		UploadedAt:   d.UploadedAt,
		RecordCount:  len(d.Records),
		Capabilities: &caps,
		Stats:        &stats,
		MarginScaled: d.MarginScaled,
		Warnings:     d.Warnings,
	}
}
