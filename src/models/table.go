package models

// RawTable is a loaded file before any business logic: a header row and
// untyped string cells. Every row has exactly len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// NormalizedTable is a RawTable whose columns use the canonical vocabulary.
type NormalizedTable struct {
	Columns      []string
	Rows         [][]string
	Capabilities Capabilities
	Stats        NormalizationStats
}

// ColumnIndex returns the index of the named column or -1.
func (t *NormalizedTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// NormalizationStats counts the rows removed by the schema normalizer.
type NormalizationStats struct {
	RowsRead        int `json:"rows_read"`
	SentinelDropped int `json:"sentinel_rows_dropped"`
	EmptyDropped    int `json:"empty_rows_dropped"`
	SubtotalDropped int `json:"subtotal_rows_dropped"`
}

// CoercionStats counts the rows removed and cells left absent by the value
// coercer.
type CoercionStats struct {
	MissingGrossDropped int `json:"missing_gross_rows_dropped"`
	InvalidDateDropped  int `json:"invalid_date_rows_dropped"`
	// UnparsedCells counts, per field, non-empty cells that did not coerce.
	UnparsedCells map[string]int `json:"unparsed_cells,omitempty"`
}

// IngestStats groups the per-stage diagnostics of one upload.
type IngestStats struct {
	Normalization NormalizationStats `json:"normalization"`
	Coercion      CoercionStats      `json:"coercion"`
}
