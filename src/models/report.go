package models

import (
	"fmt"
	"strings"
	"time"
)

// Dimension is a grouping key for margin breakdowns.
type Dimension string

const (
	DimensionRepresentative Dimension = "representative"
	DimensionCustomer       Dimension = "customer"
	DimensionMonth          Dimension = "month"
	DimensionProduct        Dimension = "product"
)

// Dimensions lists the breakdowns in dashboard order.
var Dimensions = []Dimension{DimensionRepresentative, DimensionCustomer, DimensionMonth, DimensionProduct}

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// AggregateOptions selects the grouping of a breakdown. TopN <= 0 means the
// dimension's default.
type AggregateOptions struct {
	Dimension Dimension
	TopN      int
}

// GroupRow is one group of a margin breakdown.
type GroupRow struct {
	Key              string  `json:"key"`
	Label            string  `json:"label"`
	Records          int     `json:"records"`
	NetValue         float64 `json:"net_value"`
	TotalCost        float64 `json:"total_cost"`
	MarginValue      float64 `json:"margin_value"`
	MarginPercentage float64 `json:"margin_percentage"`
}

// MarginBreakdown is the aggregate of a filtered view over one dimension.
type MarginBreakdown struct {
	Dimension Dimension  `json:"dimension"`
	Rows      []GroupRow `json:"rows"`
	// Groups is the number of distinct keys before top-N truncation.
	Groups int `json:"groups"`
}

// Summary holds the dashboard's key metrics.
type Summary struct {
	Records       int     `json:"records"`
	GrossValue    float64 `json:"gross_value"`
	TotalCost     float64 `json:"total_cost"`
	NetValue      float64 `json:"net_value"`
	MarginValue   float64 `json:"margin_value"`
	AverageMargin float64 `json:"average_margin"`
}

// FilterOptions lists the selectable values for each filter.
type FilterOptions struct {
	DateMin         *time.Time `json:"date_min,omitempty"`
	DateMax         *time.Time `json:"date_max,omitempty"`
	MovementTypes   []string   `json:"movement_types"`
	Representatives []string   `json:"representatives"`
	Customers       []string   `json:"customers"`
	Products        []string   `json:"products"`
	// Unavailable maps a filter name to the reason it cannot be applied.
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

// Cell carries a raw value for charts and sorting next to its pt-BR
// display string. Value is nil for absent numbers.
type Cell struct {
	Value   any    `json:"value"`
	Display string `json:"display"`
}

// Column kinds tell renderers and exporters how to treat a column.
const (
	KindText     = "text"
	KindDate     = "date"
	KindCurrency = "currency"
	KindPercent  = "percent"
	KindInteger  = "integer"
)

// Column is a table column with its display label.
type Column struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// TableView is a table ready for rendering.
type TableView struct {
	Columns []Column `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// GroupRowView is a GroupRow with formatted cells.
type GroupRowView struct {
	Key              string `json:"key"`
	Label            string `json:"label"`
	Records          int    `json:"records"`
	NetValue         Cell   `json:"net_value"`
	TotalCost        Cell   `json:"total_cost"`
	MarginValue      Cell   `json:"margin_value"`
	MarginPercentage Cell   `json:"margin_percentage"`
}

// ChartView is one margin chart. When Available is false, Message explains
// why the chart was skipped.
type ChartView struct {
	Dimension Dimension      `json:"dimension"`
	Title     string         `json:"title"`
	Available bool           `json:"available"`
	Message   string         `json:"message,omitempty"`
	Groups    int            `json:"groups,omitempty"`
	Rows      []GroupRowView `json:"rows,omitempty"`
}

// SummaryView is a Summary with formatted cells.
type SummaryView struct {
	Records       int  `json:"records"`
	GrossValue    Cell `json:"gross_value"`
	TotalCost     Cell `json:"total_cost"`
	NetValue      Cell `json:"net_value"`
	MarginValue   Cell `json:"margin_value"`
	AverageMargin Cell `json:"average_margin"`
}

// Report is everything one dashboard render needs.
type Report struct {
	Dataset  DatasetInfo   `json:"dataset"`
	Filters  FilterOptions `json:"filters"`
	Summary  SummaryView   `json:"summary"`
	Table    TableView     `json:"table"`
	Charts   []ChartView   `json:"charts"`
	Warnings []string      `json:"warnings,omitempty"`
}
