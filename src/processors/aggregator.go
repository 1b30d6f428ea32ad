package processors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/utils"
)

const (
	DefaultProductTopN = 10
	MinProductTopN     = 2
	MaxProductTopN     = 30
	CustomerTopN       = 10
	MaxLabelRunes      = 50
)

// ErrMissingColumns is returned when the dataset lacks a column a breakdown needs.
var ErrMissingColumns = errors.New("missing columns for breakdown")

// MissingColumnsError lists the fields a breakdown could not find.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return ErrMissingColumns.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

var (
	baseRequirements = []string{models.FieldNetValue, models.FieldTotalCost, models.FieldMarginValue}

	dimensionField = map[models.Dimension]string{
		models.DimensionRepresentative: models.FieldRepresentative,
		models.DimensionCustomer:       models.FieldCustomer,
		models.DimensionMonth:          models.FieldDate,
		models.DimensionProduct:        models.FieldDescription,
	}
)

// Requirements lists the fields a breakdown over d needs.
func Requirements(d models.Dimension) []string {
	req := append([]string{dimensionField[d]}, baseRequirements...)
	if d == models.DimensionProduct {
		req = append(req, models.FieldGrossValue)
	}
	return req
}

type aggregatorImpl struct{}

func NewAggregator() Aggregator {
	return &aggregatorImpl{}
}

type groupTotals struct {
	records int
	net     decimal.Decimal
	cost    decimal.Decimal
	margin  decimal.Decimal
}

func (a *aggregatorImpl) Aggregate(records []models.Record, caps models.Capabilities, opts models.AggregateOptions) (*models.MarginBreakdown, error) {
	field, ok := dimensionField[opts.Dimension]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", opts.Dimension)
	}
	if missing := caps.Missing(Requirements(opts.Dimension)...); len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}

	groups := make(map[string]*groupTotals)
	var keys []string
	for _, r := range records {
		var key string
		if field == models.FieldDate {
			key = utils.MonthKey(r.Date)
		} else {
			key = r.Text(field)
		}
		g, ok := groups[key]
		if !ok {
			g = &groupTotals{}
			groups[key] = g
			keys = append(keys, key)
		}
		g.records++
		if r.NetValue.Valid {
			g.net = g.net.Add(decimal.NewFromFloat(r.NetValue.Value))
		}
		if r.TotalCost.Valid {
			g.cost = g.cost.Add(decimal.NewFromFloat(r.TotalCost.Value))
		}
		if r.MarginValue.Valid {
			g.margin = g.margin.Add(decimal.NewFromFloat(r.MarginValue.Value))
		}
	}

	rows := make([]models.GroupRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		net, cost := g.net.InexactFloat64(), g.cost.InexactFloat64()
		label := key
		if opts.Dimension == models.DimensionCustomer {
			label = utils.TruncateLabel(key, MaxLabelRunes)
		}
		rows = append(rows, models.GroupRow{
			Key:              key,
			Label:            label,
			Records:          g.records,
			NetValue:         net,
			TotalCost:        cost,
			MarginValue:      g.margin.InexactFloat64(),
			MarginPercentage: AggregateMarginPercentage(net, cost),
		})
	}

	if opts.Dimension == models.DimensionMonth {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	} else {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].MarginValue != rows[j].MarginValue {
				return rows[i].MarginValue > rows[j].MarginValue
			}
			return rows[i].Key < rows[j].Key
		})
	}

	breakdown := &models.MarginBreakdown{Dimension: opts.Dimension, Groups: len(rows)}
	if n := topN(opts); n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	breakdown.Rows = rows
	return breakdown, nil
}

// topN returns the row limit for the dimension, 0 meaning unbounded.
func topN(opts models.AggregateOptions) int {
	switch opts.Dimension {
	case models.DimensionProduct:
		if opts.TopN <= 0 {
			return DefaultProductTopN
		}
		return utils.ClampInt(opts.TopN, MinProductTopN, MaxProductTopN)
	case models.DimensionCustomer:
		return CustomerTopN
	}
	return 0
}
