package processors

import (
	"errors"
	"strings"

	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/utils"
)

type valueCoercerImpl struct{}

func NewValueCoercer() ValueCoercer {
	return &valueCoercerImpl{}
}

// Coerce parses every numeric and date cell. Rows without a gross value, and
// rows with an unreadable date when the file has a date column, are dropped.
// Other unparseable numbers become absent.
func (c *valueCoercerImpl) Coerce(table *models.NormalizedTable) (*models.CoercedTable, error) {
	if table == nil {
		return nil, errors.New("coerce: nil table")
	}

	numeric := make(map[string]int)
	for _, f := range models.NumericFields {
		if i := table.ColumnIndex(f); i >= 0 {
			numeric[f] = i
		}
	}
	text := make(map[string]int)
	for i, col := range table.Columns {
		if _, isNumeric := numeric[col]; isNumeric || col == models.FieldDate {
			continue
		}
		text[col] = i
	}
	dateIdx := -1
	if table.Capabilities.HasSource(models.FieldDate) {
		dateIdx = table.ColumnIndex(models.FieldDate)
	}
	grossIdx, hasGross := numeric[models.FieldGrossValue]

	stats := models.CoercionStats{UnparsedCells: make(map[string]int)}
	records := make([]models.Record, 0, len(table.Rows))

	for _, row := range table.Rows {
		if !hasGross {
			stats.MissingGrossDropped++
			continue
		}
		gross, ok := utils.ParseLocaleNumber(row[grossIdx])
		if !ok {
			if strings.TrimSpace(row[grossIdx]) != "" {
				stats.UnparsedCells[models.FieldGrossValue]++
			}
			stats.MissingGrossDropped++
			continue
		}

		rec := models.Record{GrossValue: gross}
		if dateIdx >= 0 {
			d, ok := utils.ParseLedgerDate(row[dateIdx])
			if !ok {
				stats.InvalidDateDropped++
				continue
			}
			rec.Date = d
		}

		for f, i := range numeric {
			if f == models.FieldGrossValue {
				continue
			}
			cell := row[i]
			if v, ok := utils.ParseLocaleNumber(cell); ok {
				rec.SetNumber(f, models.Float(v))
			} else if strings.TrimSpace(cell) != "" {
				stats.UnparsedCells[f]++
			}
		}
		if i, ok := numeric[models.FieldMarginPercentage]; ok {
			rec.MarginPercentageText = row[i]
		}

		for col, i := range text {
			v := strings.TrimSpace(row[i])
			if v == "" && !isTextField(col) {
				continue
			}
			rec.SetText(col, v)
		}
		records = append(records, rec)
	}

	if len(stats.UnparsedCells) == 0 {
		stats.UnparsedCells = nil
	}
	if dropped := stats.MissingGrossDropped + stats.InvalidDateDropped; dropped > 0 {
		logger.L.Debug("Dropped rows during coercion",
			"missingGross", stats.MissingGrossDropped,
			"invalidDate", stats.InvalidDateDropped,
			"unparsedCells", stats.UnparsedCells)
	}

	return &models.CoercedTable{
		Records:      records,
		Capabilities: table.Capabilities,
		Stats: models.IngestStats{
			Normalization: table.Stats,
			Coercion:      stats,
		},
	}, nil
}

func isTextField(field string) bool {
	for _, f := range models.TextFields {
		if f == field {
			return true
		}
	}
	return false
}
