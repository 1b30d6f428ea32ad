package processors

import (
	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/utils"
)

const (
	// Margins below this are assumed to be fractions (0.25 for 25%).
	fractionMarginLimit = 2.0
	// Only ledgers whose mean gross value exceeds this are rescaled.
	fractionGrossMeanFloor = 1000.0
)

// WarnMarginScaleSkipped is reported when the unit-scale check cannot run.
const WarnMarginScaleSkipped = "Não foi possível verificar a escala da margem percentual; valores mantidos como no arquivo."

type marginEngineImpl struct{}

func NewMarginEngine() MarginEngine {
	return &marginEngineImpl{}
}

// Apply returns a dataset whose records all carry a margin percentage. The
// input table is left untouched.
func (m *marginEngineImpl) Apply(table *models.CoercedTable) *models.Dataset {
	records := make([]models.Record, len(table.Records))
	copy(records, table.Records)

	ds := &models.Dataset{
		Records:      records,
		Capabilities: table.Capabilities,
		Stats:        table.Stats,
	}
	caps := table.Capabilities

	switch {
	case caps.HasSource(models.FieldMarginPercentage):
		for i := range records {
			r := &records[i]
			if r.MarginPercentage.Valid {
				continue
			}
			if v, ok := utils.ParsePercentage(r.MarginPercentageText); ok {
				r.MarginPercentage = models.Float(v)
			}
		}
		m.rescaleFractions(ds)

	case caps.HasSource(models.FieldMarginValue) && caps.HasSource(models.FieldGrossValue):
		for i := range records {
			r := &records[i]
			if !r.MarginValue.Valid {
				continue
			}
			v := r.MarginValue.Value / r.GrossValue * 100
			if !utils.IsFinite(v) {
				v = 0
			}
			r.MarginPercentage = models.Float(v)
		}
	}

	for i := range records {
		if !records[i].MarginPercentage.Valid {
			records[i].MarginPercentage = models.Float(0)
		}
	}
	return ds
}

// rescaleFractions multiplies every margin by 100 when the file stores them
// as fractions of one: all margins below 2 on a ledger with large sales.
func (m *marginEngineImpl) rescaleFractions(ds *models.Dataset) {
	if len(ds.Records) == 0 {
		return
	}
	seen := false
	var grossSum float64
	for _, r := range ds.Records {
		grossSum += r.GrossValue
		if !r.MarginPercentage.Valid {
			continue
		}
		seen = true
		if r.MarginPercentage.Value >= fractionMarginLimit {
			return
		}
	}
	if !seen {
		return
	}

	mean := grossSum / float64(len(ds.Records))
	if !utils.IsFinite(mean) {
		logger.L.Warn("Skipping margin scale check", "meanGross", mean)
		ds.Warnings = append(ds.Warnings, WarnMarginScaleSkipped)
		return
	}
	if mean <= fractionGrossMeanFloor {
		return
	}

	for i := range ds.Records {
		r := &ds.Records[i]
		if r.MarginPercentage.Valid {
			r.MarginPercentage.Value *= 100
		}
	}
	ds.MarginScaled = true
	logger.L.Info("Margin percentages rescaled from fractions", "records", len(ds.Records), "meanGross", mean)
}

// AggregateMarginPercentage is the margin of a group:
// (1 - cost/net) * 100, or 0 when either total is zero or not finite.
func AggregateMarginPercentage(net, cost float64) float64 {
	if net == 0 || cost == 0 || !utils.IsFinite(net) || !utils.IsFinite(cost) {
		return 0
	}
	return (1 - cost/net) * 100
}
