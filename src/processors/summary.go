package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/faturamento/backend/src/models"
)

// Summarize computes the dashboard's key metrics over the records.
func Summarize(records []models.Record) models.Summary {
	var gross, cost, net, margin decimal.Decimal
	for _, r := range records {
		gross = gross.Add(decimal.NewFromFloat(r.GrossValue))
		if r.TotalCost.Valid {
			cost = cost.Add(decimal.NewFromFloat(r.TotalCost.Value))
		}
		if r.NetValue.Valid {
			net = net.Add(decimal.NewFromFloat(r.NetValue.Value))
		}
		if r.MarginValue.Valid {
			margin = margin.Add(decimal.NewFromFloat(r.MarginValue.Value))
		}
	}

	s := models.Summary{
		Records:     len(records),
		GrossValue:  gross.InexactFloat64(),
		TotalCost:   cost.InexactFloat64(),
		NetValue:    net.InexactFloat64(),
		MarginValue: margin.InexactFloat64(),
	}
	if net.IsPositive() {
		s.AverageMargin = net.Sub(cost).Div(net).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return s
}
