package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/processors"
	"github.com/username/faturamento/backend/src/utils"
)

// FieldLabels are the pt-BR column headings shown in tables and exports.
var FieldLabels = map[string]string{
	models.FieldDate:             "Data da Venda",
	models.FieldMovementType:     "Tipo de Movimento",
	models.FieldInvoice:          "Nota Fiscal",
	models.FieldRepresentative:   "Representante",
	models.FieldCustomer:         "Cliente",
	models.FieldProductCode:      "Código do Produto",
	models.FieldDescription:      "Produto",
	models.FieldSegment:          "Segmentação",
	models.FieldQuantity:         "Quantidade",
	models.FieldUnitCost:         "Custo Unitário",
	models.FieldGrossValue:       "Faturamento Bruto",
	models.FieldNetValue:         "Valor Líquido",
	models.FieldTotalCost:        "Custo Total",
	models.FieldMarginValue:      "Margem (R$)",
	models.FieldMarginPercentage: "Margem (%)",
}

var tableColumns = []models.Column{
	{Field: models.FieldDate, Kind: models.KindDate},
	{Field: models.FieldMovementType, Kind: models.KindText},
	{Field: models.FieldInvoice, Kind: models.KindText},
	{Field: models.FieldRepresentative, Kind: models.KindText},
	{Field: models.FieldCustomer, Kind: models.KindText},
	{Field: models.FieldProductCode, Kind: models.KindText},
	{Field: models.FieldDescription, Kind: models.KindText},
	{Field: models.FieldSegment, Kind: models.KindText},
	{Field: models.FieldQuantity, Kind: models.KindInteger},
	{Field: models.FieldUnitCost, Kind: models.KindCurrency},
	{Field: models.FieldGrossValue, Kind: models.KindCurrency},
	{Field: models.FieldNetValue, Kind: models.KindCurrency},
	{Field: models.FieldTotalCost, Kind: models.KindCurrency},
	{Field: models.FieldMarginValue, Kind: models.KindCurrency},
	{Field: models.FieldMarginPercentage, Kind: models.KindPercent},
}

var chartTitles = map[models.Dimension]string{
	models.DimensionRepresentative: "Margem por Representante",
	models.DimensionCustomer:       "Top 10 Clientes por Margem",
	models.DimensionMonth:          "Evolução Mensal da Margem",
	models.DimensionProduct:        "Top %d Produtos por Margem",
}

const (
	msgNoData         = "Nenhum dado disponível para os filtros selecionados."
	msgMissingColumns = "Gráfico indisponível: colunas necessárias não encontradas (%s)."
	msgChartFailed    = "Não foi possível gerar este gráfico."
)

func currencyCell(v float64) models.Cell {
	return models.Cell{Value: v, Display: utils.FormatCurrencyBR(v)}
}

func percentCell(v float64) models.Cell {
	return models.Cell{Value: v, Display: utils.FormatPercentBR(v)}
}

// nullCell formats a possibly absent number. Absent values display as zero
// but carry a nil value.
func nullCell(n models.NullFloat, kind string) models.Cell {
	var c models.Cell
	switch kind {
	case models.KindPercent:
		c = percentCell(n.OrZero())
	case models.KindInteger:
		v := int64(math.Round(n.OrZero()))
		c = models.Cell{Value: v, Display: utils.FormatIntegerBR(n.OrZero())}
	default:
		c = currencyCell(n.OrZero())
	}
	if !n.Valid {
		c.Value = nil
	}
	return c
}

func buildTable(records []models.Record, caps models.Capabilities) *models.TableView {
	var columns []models.Column
	for _, c := range tableColumns {
		if caps.Has(c.Field) {
			c.Label = FieldLabels[c.Field]
			columns = append(columns, c)
		}
	}

	rows := make([][]models.Cell, 0, len(records))
	for _, r := range records {
		row := make([]models.Cell, len(columns))
		for i, c := range columns {
			switch c.Kind {
			case models.KindDate:
				row[i] = models.Cell{Value: r.Date.Format("2006-01-02"), Display: r.Date.Format(utils.DisplayDateFormat)}
			case models.KindText:
				v := r.Text(c.Field)
				row[i] = models.Cell{Value: v, Display: v}
			default:
				row[i] = nullCell(r.Number(c.Field), c.Kind)
			}
		}
		rows = append(rows, row)
	}
	return &models.TableView{Columns: columns, Rows: rows}
}

func buildSummary(s models.Summary) *models.SummaryView {
	return &models.SummaryView{
		Records:       s.Records,
		GrossValue:    currencyCell(s.GrossValue),
		TotalCost:     currencyCell(s.TotalCost),
		NetValue:      currencyCell(s.NetValue),
		MarginValue:   currencyCell(s.MarginValue),
		AverageMargin: percentCell(s.AverageMargin),
	}
}

func chartTitle(d models.Dimension, topN int) string {
	if d == models.DimensionProduct {
		if topN <= 0 {
			topN = processors.DefaultProductTopN
		}
		return fmt.Sprintf(chartTitles[d], utils.ClampInt(topN, processors.MinProductTopN, processors.MaxProductTopN))
	}
	return chartTitles[d]
}

// buildChart turns a breakdown, or the error that prevented it, into a chart
// view. An error only disables this chart.
func buildChart(d models.Dimension, topN int, b *models.MarginBreakdown, err error) *models.ChartView {
	chart := &models.ChartView{Dimension: d, Title: chartTitle(d, topN)}

	var missing *processors.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		labels := make([]string, len(missing.Fields))
		for i, f := range missing.Fields {
			labels[i] = FieldLabels[f]
		}
		chart.Message = fmt.Sprintf(msgMissingColumns, strings.Join(labels, ", "))
		return chart
	case err != nil:
		chart.Message = msgChartFailed
		return chart
	case len(b.Rows) == 0:
		chart.Message = msgNoData
		return chart
	}

	chart.Available = true
	chart.Groups = b.Groups
	chart.Rows = make([]models.GroupRowView, len(b.Rows))
	for i, g := range b.Rows {
		chart.Rows[i] = models.GroupRowView{
			Key:              g.Key,
			Label:            g.Label,
			Records:          g.Records,
			NetValue:         currencyCell(g.NetValue),
			TotalCost:        currencyCell(g.TotalCost),
			MarginValue:      currencyCell(g.MarginValue),
			MarginPercentage: percentCell(g.MarginPercentage),
		}
	}
	return chart
}
