package spreadsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/parsers/tabular"
)

// XLSParser reads the first sheet of a legacy BIFF workbook.
type XLSParser struct{}

func NewXLSParser() *XLSParser {
	return &XLSParser{}
}

func (p *XLSParser) Parse(file io.Reader) (*models.RawTable, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read xls file: %w", err)
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("xls workbook has no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to get xls sheet: %w", err)
	}

	var records [][]string
	for _, row := range sheet.GetRows() {
		var rec []string
		for _, cell := range row.GetCols() {
			v := cell.GetString()
			// BIFF numbers come back in Go float formatting.
			if machineFloatRe.MatchString(v) {
				v = ledgerNotation(v)
			}
			rec = append(rec, v)
		}
		records = append(records, rec)
	}
	logger.L.Debug("Loaded xls sheet", "rows", len(records))

	table, err := tabular.Build(records)
	if err != nil {
		return nil, fmt.Errorf("invalid xls sheet: %w", err)
	}
	return table, nil
}
