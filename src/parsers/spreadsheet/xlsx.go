// backend/src/parsers/spreadsheet/xlsx.go
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/parsers/tabular"
	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the first worksheet of an Office Open XML workbook.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(file io.Reader) (*models.RawTable, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx workbook has no sheets")
	}
	sheet := sheets[0]

	// Raw values skip number formats, so dates arrive as serials and
	// amounts as plain floats.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinates: %w", err)
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("failed to read type of cell %s: %w", cell, err)
			}
			switch typ {
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
			default:
				row[c] = ledgerNotation(v)
			}
		}
	}
	logger.L.Debug("Loaded xlsx sheet", "sheet", sheet, "rows", len(rows))

	table, err := tabular.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx sheet %q: %w", sheet, err)
	}
	return table, nil
}
