package exporters

import (
	"fmt"
	"io"

	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/security/validation"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Dados"

var numberFormats = map[string]string{
	models.KindCurrency: `"R$" #,##0.00`,
	models.KindPercent:  `0.00"%"`,
	models.KindInteger:  `0`,
}

// XLSXExporter writes one worksheet with numeric cells stored as numbers.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) Extension() string { return ".xlsx" }

func (e *XLSXExporter) Export(w io.Writer, table models.TableView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, c := range table.Columns {
		format, ok := numberFormats[c.Kind]
		if !ok {
			continue
		}
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return fmt.Errorf("failed to create style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("invalid column index: %w", err)
		}
		if err := f.SetColStyle(SheetName, col, style); err != nil {
			return fmt.Errorf("failed to style column %s: %w", col, err)
		}
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for i := range values {
			if i >= len(row) {
				continue
			}
			switch v := row[i].Value.(type) {
			case float64, int64, int:
				values[i] = v
			case nil:
				values[i] = nil
			default:
				values[i] = validation.SanitizeForFormulaInjection(row[i].Display)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("invalid row index: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
