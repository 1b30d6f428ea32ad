package exporters

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/security/validation"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVExporter writes semicolon separated Windows-1252 text, the format
// Excel opens without an import wizard on pt-BR systems.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string { return "text/csv; charset=windows-1252" }

func (e *CSVExporter) Extension() string { return ".csv" }

func (e *CSVExporter) Export(w io.Writer, table models.TableView) error {
	tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	writer := csv.NewWriter(tw)
	writer.Comma = ';'

	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = validation.SanitizeForFormulaInjection(c.Label)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			record[i] = ""
			if i >= len(row) {
				continue
			}
			cell := row[i]
			if _, isText := cell.Value.(string); isText {
				record[i] = validation.SanitizeForFormulaInjection(cell.Display)
			} else {
				record[i] = cell.Display
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return tw.Close()
}
