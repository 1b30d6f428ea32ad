// Package tabular turns loader output into a models.RawTable.
package tabular

import (
	"errors"
	"strings"

	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/security/validation"
)

// ErrNoHeader is returned when a file has no header row.
var ErrNoHeader = errors.New("file has no header row")

// Build uses the first record as the header row. Every data row is padded or
// truncated to the header width and cells are stripped of unprintable runes.
func Build(records [][]string) (*models.RawTable, error) {
	if len(records) == 0 || isBlank(records[0]) {
		return nil, ErrNoHeader
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = validation.StripUnprintable(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(headers))
		for i := 0; i < len(row) && i < len(rec); i++ {
			row[i] = validation.StripUnprintable(rec[i])
		}
		rows = append(rows, row)
	}
	return &models.RawTable{Headers: headers, Rows: rows}, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
