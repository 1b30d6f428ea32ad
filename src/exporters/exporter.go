// Package exporters writes a filtered table as a downloadable file.
package exporters

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/faturamento/backend/src/models"
)

// ErrUnknownFormat is returned for export formats other than csv and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter renders a table view into w.
type Exporter interface {
	Export(w io.Writer, table models.TableView) error
	ContentType() string
	Extension() string
}

// GetExporter returns the exporter for "csv" or "xlsx".
func GetExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return NewCSVExporter(), nil
	case "xlsx":
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
