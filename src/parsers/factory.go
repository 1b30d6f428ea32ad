// backend/src/parsers/factory.go
package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/username/faturamento/backend/src/parsers/delimited"
	"github.com/username/faturamento/backend/src/parsers/spreadsheet"
)

// SupportedExtensions lists the file extensions GetParser accepts.
var SupportedExtensions = []string{".csv", ".xlsx", ".xls"}

// GetParser picks a loader from the file name's extension.
func GetParser(filename string) (Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return delimited.NewParser(), nil
	case ".xlsx":
		return spreadsheet.NewXLSXParser(), nil
	case ".xls":
		return spreadsheet.NewXLSParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
