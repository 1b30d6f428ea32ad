package parsers

import (
	"errors"
	"io"

	"github.com/username/faturamento/backend/src/models"
)

// ErrUnsupportedFormat is returned for file types no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser loads one ledger file into an untyped table.
type Parser interface {
	Parse(file io.Reader) (*models.RawTable, error)
}
