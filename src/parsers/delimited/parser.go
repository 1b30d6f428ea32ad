// backend/src/parsers/delimited/parser.go
package delimited

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"github.com/username/faturamento/backend/src/parsers/tabular"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads semicolon separated ledgers exported by Brazilian ERPs.
type Parser struct {
	Comma rune
}

func NewParser() *Parser {
	return &Parser{Comma: ';'}
}

// Parse decodes the file as Latin-1 unless it is already valid UTF-8.
func (p *Parser) Parse(file io.Reader) (*models.RawTable, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		logger.L.Debug("Decoding delimited file as Latin-1", "bytes", len(data))
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = p.Comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited records: %w", err)
	}

	table, err := tabular.Build(records)
	if err != nil {
		return nil, fmt.Errorf("invalid delimited file: %w", err)
	}
	return table, nil
}
