package exporters

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/username/faturamento/backend/src/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func sampleTable() models.TableView {
	return models.TableView{
		Columns: []models.Column{
			{Field: models.FieldDate, Label: "Data da Venda", Kind: models.KindDate},
			{Field: models.FieldCustomer, Label: "Cliente", Kind: models.KindText},
			{Field: models.FieldGrossValue, Label: "Faturamento Bruto", Kind: models.KindCurrency},
			{Field: models.FieldMarginPercentage, Label: "Margem (%)", Kind: models.KindPercent},
		},
		Rows: [][]models.Cell{
			{{Value: "2024-03-05", Display: "05/03/2024"}, {Value: "Elétrica São João", Display: "Elétrica São João"}, {Value: 1234.56, Display: "R$ 1.234,56"}, {Value: 12.5, Display: "12,50%"}},
			{{Value: "2024-03-06", Display: "06/03/2024"}, {Value: "=HYPERLINK(1)", Display: "=HYPERLINK(1)"}, {Value: -10.0, Display: "R$ -10,00"}, {Value: nil, Display: "0,00%"}},
		},
	}
}

func TestGetExporter(t *testing.T) {
	if e, err := GetExporter("CSV"); err != nil || e.Extension() != ".csv" {
		t.Fatalf("unexpected csv exporter %v, %v", e, err)
	}
	if e, err := GetExporter("xlsx"); err != nil || e.Extension() != ".xlsx" {
		t.Fatalf("unexpected xlsx exporter %v, %v", e, err)
	}
	if _, err := GetExporter("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestCSVExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter().Export(&buf, sampleTable()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(buf.Bytes())
	if err != nil {
		t.Fatalf("output is not Windows-1252: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(decoded)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	if lines[0] != "Data da Venda;Cliente;Faturamento Bruto;Margem (%)" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "05/03/2024;Elétrica São João;R$ 1.234,56;12,50%" {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if lines[2] != "06/03/2024;'=HYPERLINK(1);R$ -10,00;0,00%" {
		t.Fatalf("formula text must be neutralised, numbers left alone: %q", lines[2])
	}
	if !bytes.Contains(buf.Bytes(), []byte{'E', 'l', 0xE9}) {
		t.Fatal("expected é encoded as a single Windows-1252 byte")
	}
}

func TestXLSXExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewXLSXExporter().Export(&buf, sampleTable()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(0) != SheetName {
		t.Fatalf("expected sheet %q, got %q", SheetName, f.GetSheetName(0))
	}
	header, err := f.GetCellValue(SheetName, "C1")
	if err != nil || header != "Faturamento Bruto" {
		t.Fatalf("unexpected header %q (%v)", header, err)
	}
	raw, err := f.GetCellValue(SheetName, "C2", excelize.Options{RawCellValue: true})
	if err != nil || raw != "1234.56" {
		t.Fatalf("currency must be stored as a number, got %q (%v)", raw, err)
	}
	typ, err := f.GetCellType(SheetName, "C2")
	if err != nil || typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Fatalf("expected a numeric cell, got %v (%v)", typ, err)
	}
	text, _ := f.GetCellValue(SheetName, "B3")
	if text != "'=HYPERLINK(1)" {
		t.Fatalf("unexpected text cell %q", text)
	}
	if v, _ := f.GetCellValue(SheetName, "D3"); v != "" {
		t.Fatalf("absent numbers stay empty, got %q", v)
	}
}
