package spreadsheet

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestXLSXParser(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Data", "Cliente", "Valor Bruto", "Qtd"},
		{45356, "ACME", 1234.56, 3},
		{"05/03/2024", "Beta", "1.234,56"},
	})

	table, err := NewXLSXParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(table.Headers, []string{"Data", "Cliente", "Valor Bruto", "Qtd"}) {
		t.Fatalf("unexpected headers: %#v", table.Headers)
	}
	want := [][]string{
		{"45356", "ACME", "1234,56", "3"},
		{"05/03/2024", "Beta", "1.234,56", ""},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Fatalf("unexpected rows:\n got %#v\nwant %#v", table.Rows, want)
	}
}

func TestXLSXParserRejectsGarbage(t *testing.T) {
	if _, err := NewXLSXParser().Parse(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected an error for non-xlsx content")
	}
}

func TestXLSParserRejectsGarbage(t *testing.T) {
	if _, err := NewXLSParser().Parse(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected an error for non-xls content")
	}
}

func TestLedgerNotation(t *testing.T) {
	cases := map[string]string{
		"1234.56":  "1234,56",
		"-0.5":     "-0,5",
		"42":       "42",
		"1.234,56": "1.234,56",
		"ACME":     "ACME",
	}
	for in, want := range cases {
		if got := ledgerNotation(in); got != want {
			t.Errorf("ledgerNotation(%q) = %q, want %q", in, got, want)
		}
	}
}
