package validation

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestValidateFileName(t *testing.T) {
	for name, want := range map[string]string{"vendas.CSV": ".csv", "a.b.xlsx": ".xlsx", "antigo.xls": ".xls"} {
		ext, err := ValidateFileName(name)
		if err != nil || ext != want {
			t.Errorf("ValidateFileName(%q) = %q, %v; want %q", name, ext, err, want)
		}
	}
	if _, err := ValidateFileName("relatorio.pdf"); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestValidateClientContentType(t *testing.T) {
	if err := ValidateClientContentType(".csv", "text/csv; charset=iso-8859-1"); err != nil {
		t.Fatalf("csv with charset should pass: %v", err)
	}
	if err := ValidateClientContentType(".xlsx", ""); err != nil {
		t.Fatalf("empty content type should pass: %v", err)
	}
	if err := ValidateClientContentType(".csv", "application/pdf"); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	f := excelize.NewFile()
	xlsx, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	f.Close()

	cases := []struct {
		name    string
		ext     string
		content []byte
		wantErr bool
	}{
		{"csv text", ".csv", []byte("Data;Valor\n01/01/2024;10,00\n"), false},
		{"csv latin1", ".csv", []byte("Descri\xe7\xe3o;Valor\n"), false},
		{"csv html", ".csv", []byte("<html><body>x</body></html>"), true},
		{"xlsx zip", ".xlsx", xlsx.Bytes(), false},
		{"xlsx text", ".xlsx", []byte("Data;Valor"), true},
		{"xls ole", ".xls", append(append([]byte{}, oleMagic...), 0, 0, 0), false},
		{"xls zip", ".xls", xlsx.Bytes(), true},
	}
	for _, tc := range cases {
		r := bytes.NewReader(tc.content)
		_, err := ValidateFileContentByMagicBytes(r, tc.ext)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
		if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
			t.Errorf("%s: reader not rewound, at %d", tc.name, pos)
		}
	}
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	cases := map[string]string{
		"=SUM(A1)": "'=SUM(A1)",
		" +1":      "' +1",
		"@cmd":     "'@cmd",
		"ACME":     "ACME",
		"":         "",
	}
	for in, want := range cases {
		if got := SanitizeForFormulaInjection(in); got != want {
			t.Errorf("SanitizeForFormulaInjection(%q) = %q, want %q", in, got, want)
		}
	}
}
