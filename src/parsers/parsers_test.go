package parsers

import (
	"errors"
	"testing"

	"github.com/username/faturamento/backend/src/parsers/delimited"
	"github.com/username/faturamento/backend/src/parsers/spreadsheet"
)

func TestGetParser(t *testing.T) {
	p, err := GetParser("Vendas 2024.CSV")
	if err != nil {
		t.Fatalf("GetParser csv: %v", err)
	}
	if _, ok := p.(*delimited.Parser); !ok {
		t.Fatalf("expected delimited parser, got %T", p)
	}
	if p, _ := GetParser("a.xlsx"); p == nil {
		t.Fatal("expected xlsx parser")
	} else if _, ok := p.(*spreadsheet.XLSXParser); !ok {
		t.Fatalf("expected xlsx parser, got %T", p)
	}
	if p, _ := GetParser("a.xls"); p == nil {
		t.Fatal("expected xls parser")
	} else if _, ok := p.(*spreadsheet.XLSParser); !ok {
		t.Fatalf("expected xls parser, got %T", p)
	}

	for _, name := range []string{"relatorio.pdf", "sem_extensao", "dados.json"} {
		if _, err := GetParser(name); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("GetParser(%q) = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}
