package processors

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/username/faturamento/backend/src/models"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Data da Venda":         "data_da_venda",
		"  Descrição  ":         "descricao",
		"Margem em Porcentagem": "margem_em_porcentagem",
		"Tp. Mov":               "tp_mov",
		"Código do Produto":     "codigo_do_produto",
		"Segmentação":           "segmentacao",
		"Margem (%)":            "margem_",
		"Valor Líquido":         "valor_liquido",
		"%%":                    "",
	}
	for in, want := range cases {
		got := NormalizeHeader(in)
		if got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
		if again := NormalizeHeader(got); again != got {
			t.Errorf("NormalizeHeader is not idempotent for %q: %q", got, again)
		}
	}
}

func TestNormalizeMapsSynonyms(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Data", "Representante", "Cliente", "Descrição", "Valor Bruto", "Valor Líquido", "Custo Total", "Margem em Valor", "Margem", "Observação"},
		Rows: [][]string{
			{"05/03/2024", "Ana", "ACME", "Cabo", "1.000,00", "900,00", "700,00", "200,00", "22,2", "ok"},
		},
	}
	table, err := NewSchemaNormalizer(nil).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := []string{"date", "representative", "customer", "description", "gross_value", "net_value", "total_cost", "margin_value", "margin_percentage", "observacao"}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("unexpected columns:\n got %v\nwant %v", table.Columns, want)
	}
	if !table.Capabilities.HasSource(models.FieldMarginPercentage) || table.Capabilities.HasSource("observacao") {
		t.Fatalf("unexpected source capabilities: %v", table.Capabilities.Source.Sorted())
	}
}

func TestNormalizeDropsArtifactsAndSubtotals(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Representante", "Cliente", "Valor Bruto"},
		Rows: [][]string{
			{"PDF:", "", ""},
			{"Ana", "ACME", "10,00"},
			{"", " ", ""},
			{"TOTAL GERAL", "", "10,00"},
			{"Bruno", "Totais do mês", "5,00"},
			{"Carla", "Beta", "7,00"},
		},
	}
	table, err := NewSchemaNormalizer(nil).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(table.Rows), table.Rows)
	}
	if table.Rows[0][0] != "Ana" || table.Rows[1][0] != "Carla" {
		t.Fatalf("unexpected rows kept: %v", table.Rows)
	}
	want := models.NormalizationStats{RowsRead: 6, SentinelDropped: 1, EmptyDropped: 1, SubtotalDropped: 2}
	if table.Stats != want {
		t.Fatalf("unexpected stats %+v", table.Stats)
	}
}

func TestNormalizeSentinelInHeader(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"PDF: relatorio.pdf", "Valor Bruto"},
		Rows:    [][]string{{"Página 1", ""}, {"x", "1,00"}},
	}
	table, err := NewSchemaNormalizer(nil).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(table.Rows) != 1 || table.Stats.SentinelDropped != 1 {
		t.Fatalf("expected the first data row to be dropped, got %v", table.Rows)
	}
}

func TestNormalizeZeroFillsRequiredFields(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Cliente", "Faturamento Bruto"},
		Rows:    [][]string{{"ACME", "10,00"}},
	}
	table, err := NewSchemaNormalizer(nil).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for _, f := range models.RequiredFields {
		if !table.Capabilities.Has(f) {
			t.Errorf("expected %s to be present", f)
		}
		i := table.ColumnIndex(f)
		if i < 0 {
			t.Fatalf("column %s missing", f)
		}
		if f != models.FieldGrossValue && table.Rows[0][i] != "0" {
			t.Errorf("expected %s to be zero-filled, got %q", f, table.Rows[0][i])
		}
	}
	if table.Capabilities.HasSource(models.FieldTotalCost) {
		t.Fatal("zero-filled fields must not be source fields")
	}
	if !table.Capabilities.HasSource(models.FieldGrossValue) {
		t.Fatal("gross value came from the file")
	}
}

func TestNormalizeDuplicateTargets(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Data", "Data da Venda", "Date", "", "Cliente", "cliente"},
		Rows:    [][]string{{"01/01/2024", "02/01/2024", "x", "y", "A", "B"}},
	}
	table, err := NewSchemaNormalizer(nil).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := []string{"date", "data_da_venda", "date_2", "unnamed_3", "customer", "cliente_2"}
	if !reflect.DeepEqual(table.Columns[:len(want)], want) {
		t.Fatalf("unexpected columns:\n got %v\nwant %v", table.Columns, want)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Data da Venda", "Nome do Cliente", "Valor Bruto da Venda", "Custo Total da Venda", "Margem em Valor", "Margem Percentual"},
		Rows:    [][]string{{"01/01/2024", "ACME", "10,00", "8,00", "2,00", "20"}},
	}
	n := NewSchemaNormalizer(nil)
	first, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	second, err := n.Normalize(&models.RawTable{Headers: first.Columns, Rows: first.Rows})
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}
	if !reflect.DeepEqual(first.Columns, second.Columns) || !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Fatalf("normalization is not idempotent:\n%v\n%v", first.Columns, second.Columns)
	}
}

func TestSynonymsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	content := "synonyms:\n  gross_value: [vlr_bruto, \"Total NF\"]\n  customer: [produto]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	extra, err := LoadSynonymsFile(path)
	if err != nil {
		t.Fatalf("LoadSynonymsFile failed: %v", err)
	}
	merged := MergeSynonyms(ColumnSynonyms, extra)

	raw := &models.RawTable{
		Headers: []string{"Produto", "Total NF"},
		Rows:    [][]string{{"ACME", "10,00"}},
	}
	table, err := NewSchemaNormalizer(merged).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if table.Columns[0] != models.FieldCustomer || table.Columns[1] != models.FieldGrossValue {
		t.Fatalf("extra synonyms not applied: %v", table.Columns)
	}
	if containsString(merged[models.FieldDescription], "produto") {
		t.Fatal("a spelling claimed by the file must leave its built-in field")
	}
	if !containsString(ColumnSynonyms[models.FieldDescription], "produto") {
		t.Fatal("MergeSynonyms must not modify the base table")
	}
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func TestLoadSynonymsFileErrors(t *testing.T) {
	if _, err := LoadSynonymsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("other: 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSynonymsFile(path); err == nil {
		t.Fatal("expected an error for a file without synonyms")
	}
}
