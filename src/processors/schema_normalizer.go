package processors

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/models"
	"gopkg.in/yaml.v3"
)

// pdfSentinel marks the artifact row left by PDF-to-spreadsheet converters.
const pdfSentinel = "PDF:"

// subtotalMarkers flag rows that repeat totals of the rows above them.
var subtotalMarkers = []string{"total", "geral", "totais"}

// subtotalFields are searched for subtotalMarkers.
var subtotalFields = []string{models.FieldRepresentative, models.FieldCustomer, models.FieldDescription}

// ColumnSynonyms maps each canonical field to the normalized spellings seen in
// ERP exports. Every canonical name is also accepted as its own synonym.
var ColumnSynonyms = map[string][]string{
	models.FieldDate:             {"data", "data_venda", "data_do_pedido", "data_da_venda"},
	models.FieldGrossValue:       {"valor_bruto", "valor_bruto_da_venda", "faturamento_bruto"},
	models.FieldNetValue:         {"valor_net", "valor_liquido"},
	models.FieldTotalCost:        {"custo_total", "custo_total_da_venda"},
	models.FieldMarginValue:      {"margem_em_valor", "margem_valor"},
	models.FieldMarginPercentage: {"margem_em_porcentagem", "margem", "margem_percentual"},
	models.FieldRepresentative:   {"representante", "representante_de_vendas", "nome_do_representante"},
	models.FieldCustomer:         {"cliente", "nome_do_cliente"},
	models.FieldDescription:      {"descricao", "produto", "descricao_do_produto"},
	models.FieldMovementType:     {"tp_mov", "tipo_de_movimento"},
	models.FieldQuantity:         {"qtd", "quantidade"},
	models.FieldUnitCost:         {"custo_unitario"},
	models.FieldInvoice:          {"nf", "nota_fiscal"},
	models.FieldProductCode:      {"cod_produto", "codigo_do_produto"},
	models.FieldSegment:          {"segmentacao"},
}

var (
	accentReplacer = strings.NewReplacer(
		"ã", "a", "á", "a", "â", "a", "à", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "ü", "u",
		"ç", "c",
	)
	nonIdentifierRe = regexp.MustCompile(`[^a-z0-9_]`)
)

// NormalizeHeader turns a source header into snake_case ASCII:
// "Data da Venda" becomes "data_da_venda", "Descrição" becomes "descricao".
func NormalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = strings.ReplaceAll(s, " ", "_")
	s = accentReplacer.Replace(s)
	return nonIdentifierRe.ReplaceAllString(s, "")
}

// SynonymsFile is the YAML document that extends ColumnSynonyms:
//
//	synonyms:
//	  gross_value: [vlr_bruto, total_nf]
type SynonymsFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// LoadSynonymsFile reads extra column spellings from a YAML file.
func LoadSynonymsFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms file: %w", err)
	}
	var f SynonymsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms file %s: %w", path, err)
	}
	if len(f.Synonyms) == 0 {
		return nil, fmt.Errorf("synonyms file %s defines no synonyms", path)
	}
	return f.Synonyms, nil
}

// MergeSynonyms returns base extended with extra. A spelling listed in extra
// is removed from any other canonical field of base.
func MergeSynonyms(base, extra map[string][]string) map[string][]string {
	claimed := make(map[string]string)
	for canonical, spellings := range extra {
		for _, s := range spellings {
			claimed[NormalizeHeader(s)] = NormalizeHeader(canonical)
		}
	}

	merged := make(map[string][]string, len(base)+len(extra))
	for canonical, spellings := range base {
		for _, s := range spellings {
			if owner, ok := claimed[s]; ok && owner != canonical {
				continue
			}
			merged[canonical] = append(merged[canonical], s)
		}
	}
	for canonical, spellings := range extra {
		canonical = NormalizeHeader(canonical)
		for _, s := range spellings {
			merged[canonical] = append(merged[canonical], NormalizeHeader(s))
		}
	}
	return merged
}

type schemaNormalizerImpl struct {
	lookup    map[string]string
	canonical map[string]bool
}

// NewSchemaNormalizer builds a normalizer from a canonical -> spellings table.
// A nil table uses ColumnSynonyms.
func NewSchemaNormalizer(synonyms map[string][]string) SchemaNormalizer {
	if synonyms == nil {
		synonyms = ColumnSynonyms
	}
	names := make([]string, 0, len(synonyms))
	for canonical := range synonyms {
		names = append(names, canonical)
	}
	sort.Strings(names)

	n := &schemaNormalizerImpl{
		lookup:    make(map[string]string),
		canonical: make(map[string]bool),
	}
	for _, canonical := range names {
		n.canonical[canonical] = true
		n.lookup[canonical] = canonical
	}
	for _, canonical := range names {
		for _, s := range synonyms[canonical] {
			s = NormalizeHeader(s)
			if _, exists := n.lookup[s]; !exists {
				n.lookup[s] = canonical
			}
		}
	}
	return n
}

func (n *schemaNormalizerImpl) Normalize(raw *models.RawTable) (*models.NormalizedTable, error) {
	if raw == nil {
		return nil, errors.New("normalize: nil table")
	}
	stats := models.NormalizationStats{RowsRead: len(raw.Rows)}

	rows := raw.Rows
	if len(rows) > 0 && hasSentinel(raw.Headers, rows[0]) {
		rows = rows[1:]
		stats.SentinelDropped = 1
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			stats.EmptyDropped++
			continue
		}
		cells := make([]string, len(raw.Headers))
		copy(cells, row)
		kept = append(kept, cells)
	}

	columns := make([]string, len(raw.Headers))
	for i, h := range raw.Headers {
		columns[i] = NormalizeHeader(h)
		if columns[i] == "" {
			columns[i] = "unnamed_" + strconv.Itoa(i)
		}
	}
	columns = dedupe(columns)

	taken := make(map[string]bool)
	for i, col := range columns {
		canonical, ok := n.lookup[col]
		if !ok || taken[canonical] {
			continue
		}
		columns[i] = canonical
		taken[canonical] = true
	}
	columns = dedupe(columns)

	table := &models.NormalizedTable{Columns: columns, Rows: kept}
	table.Rows = dropSubtotals(table, &stats)

	source := models.NewFieldSet()
	for _, col := range columns {
		if n.canonical[col] {
			source[col] = true
		}
	}
	present := models.NewFieldSet(source.Sorted()...)
	for _, f := range models.RequiredFields {
		if present[f] {
			continue
		}
		present[f] = true
		table.Columns = append(table.Columns, f)
		for i := range table.Rows {
			table.Rows[i] = append(table.Rows[i], "0")
		}
	}
	table.Capabilities = models.Capabilities{Source: source, Present: present}
	table.Stats = stats

	logger.L.Debug("Normalized table",
		"columns", table.Columns,
		"rows", len(table.Rows),
		"sentinelDropped", stats.SentinelDropped,
		"emptyDropped", stats.EmptyDropped,
		"subtotalDropped", stats.SubtotalDropped)
	return table, nil
}

func hasSentinel(headers, first []string) bool {
	if len(headers) > 0 && strings.Contains(headers[0], pdfSentinel) {
		return true
	}
	return len(first) > 0 && strings.TrimSpace(first[0]) == pdfSentinel
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// dedupe suffixes repeated names with _2, _3, ... keeping the first
// occurrence unchanged.
func dedupe(names []string) []string {
	all := make(map[string]bool, len(names))
	for _, n := range names {
		all[n] = true
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !seen[name] {
			seen[name] = true
			out[i] = name
			continue
		}
		for k := 2; ; k++ {
			candidate := name + "_" + strconv.Itoa(k)
			if !seen[candidate] && !all[candidate] {
				seen[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}

func dropSubtotals(t *models.NormalizedTable, stats *models.NormalizationStats) [][]string {
	var idx []int
	for _, f := range subtotalFields {
		if i := t.ColumnIndex(f); i >= 0 {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return t.Rows
	}

	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if isSubtotal(row, idx) {
			stats.SubtotalDropped++
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func isSubtotal(row []string, idx []int) bool {
	for _, i := range idx {
		v := strings.ToLower(row[i])
		for _, marker := range subtotalMarkers {
			if strings.Contains(v, marker) {
				return true
			}
		}
	}
	return false
}
