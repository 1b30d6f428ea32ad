package processors

import (
	"math"
	"testing"

	"github.com/username/faturamento/backend/src/models"
)

func TestMarginFractionsScaledOnce(t *testing.T) {
	table, err := NewSchemaNormalizer(nil).Normalize(&models.RawTable{
		Headers: []string{"Valor Bruto", "Margem"},
		Rows: [][]string{
			{"2.000,00", "0,25"},
			{"3.000,00", "0,1"},
			{"1.500,00", ""},
		},
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	coerced, err := NewValueCoercer().Coerce(table)
	if err != nil {
		t.Fatalf("Coerce failed: %v", err)
	}

	engine := NewMarginEngine()
	ds := engine.Apply(coerced)
	if !ds.MarginScaled {
		t.Fatal("expected margins to be rescaled")
	}
	want := []float64{25, 10, 0}
	for i, r := range ds.Records {
		if !r.MarginPercentage.Valid || !almostEqual(r.MarginPercentage.Value, want[i]) {
			t.Errorf("record %d margin = %+v, want %v", i, r.MarginPercentage, want[i])
		}
	}

	if coerced.Records[0].MarginPercentage.Value != 0.25 {
		t.Fatal("Apply must not modify its input")
	}
	again := engine.Apply(coerced)
	if !almostEqual(again.Records[0].MarginPercentage.Value, 25) {
		t.Fatalf("re-applying must scale once, got %v", again.Records[0].MarginPercentage.Value)
	}
}

func TestMarginNotScaledForSmallLedgers(t *testing.T) {
	ds := ingest(t, []string{"Valor Bruto", "Margem"},
		[]string{"100,00", "0,5"},
		[]string{"200,00", "1,5"},
	)
	if ds.MarginScaled {
		t.Fatal("mean gross below 1000 must not trigger scaling")
	}
	if !almostEqual(ds.Records[0].MarginPercentage.Value, 0.5) {
		t.Fatalf("unexpected margin %v", ds.Records[0].MarginPercentage.Value)
	}

	ds = ingest(t, []string{"Valor Bruto", "Margem"},
		[]string{"5.000,00", "0,5"},
		[]string{"5.000,00", "35"},
	)
	if ds.MarginScaled {
		t.Fatal("a margin above 2 means the file is already in percent")
	}
}

func TestMarginSecondParseAttempt(t *testing.T) {
	ds := ingest(t, []string{"Valor Bruto", "Margem"},
		[]string{"10,00", "% 12,5"},
		[]string{"10,00", "n/d"},
	)
	if !almostEqual(ds.Records[0].MarginPercentage.Value, 12.5) {
		t.Fatalf("expected lenient parse to give 12.5, got %v", ds.Records[0].MarginPercentage.Value)
	}
	if !ds.Records[1].MarginPercentage.Valid || ds.Records[1].MarginPercentage.Value != 0 {
		t.Fatalf("unparseable margin must default to 0, got %+v", ds.Records[1].MarginPercentage)
	}
}

func TestMarginDerivedFromValue(t *testing.T) {
	ds := ingest(t, []string{"Valor Bruto", "Margem em Valor"},
		[]string{"200,00", "50,00"},
		[]string{"0", "10,00"},
		[]string{"100,00", ""},
	)
	want := []float64{25, 0, 0}
	for i, r := range ds.Records {
		if !r.MarginPercentage.Valid || !almostEqual(r.MarginPercentage.Value, want[i]) {
			t.Errorf("record %d margin = %+v, want %v", i, r.MarginPercentage, want[i])
		}
	}
}

func TestMarginDefaultsToZero(t *testing.T) {
	ds := ingest(t, []string{"Cliente", "Valor Bruto"}, []string{"A", "10,00"})
	if !ds.Records[0].MarginPercentage.Valid || ds.Records[0].MarginPercentage.Value != 0 {
		t.Fatalf("expected 0, got %+v", ds.Records[0].MarginPercentage)
	}
}

func TestMarginNonFiniteMeanWarns(t *testing.T) {
	coerced := &models.CoercedTable{
		Records: []models.Record{
			{GrossValue: math.MaxFloat64, MarginPercentage: models.Float(0.1)},
			{GrossValue: math.MaxFloat64, MarginPercentage: models.Float(0.2)},
		},
		Capabilities: models.Capabilities{
			Source:  models.NewFieldSet(models.FieldGrossValue, models.FieldMarginPercentage),
			Present: models.NewFieldSet(models.RequiredFields...),
		},
	}
	ds := NewMarginEngine().Apply(coerced)
	if ds.MarginScaled {
		t.Fatal("scaling must be skipped when the mean is not finite")
	}
	if len(ds.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", ds.Warnings)
	}
}

func TestAggregateMarginPercentage(t *testing.T) {
	cases := []struct {
		net, cost, want float64
	}{
		{1000, 800, 20},
		{0, 800, 0},
		{1000, 0, 0},
		{1000, 1200, -20},
		{math.Inf(1), 10, 0},
		{10, math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := AggregateMarginPercentage(tc.net, tc.cost); !almostEqual(got, tc.want) {
			t.Errorf("AggregateMarginPercentage(%v, %v) = %v, want %v", tc.net, tc.cost, got, tc.want)
		}
	}
}
