package models

import (
	"errors"
	"net/url"
	"testing"
)

func TestParseFilterCriteria(t *testing.T) {
	q := url.Values{
		"from":           {"2024-01-01"},
		"to":             {"31/03/2024"},
		"representative": {"Ana", "", "Bruno"},
		"product":        {"Cabo"},
	}
	c, err := ParseFilterCriteria(q)
	if err != nil {
		t.Fatalf("ParseFilterCriteria error: %v", err)
	}
	if c.From == nil || c.From.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("unexpected from %v", c.From)
	}
	if c.To == nil || c.To.Format("2006-01-02") != "2024-03-31" {
		t.Errorf("unexpected to %v", c.To)
	}
	if len(c.Representatives) != 2 || c.Representatives[1] != "Bruno" {
		t.Errorf("unexpected representatives %v", c.Representatives)
	}
	if c.Customers != nil || c.MovementTypes != nil {
		t.Errorf("expected no customer/movement restriction, got %v / %v", c.Customers, c.MovementTypes)
	}
}

func TestParseFilterCriteriaRejectsBadDates(t *testing.T) {
	cases := []url.Values{
		{"from": {"yesterday"}},
		{"from": {"2024-05-01"}, "to": {"2024-04-01"}},
	}
	for _, q := range cases {
		if _, err := ParseFilterCriteria(q); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("expected ErrInvalidFilter for %v, got %v", q, err)
		}
	}
}

func TestParseDimension(t *testing.T) {
	if d, err := ParseDimension(" Product "); err != nil || d != DimensionProduct {
		t.Fatalf("expected product, got %q / %v", d, err)
	}
	if _, err := ParseDimension("region"); err == nil {
		t.Fatal("expected error for unknown dimension")
	}
}
