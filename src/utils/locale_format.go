package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencyPrefix = "R$"

// roundCents rounds half away from zero to two places. Non-finite values
// render as zero.
func roundCents(v float64) float64 {
	if !IsFinite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatNumberBR renders v with pt-BR separators and two decimals: 1.234,56.
func FormatNumberBR(v float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("%.2f", roundCents(v))
}

// FormatIntegerBR rounds v and renders it with pt-BR grouping: 1.234.
func FormatIntegerBR(v float64) string {
	if !IsFinite(v) {
		v = 0
	}
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("%d", int64(math.Round(v)))
}

// FormatCurrencyBR renders v as R$ 1.234,56.
func FormatCurrencyBR(v float64) string {
	return currencyPrefix + " " + FormatNumberBR(v)
}

// FormatPercentBR renders v as 12,34%.
func FormatPercentBR(v float64) string {
	return FormatNumberBR(v) + "%"
}

// ParseLocaleNumber converts a pt-BR formatted string ("1.234,56", "12,5%")
// to a number. Empty, unparseable and non-finite inputs are absent.
func ParseLocaleNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

// ParsePercentage is the lenient second attempt for percentage cells: every
// % sign is dropped before the locale parse.
func ParsePercentage(s string) (float64, bool) {
	return ParseLocaleNumber(strings.ReplaceAll(s, "%", ""))
}

// ParseCurrencyBR is the inverse of FormatCurrencyBR.
func ParseCurrencyBR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, currencyPrefix)
	return ParseLocaleNumber(s)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
