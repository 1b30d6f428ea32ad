package spreadsheet

import (
	"regexp"
	"strconv"
	"strings"
)

var machineFloatRe = regexp.MustCompile(`^-?\d+\.\d+$`)

// ledgerNotation rewrites a machine formatted number ("1234.56") with a
// decimal comma so spreadsheet cells and CSV cells share one notation.
func ledgerNotation(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return v
	}
	return strings.Replace(v, ".", ",", 1)
}
