package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	DisplayDateFormat = "02/01/2006"
	MonthKeyFormat    = "2006-01"
)

// Brazilian ledgers are day-first. ISO layouts come from spreadsheet date
// cells and database exports.
var ledgerDateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/06",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006.01.02",
	"2006.01.02 15:04:05",
}

var excelSerialRe = regexp.MustCompile(`^\d{1,7}(,\d+)?$`)

// Largest serial Excel accepts (9999-12-31).
const maxExcelSerial = 2958465

// ParseLedgerDate parses a ledger date cell. Numeric cells are read as Excel
// serial dates.
func ParseLedgerDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range ledgerDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if excelSerialRe.MatchString(s) {
		serial, ok := ParseLocaleNumber(s)
		if ok && serial >= 1 && serial <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// CalendarDate drops the time of day, returning the date at UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the YYYY-MM key of t.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyFormat)
}
