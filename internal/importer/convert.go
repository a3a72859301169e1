package importer

// convert.go handles the messy reality of human-authored CSV data:
// currency prefixes and thousands separators in amounts, multiple date
// formats, Excel formula artifacts, and broken UTF-8.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted. Years that
// would land more than this many years in the future are assumed to be in
// the previous century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// CleanCell removes common CSV artifacts from a cell value:
// surrounding whitespace, Excel formula prefixes (="..."), and stray quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// ParseAmount parses a monetary value that may carry a leading currency
// marker ("R 1500.00", "$1,234.56"), thousands separators, or accounting
// parentheses for negatives. Sign validation is left to the caller.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	// Accounting format "(123.45)" means negative
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Strip a leading currency marker: everything before the first
	// digit, sign, or decimal point.
	start := strings.IndexFunc(s, func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.'
	})
	if start < 0 {
		return decimal.Decimal{}, fmt.Errorf("not a number")
	}
	s = s[start:]

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number")
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseDate parses a date in any of the supported layouts.
// 2-digit years are pivoted: a parsed year further in the future than
// TwoDigitYearPivot years is moved back a century.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// 4-digit year layouts are unambiguous, try them first
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so csv parsing never chokes on encoding noise.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// readCSV parses the whole file with a proper, quote-aware tokenizer.
// Ragged rows are let through so the validator can report them per row.
func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// isEmptyRow reports whether every cell is blank after trimming.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
