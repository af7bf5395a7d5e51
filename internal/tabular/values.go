package tabular

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

// ParseNumber coerces a cell to a number. With decimalComma the Brazilian
// layout "1.234,56" is accepted; otherwise the cell uses a decimal point.
// Anything unparseable is the missing value.
func ParseNumber(s string, decimalComma bool) domain.Number {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Number{}
	}
	if decimalComma && strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return domain.Number{}
	}
	return domain.NewNumber(d.InexactFloat64())
}

// Round2 rounds half away from zero at two decimals.
func Round2(n domain.Number) domain.Number {
	if !n.Valid {
		return n
	}
	return domain.NewNumber(decimal.NewFromFloat(n.Float64).Round(2).InexactFloat64())
}

// TruncInt converts to int dropping the fraction; missing becomes 0.
func TruncInt(n domain.Number) int {
	if !n.Valid {
		return 0
	}
	return int(decimal.NewFromFloat(n.Float64).Truncate(0).IntPart())
}

var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006 15:04:05",
	"2/1/06 15:04:05",
}

// ParseDate accepts day-first dates with two or four digit years, ISO dates
// and Excel serial numbers. The result is truncated to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("excel date %q: %w", s, err)
		}
		return dateOnly(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var floatArtefact = regexp.MustCompile(`^(-?\d+)\.0+$`)

// CanonicalID trims an identifier and drops the ".0" that float-typed
// columns leave on integer ids.
func CanonicalID(s string) string {
	s = strings.TrimSpace(s)
	if m := floatArtefact.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ZeroPad left-pads s with zeros up to width.
func ZeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
