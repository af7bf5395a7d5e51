// Package treated reads and writes the prepared tables exchanged between the
// batch and the dashboard.
package treated

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	ExtCSV     = "csv"
	ExtParquet = "parquet"

	// PromotionsFileName is the treated promotions table.
	PromotionsFileName = "relatorio_tratado.csv"

	// SalesDir is the sub-path the file host serves monthly tables under.
	SalesDir = "tratado"

	dateLayout = "2006-01-02"
)

var monthFile = regexp.MustCompile(`^(\d{4}-\d{2})_tratado\.(csv|parquet)$`)

// MonthFileName is "<YYYY-MM>_tratado.<ext>".
func MonthFileName(month, ext string) string {
	return fmt.Sprintf("%s_tratado.%s", month, strings.TrimPrefix(ext, "."))
}

// MonthFromFileName returns the month of a treated sales file name.
func MonthFromFileName(name string) (month, ext string, ok bool) {
	m := monthFile.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Month formats the YYYY-MM key of a date.
func Month(t time.Time) string {
	return t.Format("2006-01")
}

// ParseMonth parses a YYYY-MM key into the first day of that month.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t, nil
}
