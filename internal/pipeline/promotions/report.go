// Package promotions normalizes the promotions report and keeps the tabloid
// campaigns.
package promotions

import (
	"fmt"
	"os"
	"strings"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
	"github.com/andresuchdata/tabloide-insight/internal/tabular"
)

const (
	DefaultMarker    = "TABLOIDE"
	DefaultExclusion = "RAIZ"
)

// LoadReport reads the raw semicolon report restricted to tbl's columns.
func LoadReport(path string, tbl schema.Table, charset string) (*tabular.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	frame, err := tabular.ReadCSV(f, tabular.CSVOptions{Charset: charset})
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return frame.Select(tbl)
}

// Normalize maps report rows onto promotions: trimmed names and SKUs,
// day-first dates, prices rounded to cents (unparseable prices stay
// missing) and the activation quantity truncated to an int, 0 when missing.
func Normalize(frame *tabular.Frame) ([]domain.Promotion, error) {
	rows := make([]domain.Promotion, 0, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		start, err := tabular.ParseDate(frame.Get(i, schema.ReportStartDate))
		if err != nil {
			return nil, fmt.Errorf("report row %d: start date: %w", i+2, err)
		}
		end, err := tabular.ParseDate(frame.Get(i, schema.ReportEndDate))
		if err != nil {
			return nil, fmt.Errorf("report row %d: end date: %w", i+2, err)
		}

		name := strings.TrimSpace(frame.Get(i, schema.ReportName))
		rows = append(rows, domain.Promotion{
			Name:          name,
			Key:           domain.ParsePromotionName(name),
			StartDate:     start,
			EndDate:       end,
			SKU:           tabular.CanonicalID(frame.Get(i, schema.ReportItem)),
			ItemName:      strings.TrimSpace(frame.Get(i, schema.ReportItemName)),
			SoldPrice:     tabular.Round2(tabular.ParseNumber(frame.Get(i, schema.ReportUnitPrice), true)),
			PromoPrice:    tabular.Round2(tabular.ParseNumber(frame.Get(i, schema.ReportTotalPrice), true)),
			ActivationQty: tabular.TruncInt(tabular.ParseNumber(frame.Get(i, schema.ReportActivation), true)),
		})
	}
	return rows, nil
}

// Filter keeps rows whose name contains marker and drops those containing
// exclusion. Both checks ignore case; an empty exclusion drops nothing.
func Filter(rows []domain.Promotion, marker, exclusion string) []domain.Promotion {
	marker = strings.ToUpper(marker)
	exclusion = strings.ToUpper(exclusion)

	var out []domain.Promotion
	for _, r := range rows {
		name := strings.ToUpper(r.Name)
		if !strings.Contains(name, marker) {
			continue
		}
		if exclusion != "" && strings.Contains(name, exclusion) {
			continue
		}
		out = append(out, r)
	}
	return out
}
