// Package source loads the treated tables for the dashboard from wherever
// the batch published them.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// Source gives read access to the treated tables. LoadMonth returns an error
// wrapping domain.ErrMonthNotFound when the month was never prepared.
type Source interface {
	LoadPromotions(ctx context.Context) ([]domain.Promotion, error)
	LoadMonth(ctx context.Context, month string) ([]domain.TreatedSale, error)
}

// MonthsInRange returns every YYYY-MM month that overlaps [start, end], in
// order. An inverted range yields nothing.
func MonthsInRange(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []string
	for !cur.After(last) {
		months = append(months, treated.Month(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// SalesRange is the concatenation of the monthly tables of a window.
type SalesRange struct {
	Sales   []domain.TreatedSale
	Loaded  []string
	Missing []string
}

// LoadSalesRange loads every month overlapping [start, end]. Months that were
// never prepared are skipped and recorded; any other failure aborts with
// domain.ErrDataUnavailable.
func LoadSalesRange(ctx context.Context, src Source, start, end time.Time) (*SalesRange, error) {
	out := &SalesRange{}
	for _, month := range MonthsInRange(start, end) {
		rows, err := src.LoadMonth(ctx, month)
		if errors.Is(err, domain.ErrMonthNotFound) {
			log.Warn().Str("month", month).Msg("treated sales table not found, skipping")
			out.Missing = append(out.Missing, month)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: month %s: %v", domain.ErrDataUnavailable, month, err)
		}
		out.Sales = append(out.Sales, rows...)
		out.Loaded = append(out.Loaded, month)
	}
	return out, nil
}

// monthNotFound wraps domain.ErrMonthNotFound with the month and location.
func monthNotFound(month, where string) error {
	return fmt.Errorf("%s (%s): %w", month, where, domain.ErrMonthNotFound)
}

// decodeMonth decodes a monthly table by its format.
func decodeMonth(data []byte, format, month string) ([]domain.TreatedSale, error) {
	switch format {
	case treated.ExtCSV:
		return treated.ReadSalesCSV(bytesReader(data), month)
	case treated.ExtParquet:
		return treated.ReadSalesParquet(data, month)
	default:
		return nil, fmt.Errorf("unsupported sales format %q", format)
	}
}

func normalizeFormat(format string) string {
	if format == "" {
		return treated.ExtParquet
	}
	return format
}
