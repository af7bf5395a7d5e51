package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// FileSink writes the treated tables to a directory: one CSV and one Parquet
// file per month plus the promotions CSV.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Dir() string { return s.dir }

func (s *FileSink) WriteSales(_ context.Context, month string, rows []domain.TreatedSale) error {
	var csvBuf, parquetBuf bytes.Buffer
	if err := treated.WriteSalesCSV(&csvBuf, rows); err != nil {
		return err
	}
	if err := treated.WriteSalesParquet(&parquetBuf, rows); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(s.dir, treated.MonthFileName(month, treated.ExtCSV)), csvBuf.Bytes()); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, treated.MonthFileName(month, treated.ExtParquet)), parquetBuf.Bytes())
}

func (s *FileSink) WritePromotions(_ context.Context, rows []domain.Promotion) error {
	var buf bytes.Buffer
	if err := treated.WritePromotionsCSV(&buf, rows); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, treated.PromotionsFileName), buf.Bytes())
}

// writeFile replaces path through a temporary file so a reader never sees a
// half-written table.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed replacing %s: %w", path, err)
	}
	return nil
}

// MultiSink fans every write out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) WriteSales(ctx context.Context, month string, rows []domain.TreatedSale) error {
	for _, s := range m {
		if err := s.WriteSales(ctx, month, rows); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) WritePromotions(ctx context.Context, rows []domain.Promotion) error {
	for _, s := range m {
		if err := s.WritePromotions(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}
