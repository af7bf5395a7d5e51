package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// DirSource reads the tables the batch wrote to a local directory.
type DirSource struct {
	dir    string
	format string
}

func NewDirSource(dir, format string) *DirSource {
	return &DirSource{dir: dir, format: normalizeFormat(format)}
}

func (s *DirSource) LoadPromotions(_ context.Context) ([]domain.Promotion, error) {
	f, err := os.Open(filepath.Join(s.dir, treated.PromotionsFileName))
	if err != nil {
		return nil, fmt.Errorf("open promotions table: %w", err)
	}
	defer f.Close()
	return treated.ReadPromotionsCSV(f)
}

func (s *DirSource) LoadMonth(_ context.Context, month string) ([]domain.TreatedSale, error) {
	path := filepath.Join(s.dir, treated.MonthFileName(month, s.format))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, monthNotFound(month, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeMonth(data, s.format, month)
}

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
